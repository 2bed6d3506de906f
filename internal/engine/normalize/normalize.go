// Package normalize turns raw log payloads in a declared wire format into
// uniform LogRecords. Formats are never auto-detected.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/crimson-sun/panlogs/internal/model"
)

// Format is a declared input encoding.
type Format string

const (
	FormatSyslog Format = "syslog"
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
)

// ParseFormat converts a string to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "syslog":
		return FormatSyslog, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("normalize: unknown input format %q", s)
}

// ParseError reports a raw record that could not be decoded in its declared
// format. The whole record is rejected, never partially normalized.
type ParseError struct {
	Format Format
	Detail string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("normalize: %s: %s: %v", e.Format, e.Detail, e.Err)
	}
	return fmt.Sprintf("normalize: %s: %s", e.Format, e.Detail)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Decoder converts raw payload lines into LogRecords. It is stateful for CSV
// only: the first line establishes the header. Not safe for concurrent use;
// give each input stream its own Decoder.
type Decoder struct {
	format Format
	source model.SourceType
	header []string // csv column names, set by the first decoded line
}

// NewDecoder creates a Decoder for the given format. Records it produces are
// tagged with the given source type.
func NewDecoder(format Format, source model.SourceType) *Decoder {
	return &Decoder{format: format, source: source}
}

// Format returns the decoder's declared input format.
func (d *Decoder) Format() Format { return d.format }

// Decode parses one raw payload line into a LogRecord. ok is false when the
// line carried no record (a CSV header row or a blank line). A *ParseError
// rejects the record without touching decoder state beyond the CSV header.
func (d *Decoder) Decode(raw string) (rec model.LogRecord, ok bool, err error) {
	if strings.TrimSpace(raw) == "" {
		return model.LogRecord{}, false, nil
	}

	var fields map[string]model.Value
	switch d.format {
	case FormatSyslog:
		fields, err = parseSyslog(raw)
	case FormatCSV:
		fields, ok, err = d.parseCSVLine(raw)
		if err == nil && !ok {
			return model.LogRecord{}, false, nil // header row
		}
	case FormatJSON:
		fields, err = parseJSON(raw)
	default:
		return model.LogRecord{}, false, &ParseError{Format: d.format, Detail: "unsupported format"}
	}
	if err != nil {
		return model.LogRecord{}, false, err
	}

	return d.promote(raw, fields), true, nil
}

// Reset clears per-stream state (the CSV header). Call it between files.
func (d *Decoder) Reset() { d.header = nil }

// Well-known field names checked, in order, when promoting the timestamp.
var timestampFields = []string{
	"timestamp", "receive_time", "Receive Time", "time", "generated_time", "Generate Time",
}

// Timestamp layouts tried in order: RFC 3339, the Panorama CSV receive-time
// layout, and classic syslog (no year).
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006/01/02 15:04:05",
	time.Stamp,
}

// Fields checked, in order, when promoting the priority level.
var priorityFields = []string{"priority", "severity", "Severity", "risk"}

// promote builds the LogRecord envelope from parsed fields: timestamp,
// priority, source type, and raw size. Unrecognized fields ride along
// untouched.
func (d *Decoder) promote(raw string, fields map[string]model.Value) model.LogRecord {
	rec := model.LogRecord{
		SourceType: d.source,
		Priority:   model.PriorityInformational,
		RawSize:    int64(len(raw)),
		Fields:     fields,
	}

	for _, name := range timestampFields {
		v, present := fields[name]
		if !present || v.IsAbsent() {
			continue
		}
		if v.Kind == model.KindTime {
			rec.Timestamp = v.Time
			break
		}
		if ts, parsed := parseTimestamp(v.Text()); parsed {
			rec.Timestamp = ts
			break
		}
	}

	for _, name := range priorityFields {
		v, present := fields[name]
		if !present || v.IsAbsent() {
			continue
		}
		if p, parsed := model.ParsePriority(v.Text()); parsed {
			rec.Priority = p
			break
		}
	}

	if v := fields["source_type"]; !v.IsAbsent() {
		rec.SourceType = model.ParseSourceType(v.Text())
	}

	return rec
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
