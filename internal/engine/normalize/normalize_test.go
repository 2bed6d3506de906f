package normalize

import (
	"errors"
	"testing"
	"time"

	"github.com/crimson-sun/panlogs/internal/model"
)

// --- syslog ---

func TestSyslogKeyValue(t *testing.T) {
	d := NewDecoder(FormatSyslog, model.SourceFirewall)
	rec, ok, err := d.Decode(`timestamp=2024-05-01T12:30:00Z priority=critical confidence=0.95 src_ip=10.0.0.1`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected a record")
	}
	if rec.Priority != model.PriorityCritical {
		t.Fatalf("expected critical priority, got %s", rec.Priority)
	}
	if rec.Timestamp.Hour() != 12 {
		t.Fatalf("timestamp not promoted: %v", rec.Timestamp)
	}
	if got := rec.Field("confidence"); got.Kind != model.KindNumber || got.Num != 0.95 {
		t.Fatalf("expected numeric confidence 0.95, got %+v", got)
	}
	if rec.RawSize <= 0 {
		t.Fatal("raw size not recorded")
	}
}

func TestSyslogQuotedValue(t *testing.T) {
	d := NewDecoder(FormatSyslog, model.SourceFirewall)
	rec, _, err := d.Decode(`msg="connection reset by peer" severity=high`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rec.Field("msg").Str; got != "connection reset by peer" {
		t.Fatalf("quoted value mangled: %q", got)
	}
	if rec.Priority != model.PriorityHigh {
		t.Fatalf("severity not promoted, got %s", rec.Priority)
	}
}

func TestSyslogBareTokensRetained(t *testing.T) {
	d := NewDecoder(FormatSyslog, model.SourceFirewall)
	rec, _, err := d.Decode(`<134> hostname priority=low`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Field("extra0").Str != "<134>" || rec.Field("extra1").Str != "hostname" {
		t.Fatalf("bare tokens dropped: %+v", rec.Fields)
	}
}

func TestSyslogUnterminatedQuote(t *testing.T) {
	d := NewDecoder(FormatSyslog, model.SourceFirewall)
	_, _, err := d.Decode(`msg="never closed priority=low`)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

// Round-trip: normalizing priority/confidence fields yields the original
// values unchanged.
func TestSyslogRoundTrip(t *testing.T) {
	d := NewDecoder(FormatSyslog, model.SourceFirewall)
	rec, _, err := d.Decode(`priority=critical confidence=0.95`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Field("priority").Text() != "critical" {
		t.Fatalf("priority changed: %q", rec.Field("priority").Text())
	}
	if rec.Field("confidence").Text() != "0.95" {
		t.Fatalf("confidence changed: %q", rec.Field("confidence").Text())
	}
}

// --- csv ---

func TestCSVHeaderAndRows(t *testing.T) {
	d := NewDecoder(FormatCSV, model.SourcePanorama)
	if _, ok, err := d.Decode("Receive Time,Severity,Action,Bytes"); err != nil || ok {
		t.Fatalf("header row should yield no record (ok=%v err=%v)", ok, err)
	}
	rec, ok, err := d.Decode("2024/05/01 12:30:00,high,allow,512")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected a record")
	}
	if rec.Priority != model.PriorityHigh {
		t.Fatalf("expected high, got %s", rec.Priority)
	}
	if rec.Timestamp.IsZero() {
		t.Fatal("Panorama receive time not parsed")
	}
	if rec.SourceType != model.SourcePanorama {
		t.Fatalf("source type lost: %s", rec.SourceType)
	}
	if rec.Field("Bytes").Num != 512 {
		t.Fatalf("expected Bytes=512, got %+v", rec.Field("Bytes"))
	}
}

func TestCSVEmptyCellIsAbsent(t *testing.T) {
	d := NewDecoder(FormatCSV, model.SourceFirewall)
	d.Decode("a,b,c")
	rec, _, err := d.Decode("1,,3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rec.Field("b").IsAbsent() {
		t.Fatalf("empty cell should be Absent, got %+v", rec.Field("b"))
	}
	if rec.Field("a").Num != 1 {
		t.Fatalf("expected a=1, got %+v", rec.Field("a"))
	}
}

func TestCSVColumnCountMismatch(t *testing.T) {
	d := NewDecoder(FormatCSV, model.SourceFirewall)
	d.Decode("a,b,c")
	_, _, err := d.Decode("1,2")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestCSVRepeatedHeaderSkipped(t *testing.T) {
	d := NewDecoder(FormatCSV, model.SourceFirewall)
	d.Decode("a,b,c")
	_, ok, err := d.Decode("a,b,c")
	if err != nil || ok {
		t.Fatalf("repeated header should be skipped (ok=%v err=%v)", ok, err)
	}
}

// --- json ---

func TestJSONFlattening(t *testing.T) {
	d := NewDecoder(FormatJSON, model.SourceFirewall)
	rec, _, err := d.Decode(`{"timestamp":"2024-05-01T12:30:00Z","severity":"medium","network":{"src_ip":"10.0.0.1","dst":{"port":443}}}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Field("network.src_ip").Str != "10.0.0.1" {
		t.Fatalf("nested object not flattened: %+v", rec.Fields)
	}
	if rec.Field("network.dst.port").Num != 443 {
		t.Fatalf("deep nesting not flattened: %+v", rec.Field("network.dst.port"))
	}
	if rec.Priority != model.PriorityMedium {
		t.Fatalf("severity not promoted: %s", rec.Priority)
	}
	want := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	if !rec.Timestamp.Equal(want) {
		t.Fatalf("timestamp %v, want %v", rec.Timestamp, want)
	}
}

func TestJSONNullIsAbsent(t *testing.T) {
	d := NewDecoder(FormatJSON, model.SourceFirewall)
	rec, _, err := d.Decode(`{"a":null,"b":1}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rec.Field("a").IsAbsent() {
		t.Fatal("null should map to Absent")
	}
}

func TestJSONMalformed(t *testing.T) {
	d := NewDecoder(FormatJSON, model.SourceFirewall)
	_, _, err := d.Decode(`{"a": `)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestBlankLineYieldsNothing(t *testing.T) {
	d := NewDecoder(FormatJSON, model.SourceFirewall)
	_, ok, err := d.Decode("   ")
	if err != nil || ok {
		t.Fatalf("blank line should yield nothing (ok=%v err=%v)", ok, err)
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("CSV"); err != nil || f != FormatCSV {
		t.Fatalf("ParseFormat(CSV) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
