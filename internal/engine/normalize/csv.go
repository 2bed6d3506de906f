package normalize

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/crimson-sun/panlogs/internal/model"
)

// parseCSVLine decodes one CSV line. The first line seen becomes the header
// and yields no record (ok=false). A later line identical to the header is
// treated as a repeated header (file boundaries in concatenated exports) and
// skipped. Empty cells map to the Absent sentinel, not an empty string.
func (d *Decoder) parseCSVLine(raw string) (map[string]model.Value, bool, error) {
	cells, err := splitCSV(raw)
	if err != nil {
		return nil, false, &ParseError{Format: FormatCSV, Detail: "malformed row", Err: err}
	}

	if d.header == nil {
		header := make([]string, len(cells))
		for i, c := range cells {
			header[i] = strings.TrimSpace(c)
		}
		d.header = header
		return nil, false, nil
	}

	if len(cells) != len(d.header) {
		return nil, false, &ParseError{
			Format: FormatCSV,
			Detail: fmt.Sprintf("row has %d columns, header has %d", len(cells), len(d.header)),
		}
	}

	if isHeaderRow(cells, d.header) {
		return nil, false, nil
	}

	fields := make(map[string]model.Value, len(cells))
	for i, c := range cells {
		if c == "" {
			fields[d.header[i]] = model.Absent
			continue
		}
		fields[d.header[i]] = typedValue(c)
	}
	return fields, true, nil
}

func splitCSV(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	cells, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty row")
	}
	return cells, err
}

func isHeaderRow(cells, header []string) bool {
	for i, c := range cells {
		if strings.TrimSpace(c) != header[i] {
			return false
		}
	}
	return true
}
