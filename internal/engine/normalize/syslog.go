package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/crimson-sun/panlogs/internal/model"
)

// parseSyslog parses one line of space-delimited key=value tokens. Values may
// be double-quoted to permit embedded spaces. Tokens without an '=' are kept
// as opaque extra fields (extra0, extra1, ...) rather than dropped.
func parseSyslog(raw string) (map[string]model.Value, error) {
	line := norm.NFC.String(strings.TrimRight(raw, "\r\n"))
	fields := make(map[string]model.Value)

	extras := 0
	i := 0
	for i < len(line) {
		// Skip token separators.
		if line[i] == ' ' {
			i++
			continue
		}

		start := i
		eq := -1
		for i < len(line) && line[i] != ' ' {
			if line[i] == '=' && eq == -1 {
				eq = i
				// A quoted value may contain spaces; consume it whole.
				if eq+1 < len(line) && line[eq+1] == '"' {
					end, err := scanQuoted(line, eq+1)
					if err != nil {
						return nil, err
					}
					i = end
					break
				}
			}
			i++
		}
		token := line[start:i]

		if eq == -1 {
			fields["extra"+strconv.Itoa(extras)] = model.StringValue(token)
			extras++
			continue
		}

		key := line[start:eq]
		if key == "" {
			return nil, &ParseError{Format: FormatSyslog, Detail: fmt.Sprintf("empty key in token %q", token)}
		}
		val := line[eq+1 : i]
		if strings.HasPrefix(val, `"`) {
			val = strings.ReplaceAll(val[1:len(val)-1], `\"`, `"`)
		}
		fields[key] = typedValue(val)
	}

	if len(fields) == 0 {
		return nil, &ParseError{Format: FormatSyslog, Detail: "no tokens"}
	}
	return fields, nil
}

// scanQuoted consumes a double-quoted value starting at line[start] == '"'.
// Returns the index one past the closing quote. Backslash escapes a quote.
func scanQuoted(line string, start int) (int, error) {
	for j := start + 1; j < len(line); j++ {
		switch line[j] {
		case '\\':
			j++
		case '"':
			return j + 1, nil
		}
	}
	return 0, &ParseError{Format: FormatSyslog, Detail: fmt.Sprintf("unterminated quote at offset %d", start)}
}

// typedValue converts a raw string to a number when it parses as one,
// otherwise keeps it as a string.
func typedValue(s string) model.Value {
	if s == "" {
		return model.StringValue("")
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return model.NumberValue(f)
	}
	return model.StringValue(s)
}
