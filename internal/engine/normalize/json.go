package normalize

import (
	"encoding/json"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/crimson-sun/panlogs/internal/model"
)

// parseJSON decodes one JSON object. Nested objects are flattened into
// dot-joined paths ("network.src_ip"). Arrays are kept opaque as their
// compact JSON encoding; null maps to the Absent sentinel.
func parseJSON(raw string) (map[string]model.Value, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, &ParseError{Format: FormatJSON, Detail: "invalid JSON object", Err: err}
	}
	if len(obj) == 0 {
		return nil, &ParseError{Format: FormatJSON, Detail: "empty object"}
	}

	fields := make(map[string]model.Value)
	flatten("", obj, fields)
	return fields, nil
}

func flatten(prefix string, obj map[string]any, out map[string]model.Value) {
	for k, v := range obj {
		key := norm.NFC.String(k)
		if prefix != "" {
			key = prefix + "." + key
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case string:
			out[key] = jsonStringValue(val)
		case float64:
			out[key] = model.NumberValue(val)
		case bool:
			if val {
				out[key] = model.StringValue("true")
			} else {
				out[key] = model.StringValue("false")
			}
		case nil:
			out[key] = model.Absent
		default:
			// Arrays and anything else stay opaque.
			enc, err := json.Marshal(val)
			if err != nil {
				out[key] = model.Absent
				continue
			}
			out[key] = model.StringValue(string(enc))
		}
	}
}

// jsonStringValue promotes RFC 3339 strings to time values so timestamp
// promotion does not have to re-parse them.
func jsonStringValue(s string) model.Value {
	if len(s) >= 20 && strings.IndexByte(s, 'T') > 0 {
		if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return model.TimeValue(ts)
		}
	}
	return model.StringValue(norm.NFC.String(s))
}
