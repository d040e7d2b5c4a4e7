// Package attrs reads slog-style key/value attribute slices.
package attrs

import "fmt"

// ExtractString extracts a string value from a key-value attribute slice.
// The slice should be formatted as [key1, value1, key2, value2, ...].
// fmt.Stringer values (typed IDs) are rendered with String. Returns empty
// string if the key is not found or the value is neither.
func ExtractString(attrs []any, key string) string {
	for i := 0; i < len(attrs)-1; i += 2 {
		if k, ok := attrs[i].(string); ok && k == key {
			switch v := attrs[i+1].(type) {
			case string:
				return v
			case fmt.Stringer:
				return v.String()
			}
		}
	}
	return ""
}

// ToMetadata flattens a key-value attribute slice into a string map, skipping
// the excluded keys. Non-string values are formatted with %v; a trailing key
// without a value is dropped.
func ToMetadata(attrs []any, exclude ...string) map[string]string {
	skip := make(map[string]struct{}, len(exclude))
	for _, k := range exclude {
		skip[k] = struct{}{}
	}

	out := make(map[string]string)
	for i := 0; i < len(attrs)-1; i += 2 {
		k, ok := attrs[i].(string)
		if !ok {
			continue
		}
		if _, excluded := skip[k]; excluded {
			continue
		}
		switch v := attrs[i+1].(type) {
		case string:
			out[k] = v
		case fmt.Stringer:
			out[k] = v.String()
		default:
			out[k] = fmt.Sprintf("%v", v)
		}
	}
	return out
}
