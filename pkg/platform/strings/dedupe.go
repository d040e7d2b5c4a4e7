// Package strings holds the list normalization shared by request parsing,
// reason recording and env configuration.
package strings

import (
	"strings"
)

// DedupeAndTrim trims every element and drops blanks and repeats, keeping
// first-seen order. The result is never nil.
func DedupeAndTrim(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}

// SplitList splits a sep-delimited value such as "k1:9092, k2:9092," and
// normalizes it with DedupeAndTrim. An empty input yields nil.
func SplitList(value, sep string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	out := DedupeAndTrim(strings.Split(value, sep))
	if len(out) == 0 {
		return nil
	}
	return out
}
