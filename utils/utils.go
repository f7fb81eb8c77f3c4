package utils

import (
	"strconv"
	"strings"
)

// SplitList takes a comma-separated string and returns the trimmed,
// non-empty entries in their original order and case.
func SplitList(input string) []string {
	if input == "" {
		return []string{}
	}
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]bool)

	for _, p := range parts {
		item := strings.TrimSpace(p)
		if item == "" || seen[item] {
			continue
		}
		out = append(out, item)
		seen[item] = true
	}
	return out
}

// ParseBool accepts the "true"/"false" strings the admin forms send.
// Anything else is false.
func ParseBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}
