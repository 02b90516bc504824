package metrics

import "strings"

// norm keeps label cardinality sane: lower-case, no spaces, empty -> unknown.
func norm(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "unknown"
	}
	return strings.ReplaceAll(s, " ", "_")
}
