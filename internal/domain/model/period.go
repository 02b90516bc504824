package model

import "strings"

// periodKeywords maps descriptor substrings to coverage days. Descriptors
// come from plan rows ("30 dias", "1 ano") or, as a last resort, from the raw
// plan token itself ("monthly", "trial"). Matching is case-insensitive.
//
// Entries are ordered: "biannual" must win before "annual", and the longer
// day counts before shorter digit runs.
var periodKeywords = []struct {
	days     int
	keywords []string
}{
	{1095, []string{"1095", "trienal", "triennial"}},
	{180, []string{"180", "semestral", "biannual", "semiannual"}},
	{365, []string{"365", "anual", "1 ano", "annual", "yearly"}},
	{90, []string{"90", "trimestral", "quarterly"}},
	{30, []string{"30", "mensal", "monthly"}},
	{7, []string{"7 dias", "semanal", "weekly", "trial", "teste"}},
}

// DefaultPeriodDays is applied when no keyword matches anywhere in the
// resolution chain. Callers must treat that as a degraded resolution, not a
// trusted value.
const DefaultPeriodDays = 30

// ParsePeriodDays matches a period descriptor against the keyword table.
// Returns (days, true) on the first match, (0, false) otherwise.
func ParsePeriodDays(descriptor string) (int, bool) {
	d := strings.ToLower(descriptor)
	if d == "" {
		return 0, false
	}
	for _, entry := range periodKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(d, kw) {
				return entry.days, true
			}
		}
	}
	return 0, false
}
