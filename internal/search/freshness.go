package search

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// braveFreshnessTokens are Brave's recency shorthands: past day, week,
// month, year.
var braveFreshnessTokens = map[string]bool{
	"pd": true, "pw": true, "pm": true, "py": true,
}

// bochaFreshnessTokens additionally include noLimit (unrestricted age).
var bochaFreshnessTokens = map[string]bool{
	"oneDay": true, "oneWeek": true, "oneMonth": true, "oneYear": true, "noLimit": true,
}

var freshnessRangeRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})to(\d{4}-\d{2}-\d{2})$`)

// normalizeFreshness validates the recency filter for the provider and
// returns the canonical token or range string. Both grammars accept
// YYYY-MM-DDtoYYYY-MM-DD; the shorthand tokens differ per provider.
func normalizeFreshness(p Provider, value string) (string, *Payload) {
	value = strings.TrimSpace(value)

	tokens := braveFreshnessTokens
	hint := `use pd, pw, pm, py, or a range like 2024-01-01to2024-01-31`
	if p == ProviderBocha {
		tokens = bochaFreshnessTokens
		hint = `use oneDay, oneWeek, oneMonth, oneYear, noLimit, or a range like 2024-01-01to2024-01-31`
	}

	if tokens[value] {
		return value, nil
	}

	m := freshnessRangeRe.FindStringSubmatch(value)
	if m == nil {
		return "", reject(CodeInvalidFreshness,
			fmt.Sprintf("invalid freshness %q for provider %q", value, p), hint)
	}
	start, end := m[1], m[2]
	for _, d := range []string{start, end} {
		if !validISODate(d) {
			return "", reject(CodeInvalidFreshness,
				fmt.Sprintf("freshness range contains invalid calendar date %q", d), hint)
		}
	}
	// The fixed-width ISO format makes lexicographic order chronological.
	if start > end {
		return "", reject(CodeInvalidFreshness,
			fmt.Sprintf("freshness range start %q is after end %q", start, end), hint)
	}
	return value, nil
}

// validISODate verifies the date round-trips through a UTC calendar
// construction, rejecting syntactically plausible non-dates like
// February 30.
func validISODate(s string) bool {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return false
	}
	return t.Format("2006-01-02") == s
}
