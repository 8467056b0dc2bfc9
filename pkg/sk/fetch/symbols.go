package fetch

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxSymbols caps one orchestrated batch.
const MaxSymbols = 10

var symbolPattern = regexp.MustCompile(`^[A-Z0-9.\-]{1,10}$`)

// NormalizeSymbols upper-cases, deduplicates and validates the requested
// symbols, preserving first-seen order and capping the batch size.
func NormalizeSymbols(symbols []string) ([]string, error) {
	out := make([]string, 0, len(symbols))
	seen := map[string]struct{}{}
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if !symbolPattern.MatchString(s) {
			return nil, fmt.Errorf("invalid symbol %q", s)
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no symbols given")
	}
	if len(out) > MaxSymbols {
		out = out[:MaxSymbols]
	}
	return out, nil
}
