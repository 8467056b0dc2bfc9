package filter

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Filter matches an output section name.
type Filter interface {
	Match(name string) bool
}

// Parse builds a filter from an expression:
// - Comma-separated exact names: "realtime,financial"
// - Glob: "fin*"
// - Regex: "/^(realtime|forecast)$/"
// Anything else matches as a case-insensitive substring.
func Parse(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Always(true), nil
	}
	if strings.HasPrefix(expr, "/") && strings.HasSuffix(expr, "/") && len(expr) > 2 {
		re, err := regexp.Compile(expr[1 : len(expr)-1])
		if err != nil {
			return nil, err
		}
		return Regex{re: re}, nil
	}
	if strings.Contains(expr, ",") {
		set := map[string]struct{}{}
		for _, p := range strings.Split(expr, ",") {
			p = strings.ToLower(strings.TrimSpace(p))
			if p == "" {
				continue
			}
			set[p] = struct{}{}
		}
		return ExactSet{set: set}, nil
	}
	if strings.ContainsAny(expr, "*?") {
		return Glob{pattern: expr}, nil
	}
	// Default: case-insensitive substring match (equivalent to *expr*).
	return SubstrCI{needle: expr}, nil
}

// Implementations

type Always bool

func (a Always) Match(string) bool { return bool(a) }

// ExactSet matches names listed in a comma expression, case-insensitively.
type ExactSet struct{ set map[string]struct{} }

func (e ExactSet) Match(name string) bool {
	_, ok := e.set[strings.ToLower(name)]
	return ok
}

type Glob struct{ pattern string }

func (g Glob) Match(name string) bool {
	ok, _ := filepath.Match(g.pattern, name)
	return ok
}

func (g Glob) String() string { return fmt.Sprintf("glob:%s", g.pattern) }

type Regex struct{ re *regexp.Regexp }

func (r Regex) Match(name string) bool { return r.re.MatchString(name) }

// SubstrCI matches if name contains needle, case-insensitively.
type SubstrCI struct{ needle string }

func (s SubstrCI) Match(name string) bool {
	if s.needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(s.needle))
}

func (s SubstrCI) String() string { return fmt.Sprintf("substr-ci:%s", s.needle) }
