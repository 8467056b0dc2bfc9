package issues

import (
	"errors"
	"fmt"

	"github.com/phuslu/log"

	"github.com/komsit37/sk/pkg/sk/types"
)

// StatusError is an HTTP failure that carries the response status code.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Code, e.URL)
}

// Collector accumulates fetch diagnostics for one symbol's pipeline.
// It is unit-scoped: created before the pipeline runs, finished after.
type Collector struct {
	items []types.Issue
}

func NewCollector() *Collector { return &Collector{} }

// Record appends an issue from an adapter error. HTTP status codes are
// extracted into the issue when the error carries one.
func (c *Collector) Record(source string, err error) {
	if err == nil {
		return
	}
	issue := types.Issue{Source: source, Message: err.Error()}
	var se *StatusError
	if errors.As(err, &se) {
		issue.StatusCode = se.Code
	}
	log.Warn().Str("source", source).Int("status", issue.StatusCode).Msg(issue.Message)
	c.items = append(c.items, issue)
}

// Recordf appends a plain-message issue with no status code.
func (c *Collector) Recordf(source, format string, args ...any) {
	issue := types.Issue{Source: source, Message: fmt.Sprintf(format, args...)}
	log.Warn().Str("source", source).Msg(issue.Message)
	c.items = append(c.items, issue)
}

// Finish returns the recorded issues deduplicated by
// (source, message, status code). Returns nil when nothing was recorded,
// so a clean fetch carries no warnings key at all.
func (c *Collector) Finish() []types.Issue {
	if len(c.items) == 0 {
		return nil
	}
	type key struct {
		source, message string
		status          int
	}
	seen := make(map[key]struct{}, len(c.items))
	out := make([]types.Issue, 0, len(c.items))
	for _, it := range c.items {
		k := key{it.Source, it.Message, it.StatusCode}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}
