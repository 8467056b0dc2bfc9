package statement

import (
	"sort"
	"strings"
	"time"
)

// Frame is one financial statement: line-item rows by reporting-period
// columns. Columns are period-end dates (YYYY-MM-DD) ordered newest
// first; Cells values are aligned with Columns, nil for missing figures.
type Frame struct {
	Columns []string
	Cells   map[string][]*float64
}

func NewFrame() *Frame {
	return &Frame{Cells: map[string][]*float64{}}
}

func (f *Frame) Empty() bool {
	return f == nil || len(f.Columns) == 0 || len(f.Cells) == 0
}

// Set stores a value for a label at a period, adding the column if new.
func (f *Frame) Set(label, period string, v *float64) {
	col := -1
	for i, c := range f.Columns {
		if c == period {
			col = i
			break
		}
	}
	if col < 0 {
		col = len(f.Columns)
		f.Columns = append(f.Columns, period)
		for l := range f.Cells {
			f.Cells[l] = append(f.Cells[l], nil)
		}
	}
	row, ok := f.Cells[label]
	if !ok {
		row = make([]*float64, len(f.Columns))
		f.Cells[label] = row
	}
	for len(row) < len(f.Columns) {
		row = append(row, nil)
	}
	row[col] = v
	f.Cells[label] = row
}

// Sort orders columns newest first, keeping every row aligned.
func (f *Frame) Sort() {
	if f.Empty() {
		return
	}
	idx := make([]int, len(f.Columns))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return f.Columns[idx[a]] > f.Columns[idx[b]]
	})
	cols := make([]string, len(idx))
	for i, j := range idx {
		cols[i] = f.Columns[j]
	}
	f.Columns = cols
	for label, row := range f.Cells {
		next := make([]*float64, len(idx))
		for i, j := range idx {
			if j < len(row) {
				next[i] = row[j]
			}
		}
		f.Cells[label] = next
	}
}

// ColumnDate parses the period-end date of column col.
func (f *Frame) ColumnDate(col int) (time.Time, bool) {
	if f == nil || col < 0 || col >= len(f.Columns) {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", f.Columns[col])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ColumnIndex returns the index of the column for the given period.
func (f *Frame) ColumnIndex(period string) int {
	if f == nil {
		return -1
	}
	for i, c := range f.Columns {
		if c == period {
			return i
		}
	}
	return -1
}

// normalizeLabel lower-cases a row label and strips non-alphanumerics so
// that "Net Income" and "netIncome" compare equal.
func normalizeLabel(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Find locates the row whose label best matches one of the aliases:
// exact normalized match across all aliases first, then substring
// containment in either direction. Alias order is the priority order.
func (f *Frame) Find(aliases ...string) (string, bool) {
	if f.Empty() {
		return "", false
	}
	labels := make([]string, 0, len(f.Cells))
	for l := range f.Cells {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	norm := make(map[string]string, len(labels))
	for _, l := range labels {
		norm[l] = normalizeLabel(l)
	}
	for _, a := range aliases {
		na := normalizeLabel(a)
		if na == "" {
			continue
		}
		for _, l := range labels {
			if norm[l] == na {
				return l, true
			}
		}
	}
	for _, a := range aliases {
		na := normalizeLabel(a)
		if na == "" {
			continue
		}
		for _, l := range labels {
			nl := norm[l]
			if strings.Contains(nl, na) || strings.Contains(na, nl) {
				return l, true
			}
		}
	}
	return "", false
}

// Extract returns the value at column col of the best-matching row, or
// nil when no row matches or the cell is empty.
func (f *Frame) Extract(col int, aliases ...string) *float64 {
	label, ok := f.Find(aliases...)
	if !ok {
		return nil
	}
	row := f.Cells[label]
	if col < 0 || col >= len(row) {
		return nil
	}
	return row[col]
}
