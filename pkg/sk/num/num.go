package num

import (
	"math"
	"strconv"
	"strings"
)

// Ptr returns a pointer to v.
func Ptr(v float64) *float64 { return &v }

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}

// PctChange returns (new/old - 1) * 100 rounded to 2 decimals.
// Returns nil when either operand is missing or the base is zero.
func PctChange(newVal, oldVal *float64) *float64 {
	if newVal == nil || oldVal == nil || *oldVal == 0 {
		return nil
	}
	return Ptr(Round((*newVal / *oldVal - 1)*100, 2))
}

// Pct returns numerator/denominator * 100 rounded to 2 decimals,
// nil when either operand is missing or the denominator is zero.
func Pct(numerator, denominator *float64) *float64 {
	if numerator == nil || denominator == nil || *denominator == 0 {
		return nil
	}
	return Ptr(Round(*numerator / *denominator * 100, 2))
}

// ToBillions converts v to billions, rounded to 2 decimals.
func ToBillions(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return Ptr(Round(*v/1e9, 2))
}

// ToPct converts a decimal ratio to a percent value. Values already
// expressed as percents (magnitude above 1.5) pass through unchanged.
func ToPct(v *float64) *float64 {
	if v == nil {
		return nil
	}
	if math.Abs(*v) <= 1.5 {
		return Ptr(Round(*v*100, 2))
	}
	return Ptr(Round(*v, 2))
}

// FirstValid returns the first non-nil value, or nil.
func FirstValid(vals ...*float64) *float64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

// ParseFloat parses a plain numeric string, tolerating thousands
// separators. Empty strings and placeholder sentinels yield nil.
func ParseFloat(s string) *float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" || isSentinel(s) {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// ParseDisplayNumber parses a human-formatted figure as shown on finance
// pages: optional thousands separators, a trailing %, or a K/M/B/T unit
// suffix. "N/A" style placeholders yield nil.
func ParseDisplayNumber(s string) *float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" || isSentinel(s) {
		return nil
	}
	mult := 1.0
	if strings.HasSuffix(s, "%") {
		s = strings.TrimSuffix(s, "%")
	} else if len(s) > 1 {
		switch s[len(s)-1] {
		case 'K', 'k':
			mult, s = 1e3, s[:len(s)-1]
		case 'M', 'm':
			mult, s = 1e6, s[:len(s)-1]
		case 'B', 'b':
			mult, s = 1e9, s[:len(s)-1]
		case 'T', 't':
			mult, s = 1e12, s[:len(s)-1]
		}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	f *= mult
	return &f
}

func isSentinel(s string) bool {
	switch strings.ToUpper(s) {
	case "N/A", "NA", "--", "-", "NAN", "NONE", "∞", "INFINITY":
		return true
	}
	return false
}
