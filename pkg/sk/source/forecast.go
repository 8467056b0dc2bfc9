package source

import (
	"strings"
	"time"

	"github.com/komsit37/sk/pkg/sk/num"
	"github.com/komsit37/sk/pkg/sk/types"
)

// scraped valuation labels mapped by substring, lower-cased.
var valuationLabels = []struct {
	contains string
	assign   func(*types.ForecastSnapshot, *float64)
}{
	{"forward p/e", func(s *types.ForecastSnapshot, v *float64) { s.ForwardPE = v }},
	{"peg ratio", func(s *types.ForecastSnapshot, v *float64) { s.PEG = v }},
	{"enterprise value/ebitda", func(s *types.ForecastSnapshot, v *float64) { s.EVToEBITDA = v }},
	{"price/sales", func(s *types.ForecastSnapshot, v *float64) { s.PS = v }},
	{"price/book", func(s *types.ForecastSnapshot, v *float64) { s.PB = v }},
}

// ForecastFromScrape maps scraped display metrics onto a forecast
// snapshot. Unrecognized labels are ignored; unparseable values stay nil.
func ForecastFromScrape(vals map[string]string) *types.ForecastSnapshot {
	if len(vals) == 0 {
		return nil
	}
	snap := &types.ForecastSnapshot{}
	for label, display := range vals {
		l := strings.ToLower(label)
		for _, m := range valuationLabels {
			if strings.Contains(l, m.contains) {
				if v := num.ParseDisplayNumber(display); v != nil {
					m.assign(snap, num.Ptr(num.Round(*v, 2)))
				}
				break
			}
		}
	}
	return snap
}

// ForecastFromEstimates builds a snapshot from the statistics API's
// estimate-revision series and calendar. Current-year, next-year and
// next-quarter estimates come from the matching trend periods; the
// key-statistics forward EPS backstops the current-year figure.
func ForecastFromEstimates(qs *QuoteSummary) *types.ForecastSnapshot {
	if qs == nil {
		return nil
	}
	snap := &types.ForecastSnapshot{}
	if qs.EarningsTrend != nil {
		for _, tr := range qs.EarningsTrend.Trend {
			cur := tr.EpsTrend.Current.Raw
			if cur == nil {
				continue
			}
			switch tr.Period {
			case "0y":
				snap.EPSForecast = num.Ptr(num.Round(*cur, 2))
			case "+1y":
				snap.NextYearEPSForecast = num.Ptr(num.Round(*cur, 2))
			case "+1q":
				snap.NextQuarterEPSForecast = num.Ptr(num.Round(*cur, 2))
			}
		}
	}
	if qs.DefaultKeyStatistics != nil {
		if snap.EPSForecast == nil && qs.DefaultKeyStatistics.ForwardEps.Raw != nil {
			snap.EPSForecast = num.Ptr(num.Round(*qs.DefaultKeyStatistics.ForwardEps.Raw, 2))
		}
		if v := qs.DefaultKeyStatistics.PegRatio.Raw; v != nil {
			snap.PEG = num.Ptr(num.Round(*v, 2))
		}
		if v := qs.DefaultKeyStatistics.EnterpriseToEbitda.Raw; v != nil {
			snap.EVToEBITDA = num.Ptr(num.Round(*v, 2))
		}
		if v := qs.DefaultKeyStatistics.PriceToBook.Raw; v != nil {
			snap.PB = num.Ptr(num.Round(*v, 2))
		}
	}
	if qs.SummaryDetail != nil {
		if v := qs.SummaryDetail.ForwardPE.Raw; v != nil {
			snap.ForwardPE = num.Ptr(num.Round(*v, 2))
		}
		if v := qs.SummaryDetail.PriceToSalesTrailing12Months.Raw; v != nil {
			snap.PS = num.Ptr(num.Round(*v, 2))
		}
	}
	snap.NextEarningsDate = NextEarningsDate(qs, time.Now())
	return snap
}

// NextEarningsDate picks the upcoming earnings date from the calendar:
// the earliest date not older than yesterday, else the latest known.
func NextEarningsDate(qs *QuoteSummary, now time.Time) string {
	if qs == nil || qs.CalendarEvents == nil {
		return ""
	}
	cutoff := now.AddDate(0, 0, -1)
	var earliest, latest time.Time
	for _, v := range qs.CalendarEvents.Earnings.EarningsDate {
		if v.Raw == nil {
			continue
		}
		d := time.Unix(int64(*v.Raw), 0).UTC()
		if d.After(latest) {
			latest = d
		}
		if !d.Before(cutoff) && (earliest.IsZero() || d.Before(earliest)) {
			earliest = d
		}
	}
	switch {
	case !earliest.IsZero():
		return earliest.Format("2006-01-02")
	case !latest.IsZero():
		return latest.Format("2006-01-02")
	default:
		return ""
	}
}

// TrendRowFor returns the estimate-revision series for the preferred
// period: next fiscal year, then the current year, then next quarter.
func TrendRowFor(qs *QuoteSummary) *TrendPeriod {
	if qs == nil || qs.EarningsTrend == nil {
		return nil
	}
	var currentYear, nextQuarter *TrendPeriod
	for i := range qs.EarningsTrend.Trend {
		tr := &qs.EarningsTrend.Trend[i]
		if tr.EpsTrend.Current.Raw == nil {
			continue
		}
		switch tr.Period {
		case "+1y":
			return tr
		case "0y":
			currentYear = tr
		case "+1q":
			nextQuarter = tr
		}
	}
	if currentYear != nil {
		return currentYear
	}
	return nextQuarter
}
