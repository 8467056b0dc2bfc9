package statement

import (
	"math"
	"time"

	"github.com/komsit37/sk/pkg/sk/num"
)

// Period types for a statement frame.
const (
	PeriodQuarterly = "quarterly"
	PeriodAnnual    = "annual"
)

// Alias lists for the financial concepts extracted from statements.
// Order is priority order; matching follows Frame.Find.
var (
	RevenueAliases = []string{"Total Revenue", "Revenue", "Operating Revenue"}

	GrossProfitAliases = []string{"Gross Profit"}

	OperatingIncomeAliases = []string{
		"Operating Income",
		"Operating Income or Loss",
		"Total Operating Income As Reported",
	}

	NetIncomeAliases = []string{
		"Net Income",
		"Net Income Common Stockholders",
		"Net Income Applicable To Common Shares",
		"Net Income From Continuing Operations",
	}

	DilutedEPSAliases = []string{"Diluted EPS"}
	BasicEPSAliases   = []string{"Basic EPS"}

	DilutedNetIncomeAliases = []string{
		"Diluted NI Availto Com Stockholders",
		"Net Income Common Stockholders",
	}
	DilutedSharesAliases = []string{"Diluted Average Shares"}
	BasicSharesAliases   = []string{"Basic Average Shares"}

	OperatingCashFlowAliases = []string{
		"Operating Cash Flow",
		"Total Cash From Operating Activities",
		"Cash Flow From Continuing Operating Activities",
	}
	CapexAliases = []string{"Capital Expenditure", "Capital Expenditures"}

	TotalAssetsAliases      = []string{"Total Assets"}
	TotalLiabilitiesAliases = []string{"Total Liabilities Net Minority Interest", "Total Liab"}
	EquityAliases           = []string{
		"Stockholders Equity",
		"Total Stockholder Equity",
		"Common Stock Equity",
		"Total Equity Gross Minority Interest",
	}
)

// LatestUsableColumn scans columns newest-first and returns the first one
// where at least one core figure (revenue, gross profit, operating
// income, net income) is present. This skips stub latest periods that
// only carry EPS estimates. Returns -1 for an unusable frame.
func (f *Frame) LatestUsableColumn() int {
	if f.Empty() {
		return -1
	}
	for col := range f.Columns {
		if f.Extract(col, RevenueAliases...) != nil ||
			f.Extract(col, GrossProfitAliases...) != nil ||
			f.Extract(col, OperatingIncomeAliases...) != nil ||
			f.Extract(col, NetIncomeAliases...) != nil {
			return col
		}
	}
	return -1
}

// YoYColumn picks the comparison column one year before the given one.
// Quarterly frames search for a period 250-500 days earlier, preferring
// the one closest to exactly 365 days; when no column lands in the
// window the 5th-most-recent column approximates the year-ago quarter.
// Annual frames use the immediately preceding column. Returns -1 when no
// comparison period exists.
func (f *Frame) YoYColumn(latest int, periodType string) int {
	if f.Empty() || latest < 0 || latest >= len(f.Columns) {
		return -1
	}
	if periodType == PeriodAnnual {
		if latest+1 < len(f.Columns) {
			return latest + 1
		}
		return -1
	}
	base, ok := f.ColumnDate(latest)
	if !ok {
		if latest+4 < len(f.Columns) {
			return latest + 4
		}
		return -1
	}
	best := -1
	bestDist := math.MaxFloat64
	for col := latest + 1; col < len(f.Columns); col++ {
		d, ok := f.ColumnDate(col)
		if !ok {
			continue
		}
		days := base.Sub(d).Hours() / 24
		if days < 250 || days > 500 {
			continue
		}
		dist := math.Abs(days - 365)
		if dist < bestDist {
			best, bestDist = col, dist
		}
	}
	if best >= 0 {
		return best
	}
	if latest+4 < len(f.Columns) {
		return latest + 4
	}
	return -1
}

// EarningsDate is one earnings-calendar entry with its reported EPS.
type EarningsDate struct {
	Date        time.Time
	ReportedEPS *float64
	EstimateEPS *float64
}

// EPSSources supplies the out-of-frame inputs for EPS reconstruction.
type EPSSources struct {
	SharesOutstanding *float64
	EarningsDates     []EarningsDate
}

// EPSAt resolves earnings per share for the income-statement column col,
// trying in order: reported diluted/basic EPS rows, diluted net income
// over diluted average shares, net income over basic average shares, net
// income over shares outstanding, and finally the reported EPS of the
// earnings-calendar entry nearest the period end (within -120..+180
// days of it).
func (f *Frame) EPSAt(col int, src EPSSources) *float64 {
	if v := f.Extract(col, DilutedEPSAliases...); v != nil {
		return num.Ptr(num.Round(*v, 2))
	}
	if v := f.Extract(col, BasicEPSAliases...); v != nil {
		return num.Ptr(num.Round(*v, 2))
	}

	ni := f.Extract(col, NetIncomeAliases...)

	if dni := num.FirstValid(f.Extract(col, DilutedNetIncomeAliases...), ni); dni != nil {
		if sh := normalizeShares(f.Extract(col, DilutedSharesAliases...), dni); sh != nil && *sh != 0 {
			return num.Ptr(num.Round(*dni / *sh, 2))
		}
	}
	if ni != nil {
		if sh := normalizeShares(f.Extract(col, BasicSharesAliases...), ni); sh != nil && *sh != 0 {
			return num.Ptr(num.Round(*ni / *sh, 2))
		}
		if sh := normalizeShares(src.SharesOutstanding, ni); sh != nil && *sh != 0 {
			return num.Ptr(num.Round(*ni / *sh, 2))
		}
	}

	if d, ok := f.ColumnDate(col); ok {
		if v := nearestReportedEPS(src.EarningsDates, d); v != nil {
			return num.Ptr(num.Round(*v, 2))
		}
	}
	return nil
}

// normalizeShares corrects share counts reported in millions: a count
// below 1e6 alongside a net income magnitude of 1e8 or more is assumed
// to be a unit mismatch and scaled up by 1e6. Zero or negative counts
// are unusable as an EPS denominator.
func normalizeShares(shares, netIncome *float64) *float64 {
	if shares == nil || *shares <= 0 {
		return nil
	}
	if netIncome != nil && *shares < 1e6 && math.Abs(*netIncome) >= 1e8 {
		return num.Ptr(*shares * 1e6)
	}
	return shares
}

// nearestReportedEPS returns the reported EPS of the earnings event
// closest to the period end, accepting events from 120 days before to
// 180 days after it.
func nearestReportedEPS(dates []EarningsDate, periodEnd time.Time) *float64 {
	var best *float64
	bestDist := math.MaxFloat64
	for _, ed := range dates {
		if ed.ReportedEPS == nil {
			continue
		}
		days := ed.Date.Sub(periodEnd).Hours() / 24
		if days < -120 || days > 180 {
			continue
		}
		dist := math.Abs(days)
		if dist < bestDist {
			best, bestDist = ed.ReportedEPS, dist
		}
	}
	return best
}

// ReportDate picks the report (filing/announcement) date for a period:
// the earliest earnings event 0-200 days after the period end, falling
// back to the period end itself.
func ReportDate(dates []EarningsDate, periodEnd time.Time) time.Time {
	var best time.Time
	for _, ed := range dates {
		days := ed.Date.Sub(periodEnd).Hours() / 24
		if days < 0 || days > 200 {
			continue
		}
		if best.IsZero() || ed.Date.Before(best) {
			best = ed.Date
		}
	}
	if best.IsZero() {
		return periodEnd
	}
	return best
}
