package statement

import (
	"github.com/komsit37/sk/pkg/sk/num"
	"github.com/komsit37/sk/pkg/sk/types"
)

// Inputs bundles the statement frames and auxiliary sources for one
// period type.
type Inputs struct {
	Income     *Frame
	Balance    *Frame
	CashFlow   *Frame
	PeriodType string
	Sources    EPSSources
	// ProfileROE is the provider-supplied return on equity, used when
	// the balance-sheet lookup fails. May be a decimal ratio.
	ProfileROE *float64
}

// BuildFinancial derives a FinancialSnapshot from the latest usable
// income-statement column. Returns nil when the frame has no usable
// period at all.
func BuildFinancial(in Inputs) *types.FinancialSnapshot {
	if in.Income.Empty() {
		return nil
	}
	latest := in.Income.LatestUsableColumn()
	if latest < 0 {
		return nil
	}
	period := in.Income.Columns[latest]

	revenue := in.Income.Extract(latest, RevenueAliases...)
	grossProfit := in.Income.Extract(latest, GrossProfitAliases...)
	opIncome := in.Income.Extract(latest, OperatingIncomeAliases...)
	netIncome := in.Income.Extract(latest, NetIncomeAliases...)

	snap := &types.FinancialSnapshot{
		LatestPeriod:       period,
		LatestPeriodType:   in.PeriodType,
		RevenueB:           num.ToBillions(revenue),
		NetIncomeB:         num.ToBillions(netIncome),
		EPS:                in.Income.EPSAt(latest, in.Sources),
		GrossMarginPct:     num.Pct(grossProfit, revenue),
		OperatingMarginPct: num.Pct(opIncome, revenue),
		NetMarginPct:       num.Pct(netIncome, revenue),
		ROEPct:             roe(netIncome, in.Balance, period, in.ProfileROE),
	}

	if d, ok := in.Income.ColumnDate(latest); ok {
		snap.LatestReportDate = ReportDate(in.Sources.EarningsDates, d).Format("2006-01-02")
	}

	if prev := in.Income.YoYColumn(latest, in.PeriodType); prev >= 0 {
		snap.RevenueYoYPct = num.PctChange(revenue, in.Income.Extract(prev, RevenueAliases...))
		snap.NetIncomeYoYPct = num.PctChange(netIncome, in.Income.Extract(prev, NetIncomeAliases...))
	}
	return snap
}

// roe computes return on equity from the balance-sheet column matching
// the income period, falling back to the profile-supplied ratio.
func roe(netIncome *float64, balance *Frame, period string, profileROE *float64) *float64 {
	if !balance.Empty() {
		col := balance.ColumnIndex(period)
		if col < 0 {
			// No exact period match; the newest balance column is close
			// enough for a trailing ratio.
			col = 0
		}
		if equity := balance.Extract(col, EquityAliases...); equity != nil {
			if v := num.Pct(netIncome, equity); v != nil {
				return v
			}
		}
	}
	return num.ToPct(profileROE)
}
