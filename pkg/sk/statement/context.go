package statement

import (
	"github.com/komsit37/sk/pkg/sk/num"
	"github.com/komsit37/sk/pkg/sk/types"
)

const (
	contextAnnualRows    = 3
	contextQuarterlyRows = 4
)

// Statements holds every frame fetched for one symbol.
type Statements struct {
	IncomeAnnual     *Frame
	IncomeQuarterly  *Frame
	BalanceAnnual    *Frame
	BalanceQuarterly *Frame
	CashAnnual       *Frame
	CashQuarterly    *Frame
}

func (s *Statements) Empty() bool {
	return s == nil || (s.IncomeAnnual.Empty() && s.IncomeQuarterly.Empty())
}

// BuildContext condenses recent annual and quarterly periods into the
// rows handed to downstream consumers: up to 3 annual and 4 quarterly,
// most recent first.
func BuildContext(st *Statements, src EPSSources) *types.FinancialContext {
	if st.Empty() {
		return nil
	}
	ctx := &types.FinancialContext{
		Annual:    contextRows(st.IncomeAnnual, st.BalanceAnnual, st.CashAnnual, src, PeriodAnnual, contextAnnualRows),
		Quarterly: contextRows(st.IncomeQuarterly, st.BalanceQuarterly, st.CashQuarterly, src, PeriodQuarterly, contextQuarterlyRows),
	}
	if len(ctx.Annual) == 0 && len(ctx.Quarterly) == 0 {
		return nil
	}
	return ctx
}

func contextRows(income, balance, cash *Frame, src EPSSources, periodType string, limit int) []types.ContextRow {
	if income.Empty() {
		return nil
	}
	start := income.LatestUsableColumn()
	if start < 0 {
		return nil
	}
	rows := make([]types.ContextRow, 0, limit)
	for col := start; col < len(income.Columns) && len(rows) < limit; col++ {
		period := income.Columns[col]
		revenue := income.Extract(col, RevenueAliases...)
		grossProfit := income.Extract(col, GrossProfitAliases...)
		opIncome := income.Extract(col, OperatingIncomeAliases...)
		netIncome := income.Extract(col, NetIncomeAliases...)
		if revenue == nil && netIncome == nil {
			continue
		}

		row := types.ContextRow{
			PeriodEnd:          period,
			RevenueB:           num.ToBillions(revenue),
			GrossMarginPct:     num.Pct(grossProfit, revenue),
			OperatingMarginPct: num.Pct(opIncome, revenue),
			NetMarginPct:       num.Pct(netIncome, revenue),
			NetIncomeB:         num.ToBillions(netIncome),
			EPSDiluted:         roundPtr(income.Extract(col, DilutedEPSAliases...)),
			EPSBasic:           roundPtr(income.Extract(col, BasicEPSAliases...)),
		}
		if row.EPSDiluted == nil {
			row.EPSDiluted = income.EPSAt(col, src)
		}

		if d, ok := income.ColumnDate(col); ok {
			row.FiscalYear = d.Year()
			if periodType == PeriodQuarterly {
				row.FiscalQuarter = [4]string{"Q1", "Q2", "Q3", "Q4"}[(int(d.Month())-1)/3]
			}
		}

		if !cash.Empty() {
			ccol := cash.ColumnIndex(period)
			if ccol >= 0 {
				ocf := cash.Extract(ccol, OperatingCashFlowAliases...)
				capex := cash.Extract(ccol, CapexAliases...)
				row.OperatingCashFlowB = num.ToBillions(ocf)
				row.CapexB = num.ToBillions(capex)
				// Capex is reported as a negative outflow, so FCF is a sum.
				if ocf != nil && capex != nil {
					row.FreeCashFlowB = num.ToBillions(num.Ptr(*ocf + *capex))
				}
			}
		}
		if !balance.Empty() {
			bcol := balance.ColumnIndex(period)
			if bcol >= 0 {
				row.TotalAssetsB = num.ToBillions(balance.Extract(bcol, TotalAssetsAliases...))
				row.TotalLiabilitiesB = num.ToBillions(balance.Extract(bcol, TotalLiabilitiesAliases...))
				row.EquityB = num.ToBillions(balance.Extract(bcol, EquityAliases...))
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func roundPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return num.Ptr(num.Round(*v, 2))
}
