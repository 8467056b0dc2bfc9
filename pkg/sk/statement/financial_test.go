package statement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komsit37/sk/pkg/sk/num"
)

func quarterlyIncome() *Frame {
	f := NewFrame()
	set := func(period string, revenue, gross, op, ni float64) {
		f.Set("Total Revenue", period, num.Ptr(revenue))
		f.Set("Gross Profit", period, num.Ptr(gross))
		f.Set("Operating Income", period, num.Ptr(op))
		f.Set("Net Income", period, num.Ptr(ni))
	}
	set("2025-09-30", 7.69e9, 3.5e9, 2.0e9, 1.51e9)
	set("2025-06-30", 7.2e9, 3.2e9, 1.8e9, 1.4e9)
	set("2025-03-31", 6.9e9, 3.0e9, 1.7e9, 1.3e9)
	set("2024-12-31", 7.0e9, 3.1e9, 1.75e9, 1.35e9)
	set("2024-09-30", 6.5e9, 2.9e9, 1.6e9, 1.2e9)
	f.Set("Diluted EPS", "2025-09-30", num.Ptr(0.93))
	f.Sort()
	return f
}

func TestBuildFinancialQuarterly(t *testing.T) {
	balance := NewFrame()
	balance.Set("Stockholders Equity", "2025-09-30", num.Ptr(20.0e9))
	balance.Sort()

	snap := BuildFinancial(Inputs{
		Income:     quarterlyIncome(),
		Balance:    balance,
		PeriodType: PeriodQuarterly,
	})
	require.NotNil(t, snap)

	assert.Equal(t, "2025-09-30", snap.LatestPeriod)
	assert.Equal(t, PeriodQuarterly, snap.LatestPeriodType)
	// No earnings event supplied: report date falls back to period end.
	assert.Equal(t, "2025-09-30", snap.LatestReportDate)

	require.NotNil(t, snap.RevenueB)
	assert.Equal(t, 7.69, *snap.RevenueB)
	require.NotNil(t, snap.NetIncomeB)
	assert.Equal(t, 1.51, *snap.NetIncomeB)
	require.NotNil(t, snap.EPS)
	assert.Equal(t, 0.93, *snap.EPS)

	require.NotNil(t, snap.RevenueYoYPct)
	assert.InDelta(t, 18.31, *snap.RevenueYoYPct, 0.01)
	require.NotNil(t, snap.NetIncomeYoYPct)
	assert.InDelta(t, 25.83, *snap.NetIncomeYoYPct, 0.01)

	require.NotNil(t, snap.GrossMarginPct)
	assert.InDelta(t, 45.51, *snap.GrossMarginPct, 0.01)
	require.NotNil(t, snap.NetMarginPct)
	assert.InDelta(t, 19.64, *snap.NetMarginPct, 0.01)
	require.NotNil(t, snap.ROEPct)
	assert.InDelta(t, 7.55, *snap.ROEPct, 0.01)
}

func TestBuildFinancialReportDateFromEarnings(t *testing.T) {
	snap := BuildFinancial(Inputs{
		Income:     quarterlyIncome(),
		PeriodType: PeriodQuarterly,
		Sources: EPSSources{EarningsDates: []EarningsDate{
			{Date: time.Date(2025, 11, 19, 0, 0, 0, 0, time.UTC)},
		}},
	})
	require.NotNil(t, snap)
	assert.Equal(t, "2025-11-19", snap.LatestReportDate)
}

func TestBuildFinancialROEProfileFallback(t *testing.T) {
	snap := BuildFinancial(Inputs{
		Income:     quarterlyIncome(),
		PeriodType: PeriodQuarterly,
		ProfileROE: num.Ptr(0.123),
	})
	require.NotNil(t, snap)
	require.NotNil(t, snap.ROEPct)
	assert.Equal(t, 12.3, *snap.ROEPct)
}

func TestBuildFinancialNilOnEmpty(t *testing.T) {
	assert.Nil(t, BuildFinancial(Inputs{Income: NewFrame(), PeriodType: PeriodQuarterly}))
	assert.Nil(t, BuildFinancial(Inputs{PeriodType: PeriodQuarterly}))
}

func TestBuildContext(t *testing.T) {
	income := quarterlyIncome()

	cash := NewFrame()
	cash.Set("Operating Cash Flow", "2025-09-30", num.Ptr(2.0e9))
	cash.Set("Capital Expenditure", "2025-09-30", num.Ptr(-0.5e9))
	cash.Sort()

	balance := NewFrame()
	balance.Set("Total Assets", "2025-09-30", num.Ptr(50.0e9))
	balance.Set("Total Liabilities Net Minority Interest", "2025-09-30", num.Ptr(30.0e9))
	balance.Set("Stockholders Equity", "2025-09-30", num.Ptr(20.0e9))
	balance.Sort()

	annual := NewFrame()
	annual.Set("Total Revenue", "2024-12-31", num.Ptr(27.0e9))
	annual.Set("Net Income", "2024-12-31", num.Ptr(5.0e9))
	annual.Set("Total Revenue", "2023-12-31", num.Ptr(24.0e9))
	annual.Set("Net Income", "2023-12-31", num.Ptr(4.2e9))
	annual.Sort()

	ctx := BuildContext(&Statements{
		IncomeAnnual:     annual,
		IncomeQuarterly:  income,
		BalanceQuarterly: balance,
		CashQuarterly:    cash,
	}, EPSSources{})
	require.NotNil(t, ctx)

	require.Len(t, ctx.Annual, 2)
	assert.Equal(t, "2024-12-31", ctx.Annual[0].PeriodEnd)
	assert.Equal(t, 2024, ctx.Annual[0].FiscalYear)
	assert.Empty(t, ctx.Annual[0].FiscalQuarter)
	require.NotNil(t, ctx.Annual[0].RevenueB)
	assert.Equal(t, 27.0, *ctx.Annual[0].RevenueB)

	require.Len(t, ctx.Quarterly, 4)
	q := ctx.Quarterly[0]
	assert.Equal(t, "2025-09-30", q.PeriodEnd)
	assert.Equal(t, "Q3", q.FiscalQuarter)
	require.NotNil(t, q.OperatingCashFlowB)
	assert.Equal(t, 2.0, *q.OperatingCashFlowB)
	require.NotNil(t, q.FreeCashFlowB)
	assert.Equal(t, 1.5, *q.FreeCashFlowB)
	require.NotNil(t, q.TotalAssetsB)
	assert.Equal(t, 50.0, *q.TotalAssetsB)
	require.NotNil(t, q.EquityB)
	assert.Equal(t, 20.0, *q.EquityB)
	// Balance data only exists for the latest quarter.
	assert.Nil(t, ctx.Quarterly[1].TotalAssetsB)
}

func TestBuildContextNilWhenEmpty(t *testing.T) {
	assert.Nil(t, BuildContext(nil, EPSSources{}))
	assert.Nil(t, BuildContext(&Statements{}, EPSSources{}))
}
