package guidance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komsit37/sk/pkg/sk/num"
)

func TestClassifyThresholds(t *testing.T) {
	cases := []struct {
		surprise float64
		want     string
	}{
		{7.87, ResultBeat},
		{-3.0, ResultMiss},
		{0.2, ResultInline},
		{0.5, ResultInline},
		{-0.5, ResultInline},
		{0.51, ResultBeat},
	}
	for _, tc := range cases {
		bm := BuildBeatMiss([]EarningsRow{{Quarter: "2025-09-30", SurprisePct: num.Ptr(tc.surprise)}})
		assert.Equal(t, tc.want, bm.LatestResult, "surprise %.2f", tc.surprise)
	}
}

func TestSurpriseDerivedFromActualVsEstimate(t *testing.T) {
	bm := BuildBeatMiss([]EarningsRow{{
		Quarter:     "2025-09-30",
		EPSActual:   num.Ptr(1.10),
		EPSEstimate: num.Ptr(1.00),
	}})
	require.NotNil(t, bm.LatestSurprisePct)
	assert.InDelta(t, 10.0, *bm.LatestSurprisePct, 0.01)
	assert.Equal(t, ResultBeat, bm.LatestResult)

	// Negative estimates use the magnitude as the base.
	bm = BuildBeatMiss([]EarningsRow{{
		Quarter:     "2025-09-30",
		EPSActual:   num.Ptr(-0.90),
		EPSEstimate: num.Ptr(-1.00),
	}})
	require.NotNil(t, bm.LatestSurprisePct)
	assert.InDelta(t, 10.0, *bm.LatestSurprisePct, 0.01)
}

func TestBeatStreakAndCounts(t *testing.T) {
	rows := []EarningsRow{
		{Quarter: "2025-09-30", SurprisePct: num.Ptr(7.87)},
		{Quarter: "2025-06-30", SurprisePct: num.Ptr(2.1)},
		{Quarter: "2025-03-31", SurprisePct: num.Ptr(-3.0)},
		{Quarter: "2024-12-31", SurprisePct: num.Ptr(4.0)},
	}
	bm := BuildBeatMiss(rows)
	assert.Equal(t, 3, bm.BeatCount)
	assert.Equal(t, 1, bm.MissCount)
	assert.Equal(t, 0, bm.InlineCount)
	assert.Equal(t, 2, bm.BeatStreak)
	require.NotNil(t, bm.AvgSurprisePct)
	assert.InDelta(t, 2.74, *bm.AvgSurprisePct, 0.01)
	require.Len(t, bm.History, 4)
}

func TestHistoryCappedAtFourQuarters(t *testing.T) {
	rows := make([]EarningsRow, 6)
	for i := range rows {
		rows[i] = EarningsRow{SurprisePct: num.Ptr(1.0)}
	}
	bm := BuildBeatMiss(rows)
	assert.Len(t, bm.History, 4)
	assert.Equal(t, 4, bm.BeatCount)
}

func TestConsistentBeatsConclusion(t *testing.T) {
	rows := []EarningsRow{
		{Quarter: "2025-09-30", SurprisePct: num.Ptr(7.87)},
		{Quarter: "2025-06-30", SurprisePct: num.Ptr(3.2)},
		{Quarter: "2025-03-31", SurprisePct: num.Ptr(5.5)},
		{Quarter: "2024-12-31", SurprisePct: num.Ptr(1.9)},
	}
	g := Build(rows, nil)
	assert.Equal(t, 4, g.BeatMiss.BeatStreak)
	assert.Equal(t, "consistently beats expectations (4/4 beats)", g.Conclusion.BeatMiss)
	// Latest beat + streak of 3+ scores +2 even without a trend signal.
	assert.Equal(t, "positive - beating expectations with upward revisions", g.Conclusion.Overall)
}

func TestEPSTrendSignal(t *testing.T) {
	tr := BuildEPSTrend(&TrendRow{
		Period:  "+1y",
		Current: num.Ptr(10.8),
		D30:     num.Ptr(10.5),
		D90:     num.Ptr(10.0),
	})
	assert.Equal(t, SignalUp, tr.Signal)
	require.NotNil(t, tr.ChangeVs90DPct)
	assert.InDelta(t, 8.0, *tr.ChangeVs90DPct, 0.01)

	tr = BuildEPSTrend(&TrendRow{Current: num.Ptr(9.5), D90: num.Ptr(10.0)})
	assert.Equal(t, SignalDown, tr.Signal)

	tr = BuildEPSTrend(&TrendRow{Current: num.Ptr(10.1), D90: num.Ptr(10.0)})
	assert.Equal(t, SignalFlat, tr.Signal)
}

func TestEPSTrendPrefers90Day(t *testing.T) {
	// 30-day change says down, 90-day says up: 90 wins.
	tr := BuildEPSTrend(&TrendRow{
		Current: num.Ptr(10.4),
		D30:     num.Ptr(11.0),
		D90:     num.Ptr(10.0),
	})
	assert.Equal(t, SignalUp, tr.Signal)
}

func TestEPSTrendFallsBackTo30Day(t *testing.T) {
	tr := BuildEPSTrend(&TrendRow{Current: num.Ptr(10.4), D30: num.Ptr(10.0)})
	assert.Equal(t, SignalUp, tr.Signal)
	assert.Nil(t, tr.ChangeVs90DPct)
}

func TestInsufficientDefaults(t *testing.T) {
	g := Build(nil, nil)
	assert.Equal(t, ResultInsufficient, g.BeatMiss.LatestResult)
	assert.Equal(t, SignalInsufficient, g.EPSTrend.Signal)
	assert.Equal(t, "insufficient earnings history", g.Conclusion.BeatMiss)
	assert.Equal(t, "insufficient estimate history", g.Conclusion.EPSTrend)
	assert.Equal(t, "insufficient data for a directional signal", g.Conclusion.Overall)
}

func TestCautiousConclusion(t *testing.T) {
	rows := []EarningsRow{
		{Quarter: "2025-09-30", SurprisePct: num.Ptr(-5.0)},
		{Quarter: "2025-06-30", SurprisePct: num.Ptr(-2.0)},
		{Quarter: "2025-03-31", SurprisePct: num.Ptr(1.0)},
		{Quarter: "2024-12-31", SurprisePct: num.Ptr(0.1)},
	}
	g := Build(rows, &TrendRow{Current: num.Ptr(9.0), D90: num.Ptr(10.0)})
	assert.Equal(t, "cautious - missing expectations or downward revisions", g.Conclusion.Overall)
}

func TestInlineAndFlatYieldsInsufficientOverall(t *testing.T) {
	// All-inline history plus a flat trend carries no direction at all,
	// which is distinct from mixed-but-present signals.
	rows := []EarningsRow{
		{Quarter: "2025-09-30", SurprisePct: num.Ptr(0.3)},
		{Quarter: "2025-06-30", SurprisePct: num.Ptr(-0.3)},
		{Quarter: "2025-03-31", SurprisePct: num.Ptr(0.2)},
		{Quarter: "2024-12-31", SurprisePct: num.Ptr(-0.1)},
	}
	g := Build(rows, &TrendRow{Current: num.Ptr(10.0), D90: num.Ptr(10.1)})
	assert.Equal(t, ResultInline, g.BeatMiss.LatestResult)
	assert.Equal(t, SignalFlat, g.EPSTrend.Signal)
	assert.Equal(t, "insufficient data for a directional signal", g.Conclusion.Overall)
}

func TestMixedConclusion(t *testing.T) {
	rows := []EarningsRow{
		{Quarter: "2025-09-30", SurprisePct: num.Ptr(2.0)},
		{Quarter: "2025-06-30", SurprisePct: num.Ptr(-2.0)},
	}
	g := Build(rows, nil)
	assert.Equal(t, "mixed - no clear directional signal", g.Conclusion.Overall)
}
