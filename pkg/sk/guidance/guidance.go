package guidance

import (
	"fmt"
	"math"

	"github.com/komsit37/sk/pkg/sk/num"
	"github.com/komsit37/sk/pkg/sk/types"
)

// Classification results and trend signals.
const (
	ResultBeat         = "beat"
	ResultMiss         = "miss"
	ResultInline       = "inline"
	ResultInsufficient = "insufficient"

	SignalUp           = "up"
	SignalDown         = "down"
	SignalFlat         = "flat"
	SignalInsufficient = "insufficient"
)

const (
	// A surprise within ±0.5% counts as inline.
	surpriseThresholdPct = 0.5
	// Estimate revisions of ±3% are a moderate signal, ±8% a strong one.
	trendModeratePct = 3.0
	trendStrongPct   = 8.0

	historyWindow = 4
)

// EarningsRow is one historical quarter, newest first in a slice.
type EarningsRow struct {
	Quarter     string
	EPSActual   *float64
	EPSEstimate *float64
	SurprisePct *float64
}

// TrendRow is one consensus-estimate revision series for a future period.
type TrendRow struct {
	Period  string
	Current *float64
	D7      *float64
	D30     *float64
	D60     *float64
	D90     *float64
}

// Build assembles the full guidance snapshot. Both inputs are optional;
// missing data yields explicit "insufficient" classifications.
func Build(rows []EarningsRow, trend *TrendRow) *types.ExpectationGuidance {
	g := &types.ExpectationGuidance{
		BeatMiss: BuildBeatMiss(rows),
		EPSTrend: BuildEPSTrend(trend),
	}
	g.Conclusion = conclude(g.BeatMiss, g.EPSTrend)
	return g
}

// BuildBeatMiss classifies up to the last four quarters of earnings
// surprises. Rows are expected newest first.
func BuildBeatMiss(rows []EarningsRow) types.BeatMiss {
	bm := types.BeatMiss{LatestResult: ResultInsufficient}
	if len(rows) > historyWindow {
		rows = rows[:historyWindow]
	}

	var surpriseSum float64
	var surpriseN int
	streakAlive := true
	for i, r := range rows {
		surprise := r.SurprisePct
		if surprise == nil && r.EPSActual != nil && r.EPSEstimate != nil && *r.EPSEstimate != 0 {
			surprise = num.Ptr(num.Round((*r.EPSActual-*r.EPSEstimate)/math.Abs(*r.EPSEstimate)*100, 2))
		}
		result := classify(surprise)

		bm.History = append(bm.History, types.EarningsResult{
			Quarter:     r.Quarter,
			EPSActual:   r.EPSActual,
			EPSEstimate: r.EPSEstimate,
			SurprisePct: surprise,
			Result:      result,
		})

		switch result {
		case ResultBeat:
			bm.BeatCount++
		case ResultMiss:
			bm.MissCount++
		case ResultInline:
			bm.InlineCount++
		}
		if result == ResultBeat && streakAlive {
			bm.BeatStreak++
		} else {
			streakAlive = false
		}
		if surprise != nil {
			surpriseSum += *surprise
			surpriseN++
		}

		if i == 0 {
			bm.LatestQuarter = r.Quarter
			bm.LatestEPSActual = r.EPSActual
			bm.LatestEPSEstimate = r.EPSEstimate
			bm.LatestSurprisePct = surprise
			bm.LatestResult = result
		}
	}
	if surpriseN > 0 {
		bm.AvgSurprisePct = num.Ptr(num.Round(surpriseSum/float64(surpriseN), 2))
	}
	return bm
}

func classify(surprisePct *float64) string {
	if surprisePct == nil {
		return ResultInsufficient
	}
	switch {
	case *surprisePct > surpriseThresholdPct:
		return ResultBeat
	case *surprisePct < -surpriseThresholdPct:
		return ResultMiss
	default:
		return ResultInline
	}
}

// BuildEPSTrend derives the revision-direction signal from one trend
// row. The 90-day comparison is preferred; it falls back to 30 days.
func BuildEPSTrend(r *TrendRow) types.EPSTrend {
	t := types.EPSTrend{Signal: SignalInsufficient}
	if r == nil || r.Current == nil {
		return t
	}
	t.Period = r.Period
	t.Current = r.Current
	t.D7, t.D30, t.D60, t.D90 = r.D7, r.D30, r.D60, r.D90
	t.ChangeVs30DPct = num.PctChange(r.Current, r.D30)
	t.ChangeVs90DPct = num.PctChange(r.Current, r.D90)

	chg := t.ChangeVs90DPct
	if chg == nil {
		chg = t.ChangeVs30DPct
	}
	if chg == nil {
		return t
	}
	switch {
	case *chg >= trendModeratePct:
		t.Signal = SignalUp
	case *chg <= -trendModeratePct:
		t.Signal = SignalDown
	default:
		t.Signal = SignalFlat
	}
	return t
}

// conclude turns both sections into fixed qualitative readings and a
// bounded overall direction.
func conclude(bm types.BeatMiss, trend types.EPSTrend) types.Conclusion {
	c := types.Conclusion{
		BeatMiss: beatMissText(bm),
		EPSTrend: trendText(trend),
	}

	// Inline results, short streaks and flat trends contribute no
	// directional signal at all, not a zero score.
	score := 0
	hasSignal := false
	switch bm.LatestResult {
	case ResultBeat:
		score++
		hasSignal = true
	case ResultMiss:
		score--
		hasSignal = true
	}
	if bm.BeatStreak >= 3 {
		score++
		hasSignal = true
	}
	if bm.MissCount >= 2 {
		score--
		hasSignal = true
	}
	switch trend.Signal {
	case SignalUp:
		score++
		hasSignal = true
	case SignalDown:
		score--
		hasSignal = true
	}

	switch {
	case !hasSignal:
		c.Overall = "insufficient data for a directional signal"
	case score >= 2:
		c.Overall = "positive - beating expectations with upward revisions"
	case score <= -2:
		c.Overall = "cautious - missing expectations or downward revisions"
	default:
		c.Overall = "mixed - no clear directional signal"
	}
	return c
}

func beatMissText(bm types.BeatMiss) string {
	n := bm.BeatCount + bm.MissCount + bm.InlineCount
	switch {
	case n == 0:
		return "insufficient earnings history"
	case bm.BeatCount >= 3:
		return fmt.Sprintf("consistently beats expectations (%d/%d beats)", bm.BeatCount, n)
	case bm.MissCount >= 2:
		return fmt.Sprintf("frequently misses expectations (%d/%d misses)", bm.MissCount, n)
	default:
		return "mixed earnings results vs expectations"
	}
}

func trendText(t types.EPSTrend) string {
	chg := t.ChangeVs90DPct
	if chg == nil {
		chg = t.ChangeVs30DPct
	}
	switch t.Signal {
	case SignalUp:
		if chg != nil && *chg >= trendStrongPct {
			return "estimates being revised sharply upward"
		}
		return "estimates being revised upward"
	case SignalDown:
		if chg != nil && *chg <= -trendStrongPct {
			return "estimates being revised sharply downward"
		}
		return "estimates being revised downward"
	case SignalFlat:
		return "estimates stable"
	default:
		return "insufficient estimate history"
	}
}
