package source

import (
	"context"
	"fmt"
	"time"

	yfgo "github.com/komsit37/yf-go"

	"github.com/komsit37/sk/pkg/sk/num"
	"github.com/komsit37/sk/pkg/sk/types"
)

// Ticker is the statistics-library adapter. One instance per
// orchestrator, injected so tests can skip it; the client itself is
// stateless across symbols.
type Ticker struct {
	client  *yfgo.Client
	timeout time.Duration
}

func NewTicker(timeout time.Duration) *Ticker {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Ticker{client: yfgo.NewClient(), timeout: timeout}
}

// Realtime fetches price, change percent and name via the library.
func (t *Ticker) Realtime(ctx context.Context, symbol string) (*types.RealtimeSnapshot, error) {
	cctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	res, err := t.client.QuoteSummaryTyped(cctx, symbol, []yfgo.QuoteSummaryModule{yfgo.ModulePrice})
	if err != nil {
		return nil, err
	}
	if res.Price == nil {
		return nil, fmt.Errorf("no price for %s", symbol)
	}
	snap := &types.RealtimeSnapshot{}
	if res.Price.ShortName != "" {
		snap.StockName = res.Price.ShortName
	} else if res.Price.LongName != "" {
		snap.StockName = res.Price.LongName
	}
	if p := res.Price.RegularMarketPrice.Raw; p != nil {
		snap.Price = num.Ptr(num.Round(*p, 2))
	}
	if cp := res.Price.RegularMarketChangePercent.Raw; cp != nil {
		// The library reports the change as a decimal ratio.
		snap.ChangePct = num.ToPct(cp)
	}
	return snap, nil
}

// RealtimeFromFinnhub builds a snapshot from the primary API's quote,
// profile and metrics. Any of the inputs may be nil.
func RealtimeFromFinnhub(q *FinnhubQuote, p *FinnhubProfile, m *FinnhubMetrics) *types.RealtimeSnapshot {
	snap := &types.RealtimeSnapshot{}
	if q != nil {
		if q.Current != nil {
			snap.Price = num.Ptr(num.Round(*q.Current, 2))
		}
		if q.ChangePercent != nil {
			snap.ChangePct = num.Ptr(num.Round(*q.ChangePercent, 2))
		} else if q.Current != nil && q.PrevClose != nil && *q.PrevClose != 0 {
			snap.ChangePct = num.PctChange(q.Current, q.PrevClose)
		}
		if q.Timestamp > 0 {
			snap.TradeDate = time.Unix(q.Timestamp, 0).UTC().Format("2006-01-02")
		}
	}
	if p != nil {
		snap.StockName = p.Name
		snap.Currency = p.Currency
		if p.MarketCapM != nil {
			// Profile market cap is in millions.
			snap.MarketCapB = num.Ptr(num.Round(*p.MarketCapM/1e3, 2))
		}
	}
	if m != nil {
		if pe := m.Get("peTTM"); pe != nil {
			snap.PETTM = num.Ptr(num.Round(*pe, 2))
		} else if eps := m.Get("epsTTM"); eps != nil && *eps != 0 && snap.Price != nil {
			snap.PETTM = num.Ptr(num.Round(*snap.Price / *eps, 2))
		}
	}
	return snap
}

// RealtimeFromQuoteSummary builds a snapshot from the statistics API's
// price module.
func RealtimeFromQuoteSummary(qs *QuoteSummary) *types.RealtimeSnapshot {
	if qs == nil || qs.Price == nil {
		return nil
	}
	snap := &types.RealtimeSnapshot{Currency: qs.Price.Currency}
	if qs.Price.ShortName != "" {
		snap.StockName = qs.Price.ShortName
	} else {
		snap.StockName = qs.Price.LongName
	}
	if p := qs.Price.RegularMarketPrice.Raw; p != nil {
		snap.Price = num.Ptr(num.Round(*p, 2))
	}
	snap.ChangePct = num.ToPct(qs.Price.RegularMarketChangePercent.Raw)
	snap.MarketCapB = num.ToBillions(qs.Price.MarketCap.Raw)
	if qs.Price.RegularMarketTime != nil {
		snap.TradeDate = time.Unix(*qs.Price.RegularMarketTime, 0).UTC().Format("2006-01-02")
	}
	if qs.SummaryDetail != nil && qs.SummaryDetail.TrailingPE.Raw != nil {
		snap.PETTM = num.Ptr(num.Round(*qs.SummaryDetail.TrailingPE.Raw, 2))
	}
	return snap
}

// History lengths required before a percent change may be computed.
// A change over N trading days needs N+1 closes.
const (
	minCloses5D   = 6
	minCloses20D  = 21
	minCloses250D = 251
)

// RealtimeFromChart derives the history-based fields from daily closes.
// Percent changes are only computed when enough history exists; stale
// partial windows yield nil rather than a wrong number.
func RealtimeFromChart(ch *Chart) *types.RealtimeSnapshot {
	if ch == nil {
		return nil
	}
	closes := compact(ch.Closes, ch.Volumes)
	snap := &types.RealtimeSnapshot{Currency: ch.Currency}
	n := len(closes)
	if n == 0 {
		return snap
	}
	last := closes[n-1]
	snap.Price = num.Ptr(num.Round(last.close, 2))
	if len(ch.Timestamps) > 0 {
		snap.TradeDate = time.Unix(ch.Timestamps[len(ch.Timestamps)-1], 0).UTC().Format("2006-01-02")
	}
	if n >= 2 {
		snap.ChangePct = num.PctChange(&last.close, &closes[n-2].close)
	}
	if n >= minCloses5D {
		snap.Change5DPct = num.PctChange(&last.close, &closes[n-minCloses5D].close)
	}
	if n >= minCloses20D {
		snap.Change20DPct = num.PctChange(&last.close, &closes[n-minCloses20D].close)
	}
	if n >= minCloses250D {
		snap.Change250DPct = num.PctChange(&last.close, &closes[n-minCloses250D].close)
	}
	if last.volume != nil {
		snap.TurnoverB = num.ToBillions(num.Ptr(last.close * *last.volume))
	}
	return snap
}

type closeVolume struct {
	close  float64
	volume *float64
}

// compact drops nil closes (market holidays), pairing each close with
// its volume when present.
func compact(closes, volumes []*float64) []closeVolume {
	out := make([]closeVolume, 0, len(closes))
	for i, c := range closes {
		if c == nil {
			continue
		}
		cv := closeVolume{close: *c}
		if i < len(volumes) {
			cv.volume = volumes[i]
		}
		out = append(out, cv)
	}
	return out
}
