package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/phuslu/log"
	"github.com/sourcegraph/conc/pool"

	"github.com/komsit37/sk/pkg/sk/cache"
	"github.com/komsit37/sk/pkg/sk/currency"
	"github.com/komsit37/sk/pkg/sk/guidance"
	"github.com/komsit37/sk/pkg/sk/issues"
	"github.com/komsit37/sk/pkg/sk/source"
	"github.com/komsit37/sk/pkg/sk/statement"
	"github.com/komsit37/sk/pkg/sk/types"
)

const maxWorkers = 8

// DefaultTTL is the cache-read bound callers should use when nothing
// overrides it. Passing it is explicit: an Options.TTL of zero disables
// reads rather than picking up this default.
const DefaultTTL = 12 * time.Hour

// Options configures one orchestrator.
type Options struct {
	// FinnhubKey enables the primary quote/metrics API. Empty means
	// full fallback to the scrape/library path.
	FinnhubKey string
	// Refresh bypasses cache reads (writes still happen).
	Refresh bool
	// TTL bounds cache reads; zero or negative disables them.
	TTL time.Duration
	// Timeout applies per network call.
	Timeout time.Duration
}

// Orchestrator runs the full per-symbol pipeline, in parallel across
// symbols.
type Orchestrator struct {
	yahoo   *source.Yahoo
	scraper *source.Scraper
	finnhub *source.Finnhub
	ticker  *source.Ticker
	rss     *source.RSS
	store   *cache.Store
	opts    Options

	// fetchOne is swappable so failure isolation can be tested.
	fetchOne func(ctx context.Context, symbol string) *types.Bundle
}

// New builds an orchestrator. store may be nil to run uncached.
func New(store *cache.Store, opts Options) *Orchestrator {
	c := source.NewClientWithTimeout(opts.Timeout)
	o := &Orchestrator{
		yahoo:   source.NewYahoo(c),
		scraper: source.NewScraper(c),
		finnhub: source.NewFinnhub(c, opts.FinnhubKey),
		ticker:  source.NewTicker(opts.Timeout),
		rss:     source.NewRSS(c),
		store:   store,
		opts:    opts,
	}
	o.fetchOne = o.fetch
	return o
}

// Fetch runs the pipeline for one symbol. It never returns nil: a total
// failure yields an error bundle.
func (o *Orchestrator) Fetch(ctx context.Context, symbol string) *types.Bundle {
	syms, err := NormalizeSymbols([]string{symbol})
	if err != nil {
		return types.ErrorBundle(symbol, err)
	}
	return o.guarded(ctx, syms[0])
}

// FetchMany runs the pipeline for each symbol on a bounded worker pool.
// Results keep the caller's symbol order; one symbol's failure never
// affects its siblings.
func (o *Orchestrator) FetchMany(ctx context.Context, symbols []string) ([]*types.Bundle, error) {
	syms, err := NormalizeSymbols(symbols)
	if err != nil {
		return nil, err
	}
	workers := len(syms)
	if workers > maxWorkers {
		workers = maxWorkers
	}
	out := make([]*types.Bundle, len(syms))
	p := pool.New().WithMaxGoroutines(workers)
	for i, sym := range syms {
		p.Go(func() {
			out[i] = o.guarded(ctx, sym)
		})
	}
	p.Wait()
	return out, nil
}

// guarded converts a panicking pipeline into an error bundle so sibling
// units keep running.
func (o *Orchestrator) guarded(ctx context.Context, symbol string) (b *types.Bundle) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("symbol", symbol).Msgf("pipeline panic: %v", r)
			b = types.ErrorBundle(symbol, fmt.Errorf("pipeline panic: %v", r))
		}
	}()
	b = o.fetchOne(ctx, symbol)
	if b == nil {
		b = types.ErrorBundle(symbol, fmt.Errorf("no data"))
	}
	return b
}

// fetch is the per-symbol pipeline: fallback-resolved realtime, cached
// financials, merged forecast, guidance scoring and news, with every
// soft failure recorded as a warning.
func (o *Orchestrator) fetch(ctx context.Context, symbol string) *types.Bundle {
	col := issues.NewCollector()
	b := &types.Bundle{Symbol: symbol}

	qs := o.quoteSummary(ctx, symbol, col)

	b.Realtime = o.realtime(ctx, symbol, qs, col)
	b.Financial, b.Context = o.financial(ctx, symbol, qs, col)
	b.Forecast = o.forecast(ctx, symbol, qs, col)
	b.Guidance = guidance.Build(source.EarningsRows(qs), trendRow(qs))
	b.News = o.news(ctx, symbol, col)

	o.resolveCurrency(b, qs)
	b.Warnings = col.Finish()
	return b
}

func (o *Orchestrator) quoteSummary(ctx context.Context, symbol string, col *issues.Collector) *source.QuoteSummary {
	qs, err := o.yahoo.QuoteSummary(ctx, symbol,
		source.ModulePrice,
		source.ModuleSummaryDetail,
		source.ModuleDefaultKeyStatistics,
		source.ModuleFinancialData,
		source.ModuleEarningsTrend,
		source.ModuleEarningsHistory,
		source.ModuleCalendarEvents,
	)
	if err != nil {
		col.Record("yahoo.quote_summary", err)
		return nil
	}
	return qs
}

// realtime resolves the realtime domain: primary API first when a
// credential exists, then the chart history, then the library ticker,
// each merging only into gaps.
func (o *Orchestrator) realtime(ctx context.Context, symbol string, qs *source.QuoteSummary, col *issues.Collector) *types.RealtimeSnapshot {
	var snap *types.RealtimeSnapshot
	if o.finnhub.Enabled() {
		q, err := o.finnhub.Quote(ctx, symbol)
		if err != nil {
			col.Record("finnhub.quote", err)
		}
		p, err := o.finnhub.Profile(ctx, symbol)
		if err != nil {
			col.Record("finnhub.profile", err)
		}
		m, err := o.finnhub.Metrics(ctx, symbol)
		if err != nil {
			col.Record("finnhub.metrics", err)
		}
		if q != nil || p != nil {
			snap = source.RealtimeFromFinnhub(q, p, m)
		}
	}

	snap = MergeRealtime(snap, source.RealtimeFromQuoteSummary(qs))

	ch, err := o.yahoo.Chart(ctx, symbol, "1y")
	if err != nil {
		col.Record("yahoo.chart", err)
	} else {
		snap = MergeRealtime(snap, source.RealtimeFromChart(ch))
	}

	if snap == nil || snap.Price == nil {
		lib, err := o.ticker.Realtime(ctx, symbol)
		if err != nil {
			col.Record("ticker.realtime", err)
		} else {
			snap = MergeRealtime(snap, lib)
		}
	}
	return snap
}

// financial resolves the financial domain through the cache, deriving
// snapshot and context from statement frames on a miss.
func (o *Orchestrator) financial(ctx context.Context, symbol string, qs *source.QuoteSummary, col *issues.Collector) (*types.FinancialSnapshot, *types.FinancialContext) {
	if !o.opts.Refresh {
		if fin, fctx, ok := o.store.Read(symbol, o.opts.TTL); ok {
			log.Debug().Str("symbol", symbol).Msg("financial cache hit")
			return fin, fctx
		}
	}

	st, err := o.yahoo.Statements(ctx, symbol)
	if err != nil {
		col.Record("yahoo.statements", err)
		return nil, nil
	}

	src := statement.EPSSources{EarningsDates: source.EarningsDates(qs)}
	var profileROE *float64
	if qs != nil {
		if qs.DefaultKeyStatistics != nil {
			src.SharesOutstanding = qs.DefaultKeyStatistics.SharesOutstanding.Raw
		}
		if qs.FinancialData != nil {
			profileROE = qs.FinancialData.ReturnOnEquity.Raw
		}
	}
	if o.finnhub.Enabled() {
		if filed, err := o.finnhub.FiledReports(ctx, symbol); err != nil {
			col.Record("finnhub.financials_reported", err)
		} else {
			src.EarningsDates = append(src.EarningsDates, filed...)
		}
	}

	income, balance, periodType := st.IncomeQuarterly, st.BalanceQuarterly, statement.PeriodQuarterly
	if income.Empty() {
		income, balance, periodType = st.IncomeAnnual, st.BalanceAnnual, statement.PeriodAnnual
	}
	fin := statement.BuildFinancial(statement.Inputs{
		Income:     income,
		Balance:    balance,
		PeriodType: periodType,
		Sources:    src,
		ProfileROE: profileROE,
	})
	if fin == nil {
		col.Recordf("yahoo.statements", "no usable statement period")
		return nil, nil
	}
	if qs != nil && qs.FinancialData != nil {
		fin.Currency = qs.FinancialData.FinancialCurrency
	}
	fctx := statement.BuildContext(st, src)

	if err := o.store.Write(symbol, fin, fctx); err != nil {
		col.Record("cache.write", err)
	}
	return fin, fctx
}

// forecast merges the estimates-derived snapshot with the scraped one;
// estimate values take precedence where both exist.
func (o *Orchestrator) forecast(ctx context.Context, symbol string, qs *source.QuoteSummary, col *issues.Collector) *types.ForecastSnapshot {
	snap := source.ForecastFromEstimates(qs)

	vals, err := o.scraper.Valuation(ctx, symbol)
	if err != nil {
		col.Record("scrape.key_statistics", err)
	} else {
		snap = MergeForecast(snap, source.ForecastFromScrape(vals))
	}
	return snap
}

func (o *Orchestrator) news(ctx context.Context, symbol string, col *issues.Collector) []types.NewsItem {
	if o.finnhub.Enabled() {
		to := time.Now()
		items, err := o.finnhub.CompanyNews(ctx, symbol, to.Add(-source.NewsWindow), to, source.NewsLimit)
		if err != nil {
			col.Record("finnhub.news", err)
		} else if len(items) > 0 {
			return items
		}
	}
	items, err := o.rss.Headlines(ctx, symbol, source.NewsLimit)
	if err != nil {
		col.Record("rss.news", err)
		return nil
	}
	return items
}

// resolveCurrency reconciles the per-domain currency map and writes the
// resolved codes back into the snapshots.
func (o *Orchestrator) resolveCurrency(b *types.Bundle, qs *source.QuoteSummary) {
	var quote, profile, financial, forecast string
	if b.Realtime != nil {
		quote = b.Realtime.Currency
	}
	if qs != nil && qs.Price != nil {
		profile = qs.Price.Currency
	}
	if b.Financial != nil {
		financial = b.Financial.Currency
	}
	if b.Forecast != nil {
		forecast = b.Forecast.Currency
	}
	b.Currency = currency.Resolve(b.Symbol, quote, profile, financial, forecast)
	if b.Realtime != nil {
		b.Realtime.Currency = b.Currency.Quote
	}
	if b.Financial != nil {
		b.Financial.Currency = b.Currency.Financial
	}
	if b.Forecast != nil {
		b.Forecast.Currency = b.Currency.Forecast
	}
}

func trendRow(qs *source.QuoteSummary) *guidance.TrendRow {
	tr := source.TrendRowFor(qs)
	if tr == nil {
		return nil
	}
	return &guidance.TrendRow{
		Period:  tr.Period,
		Current: tr.EpsTrend.Current.Raw,
		D7:      tr.EpsTrend.D7.Raw,
		D30:     tr.EpsTrend.D30.Raw,
		D60:     tr.EpsTrend.D60.Raw,
		D90:     tr.EpsTrend.D90.Raw,
	}
}
