package source

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/komsit37/sk/pkg/sk/statement"
	"github.com/komsit37/sk/pkg/sk/types"
)

const finnhubBaseURL = "https://finnhub.io/api/v1"

// ErrNoAPIKey marks the explicit credential-missing path: the caller
// skips straight to the fallback adapters.
var ErrNoAPIKey = errors.New("finnhub: api key not set")

// Finnhub is the primary quote/metrics API adapter.
type Finnhub struct {
	c       *Client
	key     string
	baseURL string
}

func NewFinnhub(c *Client, key string) *Finnhub {
	return &Finnhub{c: c, key: key, baseURL: finnhubBaseURL}
}

// Enabled reports whether a credential was supplied.
func (f *Finnhub) Enabled() bool { return f != nil && f.key != "" }

func (f *Finnhub) get(ctx context.Context, path string, params url.Values, out any) error {
	if !f.Enabled() {
		return ErrNoAPIKey
	}
	params.Set("token", f.key)
	return f.c.getJSON(ctx, f.baseURL+path+"?"+params.Encode(), out)
}

// FinnhubQuote is the realtime quote payload.
type FinnhubQuote struct {
	Current       *float64 `json:"c"`
	ChangePercent *float64 `json:"dp"`
	PrevClose     *float64 `json:"pc"`
	Timestamp     int64    `json:"t"`
}

func (f *Finnhub) Quote(ctx context.Context, symbol string) (*FinnhubQuote, error) {
	var q FinnhubQuote
	if err := f.get(ctx, "/quote", url.Values{"symbol": {symbol}}, &q); err != nil {
		return nil, fmt.Errorf("quote %s: %w", symbol, err)
	}
	if q.Current == nil || *q.Current == 0 {
		return nil, fmt.Errorf("quote %s: no data", symbol)
	}
	return &q, nil
}

// FinnhubProfile is the company profile payload. Market cap and share
// counts are reported in millions.
type FinnhubProfile struct {
	Name       string   `json:"name"`
	Currency   string   `json:"currency"`
	MarketCapM *float64 `json:"marketCapitalization"`
}

func (f *Finnhub) Profile(ctx context.Context, symbol string) (*FinnhubProfile, error) {
	var p FinnhubProfile
	if err := f.get(ctx, "/stock/profile2", url.Values{"symbol": {symbol}}, &p); err != nil {
		return nil, fmt.Errorf("profile %s: %w", symbol, err)
	}
	if p.Name == "" && p.Currency == "" {
		return nil, fmt.Errorf("profile %s: no data", symbol)
	}
	return &p, nil
}

// FinnhubMetrics is the free-form metric map ("peTTM", "roeTTM", ...).
type FinnhubMetrics struct {
	Metric map[string]*float64 `json:"metric"`
}

func (m *FinnhubMetrics) Get(name string) *float64 {
	if m == nil || m.Metric == nil {
		return nil
	}
	return m.Metric[name]
}

func (f *Finnhub) Metrics(ctx context.Context, symbol string) (*FinnhubMetrics, error) {
	var m FinnhubMetrics
	params := url.Values{"symbol": {symbol}, "metric": {"all"}}
	if err := f.get(ctx, "/stock/metric", params, &m); err != nil {
		return nil, fmt.Errorf("metrics %s: %w", symbol, err)
	}
	return &m, nil
}

// CompanyNews returns headlines between from and to, newest first.
func (f *Finnhub) CompanyNews(ctx context.Context, symbol string, from, to time.Time, limit int) ([]types.NewsItem, error) {
	var rows []struct {
		Datetime int64  `json:"datetime"`
		Headline string `json:"headline"`
		Source   string `json:"source"`
		URL      string `json:"url"`
		Summary  string `json:"summary"`
	}
	params := url.Values{
		"symbol": {symbol},
		"from":   {from.Format("2006-01-02")},
		"to":     {to.Format("2006-01-02")},
	}
	if err := f.get(ctx, "/company-news", params, &rows); err != nil {
		return nil, fmt.Errorf("news %s: %w", symbol, err)
	}
	items := make([]types.NewsItem, 0, limit)
	for _, r := range rows {
		if len(items) >= limit {
			break
		}
		if r.Headline == "" {
			continue
		}
		items = append(items, types.NewsItem{
			Date:     time.Unix(r.Datetime, 0).UTC().Format("2006-01-02"),
			Headline: r.Headline,
			Source:   r.Source,
			URL:      r.URL,
			Summary:  r.Summary,
		})
	}
	return items, nil
}

// FiledReports returns the filing dates of reported financials, used to
// pin a financial period's report date.
func (f *Finnhub) FiledReports(ctx context.Context, symbol string) ([]statement.EarningsDate, error) {
	var resp struct {
		Data []struct {
			FiledDate string `json:"filedDate"`
			EndDate   string `json:"endDate"`
		} `json:"data"`
	}
	params := url.Values{"symbol": {symbol}, "freq": {"quarterly"}}
	if err := f.get(ctx, "/stock/financials-reported", params, &resp); err != nil {
		return nil, fmt.Errorf("financials reported %s: %w", symbol, err)
	}
	out := make([]statement.EarningsDate, 0, len(resp.Data))
	for _, d := range resp.Data {
		t, err := time.Parse("2006-01-02", firstDateToken(d.FiledDate))
		if err != nil {
			continue
		}
		out = append(out, statement.EarningsDate{Date: t})
	}
	return out, nil
}

// firstDateToken trims "2025-11-19 16:30:01" style timestamps to the
// date part.
func firstDateToken(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
