package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/komsit37/sk/pkg/sk/guidance"
	"github.com/komsit37/sk/pkg/sk/num"
	"github.com/komsit37/sk/pkg/sk/statement"
)

const yahooQueryURL = "https://query1.finance.yahoo.com"

// Quote-summary modules requested per symbol.
const (
	ModulePrice                = "price"
	ModuleSummaryDetail        = "summaryDetail"
	ModuleDefaultKeyStatistics = "defaultKeyStatistics"
	ModuleFinancialData        = "financialData"
	ModuleEarningsTrend        = "earningsTrend"
	ModuleEarningsHistory      = "earningsHistory"
	ModuleCalendarEvents       = "calendarEvents"
)

// Value is the {raw, fmt} wrapper the finance API uses for numerics.
type Value struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt"`
}

func (v Value) Ptr() *float64 { return v.Raw }

// QuoteSummary is the typed subset of the quote-summary payload the
// pipeline consumes. Absent modules stay nil.
type QuoteSummary struct {
	Price *struct {
		ShortName                  string `json:"shortName"`
		LongName                   string `json:"longName"`
		Currency                   string `json:"currency"`
		RegularMarketPrice         Value  `json:"regularMarketPrice"`
		RegularMarketChangePercent Value  `json:"regularMarketChangePercent"`
		RegularMarketVolume        Value  `json:"regularMarketVolume"`
		MarketCap                  Value  `json:"marketCap"`
		RegularMarketTime          *int64 `json:"regularMarketTime"`
	} `json:"price"`
	SummaryDetail *struct {
		TrailingPE                   Value `json:"trailingPE"`
		ForwardPE                    Value `json:"forwardPE"`
		PriceToSalesTrailing12Months Value `json:"priceToSalesTrailing12Months"`
	} `json:"summaryDetail"`
	DefaultKeyStatistics *struct {
		SharesOutstanding  Value `json:"sharesOutstanding"`
		TrailingEps        Value `json:"trailingEps"`
		ForwardEps         Value `json:"forwardEps"`
		PegRatio           Value `json:"pegRatio"`
		EnterpriseToEbitda Value `json:"enterpriseToEbitda"`
		PriceToBook        Value `json:"priceToBook"`
	} `json:"defaultKeyStatistics"`
	FinancialData *struct {
		FinancialCurrency string `json:"financialCurrency"`
		ReturnOnEquity    Value  `json:"returnOnEquity"`
	} `json:"financialData"`
	EarningsTrend *struct {
		Trend []TrendPeriod `json:"trend"`
	} `json:"earningsTrend"`
	EarningsHistory *struct {
		History []EarningsHistoryRow `json:"history"`
	} `json:"earningsHistory"`
	CalendarEvents *struct {
		Earnings struct {
			EarningsDate []Value `json:"earningsDate"`
		} `json:"earnings"`
	} `json:"calendarEvents"`
}

// TrendPeriod is one estimate-revision series ("0q", "+1q", "0y", "+1y").
type TrendPeriod struct {
	Period   string `json:"period"`
	EndDate  string `json:"endDate"`
	EpsTrend struct {
		Current Value `json:"current"`
		D7      Value `json:"7daysAgo"`
		D30     Value `json:"30daysAgo"`
		D60     Value `json:"60daysAgo"`
		D90     Value `json:"90daysAgo"`
	} `json:"epsTrend"`
}

// EarningsHistoryRow is one reported quarter with its estimate.
type EarningsHistoryRow struct {
	Quarter         Value  `json:"quarter"` // epoch of the period end
	Period          string `json:"period"`
	EpsActual       Value  `json:"epsActual"`
	EpsEstimate     Value  `json:"epsEstimate"`
	SurprisePercent Value  `json:"surprisePercent"` // decimal ratio
}

// Yahoo is the statistics-API adapter.
type Yahoo struct {
	c       *Client
	baseURL string
}

func NewYahoo(c *Client) *Yahoo {
	return &Yahoo{c: c, baseURL: yahooQueryURL}
}

// QuoteSummary fetches the requested modules for one symbol.
func (y *Yahoo) QuoteSummary(ctx context.Context, symbol string, modules ...string) (*QuoteSummary, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		y.baseURL, url.PathEscape(symbol), strings.Join(modules, ","))
	var resp struct {
		QuoteSummary struct {
			Result []*QuoteSummary `json:"result"`
		} `json:"quoteSummary"`
	}
	if err := y.c.getJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("quote summary %s: %w", symbol, err)
	}
	if len(resp.QuoteSummary.Result) == 0 || resp.QuoteSummary.Result[0] == nil {
		return nil, fmt.Errorf("quote summary %s: empty result", symbol)
	}
	return resp.QuoteSummary.Result[0], nil
}

// Chart is the daily price history of a symbol.
type Chart struct {
	Currency   string
	Timestamps []int64
	Closes     []*float64
	Volumes    []*float64
}

// Chart fetches daily closes and volumes over the given range ("1y").
func (y *Yahoo) Chart(ctx context.Context, symbol, rng string) (*Chart, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=1d",
		y.baseURL, url.PathEscape(symbol), rng)
	var resp struct {
		Chart struct {
			Result []struct {
				Meta struct {
					Currency string `json:"currency"`
				} `json:"meta"`
				Timestamp  []int64 `json:"timestamp"`
				Indicators struct {
					Quote []struct {
						Close  []*float64 `json:"close"`
						Volume []*float64 `json:"volume"`
					} `json:"quote"`
				} `json:"indicators"`
			} `json:"result"`
		} `json:"chart"`
	}
	if err := y.c.getJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("chart %s: %w", symbol, err)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart %s: empty result", symbol)
	}
	r := resp.Chart.Result[0]
	ch := &Chart{Currency: r.Meta.Currency, Timestamps: r.Timestamp}
	if len(r.Indicators.Quote) > 0 {
		ch.Closes = r.Indicators.Quote[0].Close
		ch.Volumes = r.Indicators.Quote[0].Volume
	}
	return ch, nil
}

// timeseries field keys by statement, mapped to frame row labels.
var timeseriesFields = []struct {
	key       string
	label     string
	statement string // income | balance | cash
}{
	{"TotalRevenue", "Total Revenue", "income"},
	{"GrossProfit", "Gross Profit", "income"},
	{"OperatingIncome", "Operating Income", "income"},
	{"NetIncome", "Net Income", "income"},
	{"NetIncomeCommonStockholders", "Net Income Common Stockholders", "income"},
	{"DilutedEPS", "Diluted EPS", "income"},
	{"BasicEPS", "Basic EPS", "income"},
	{"DilutedAverageShares", "Diluted Average Shares", "income"},
	{"BasicAverageShares", "Basic Average Shares", "income"},
	{"OperatingCashFlow", "Operating Cash Flow", "cash"},
	{"CapitalExpenditure", "Capital Expenditure", "cash"},
	{"TotalAssets", "Total Assets", "balance"},
	{"TotalLiabilitiesNetMinorityInterest", "Total Liabilities Net Minority Interest", "balance"},
	{"StockholdersEquity", "Stockholders Equity", "balance"},
}

// Statements fetches the annual and quarterly statement frames from the
// fundamentals timeseries endpoint.
func (y *Yahoo) Statements(ctx context.Context, symbol string) (*statement.Statements, error) {
	st := &statement.Statements{
		IncomeAnnual:     statement.NewFrame(),
		IncomeQuarterly:  statement.NewFrame(),
		BalanceAnnual:    statement.NewFrame(),
		BalanceQuarterly: statement.NewFrame(),
		CashAnnual:       statement.NewFrame(),
		CashQuarterly:    statement.NewFrame(),
	}

	keys := make([]string, 0, len(timeseriesFields)*2)
	for _, f := range timeseriesFields {
		keys = append(keys, "annual"+f.key, "quarterly"+f.key)
	}
	now := time.Now()
	u := fmt.Sprintf("%s/ws/fundamentals-timeseries/v1/finance/timeseries/%s?type=%s&period1=%d&period2=%d",
		y.baseURL, url.PathEscape(symbol), strings.Join(keys, ","),
		now.AddDate(-6, 0, 0).Unix(), now.Unix())

	var resp struct {
		Timeseries struct {
			Result []map[string]json.RawMessage `json:"result"`
		} `json:"timeseries"`
	}
	if err := y.c.getJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("statements %s: %w", symbol, err)
	}

	type tsPoint struct {
		AsOfDate      string `json:"asOfDate"`
		ReportedValue Value  `json:"reportedValue"`
	}
	for _, r := range resp.Timeseries.Result {
		var meta struct {
			Type []string `json:"type"`
		}
		if raw, ok := r["meta"]; ok {
			if err := json.Unmarshal(raw, &meta); err != nil || len(meta.Type) == 0 {
				continue
			}
		} else {
			continue
		}
		key := meta.Type[0]
		raw, ok := r[key]
		if !ok {
			continue
		}
		var points []*tsPoint
		if err := json.Unmarshal(raw, &points); err != nil {
			continue
		}

		annual := strings.HasPrefix(key, "annual")
		base := strings.TrimPrefix(strings.TrimPrefix(key, "annual"), "quarterly")
		for _, f := range timeseriesFields {
			if f.key != base {
				continue
			}
			frame := st.IncomeQuarterly
			switch {
			case f.statement == "income" && annual:
				frame = st.IncomeAnnual
			case f.statement == "balance" && annual:
				frame = st.BalanceAnnual
			case f.statement == "balance":
				frame = st.BalanceQuarterly
			case f.statement == "cash" && annual:
				frame = st.CashAnnual
			case f.statement == "cash":
				frame = st.CashQuarterly
			}
			for _, p := range points {
				if p == nil || p.AsOfDate == "" {
					continue
				}
				frame.Set(f.label, p.AsOfDate, p.ReportedValue.Raw)
			}
			break
		}
	}

	for _, f := range []*statement.Frame{
		st.IncomeAnnual, st.IncomeQuarterly,
		st.BalanceAnnual, st.BalanceQuarterly,
		st.CashAnnual, st.CashQuarterly,
	} {
		f.Sort()
	}
	if st.Empty() {
		return nil, fmt.Errorf("statements %s: no data", symbol)
	}
	return st, nil
}

// EarningsDates converts the earnings history into calendar entries for
// EPS reconstruction and report-date selection.
func EarningsDates(qs *QuoteSummary) []statement.EarningsDate {
	if qs == nil || qs.EarningsHistory == nil {
		return nil
	}
	out := make([]statement.EarningsDate, 0, len(qs.EarningsHistory.History))
	for _, h := range qs.EarningsHistory.History {
		if h.Quarter.Raw == nil {
			continue
		}
		out = append(out, statement.EarningsDate{
			Date:        time.Unix(int64(*h.Quarter.Raw), 0).UTC(),
			ReportedEPS: h.EpsActual.Raw,
			EstimateEPS: h.EpsEstimate.Raw,
		})
	}
	return out
}

// EarningsRows converts the earnings history into guidance rows, newest
// first. The API reports surprise as a decimal ratio.
func EarningsRows(qs *QuoteSummary) []guidance.EarningsRow {
	if qs == nil || qs.EarningsHistory == nil {
		return nil
	}
	rows := make([]guidance.EarningsRow, 0, len(qs.EarningsHistory.History))
	for _, h := range qs.EarningsHistory.History {
		rows = append(rows, guidance.EarningsRow{
			Quarter:     epochDate(h.Quarter.Raw),
			EPSActual:   h.EpsActual.Raw,
			EPSEstimate: h.EpsEstimate.Raw,
			SurprisePct: num.ToPct(h.SurprisePercent.Raw),
		})
	}
	sort.SliceStable(rows, func(a, b int) bool { return rows[a].Quarter > rows[b].Quarter })
	return rows
}

// epochDate formats a unix-seconds value as a date string.
func epochDate(v *float64) string {
	if v == nil {
		return ""
	}
	return time.Unix(int64(*v), 0).UTC().Format("2006-01-02")
}
