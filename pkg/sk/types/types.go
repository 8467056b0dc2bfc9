package types

// CurrencyMap holds the resolved 3-letter currency code per data domain.
type CurrencyMap struct {
	Quote     string `json:"quote,omitempty"`
	Financial string `json:"financial,omitempty"`
	Forecast  string `json:"forecast,omitempty"`
}

// RealtimeSnapshot is the merged realtime view of a symbol.
// Every numeric field is independently nullable; percent changes over
// 5/20/250 days are only computed when enough history exists.
type RealtimeSnapshot struct {
	StockName     string   `json:"stock_name,omitempty"`
	TradeDate     string   `json:"trade_date,omitempty"`
	Currency      string   `json:"currency,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	ChangePct     *float64 `json:"change_pct,omitempty"`
	MarketCapB    *float64 `json:"market_cap_b,omitempty"`
	TurnoverB     *float64 `json:"turnover_b,omitempty"`
	PETTM         *float64 `json:"pe_ttm,omitempty"`
	Change5DPct   *float64 `json:"change_5d_pct,omitempty"`
	Change20DPct  *float64 `json:"change_20d_pct,omitempty"`
	Change250DPct *float64 `json:"change_250d_pct,omitempty"`
}

// FinancialSnapshot condenses the latest usable reporting period.
type FinancialSnapshot struct {
	Currency           string   `json:"currency,omitempty"`
	LatestPeriod       string   `json:"latest_period,omitempty"`
	LatestReportDate   string   `json:"latest_report_date,omitempty"`
	LatestPeriodType   string   `json:"latest_period_type,omitempty"` // quarterly | annual
	RevenueB           *float64 `json:"revenue_b,omitempty"`
	RevenueYoYPct      *float64 `json:"revenue_yoy_pct,omitempty"`
	NetIncomeB         *float64 `json:"net_income_b,omitempty"`
	NetIncomeYoYPct    *float64 `json:"net_income_yoy_pct,omitempty"`
	EPS                *float64 `json:"eps,omitempty"`
	GrossMarginPct     *float64 `json:"gross_margin_pct,omitempty"`
	OperatingMarginPct *float64 `json:"operating_margin_pct,omitempty"`
	NetMarginPct       *float64 `json:"net_margin_pct,omitempty"`
	ROEPct             *float64 `json:"roe_pct,omitempty"`
}

// ForecastSnapshot carries forward-looking valuation and estimate fields.
type ForecastSnapshot struct {
	Currency               string   `json:"currency,omitempty"`
	ForwardPE              *float64 `json:"forward_pe,omitempty"`
	PEG                    *float64 `json:"peg,omitempty"`
	EVToEBITDA             *float64 `json:"ev_to_ebitda,omitempty"`
	PS                     *float64 `json:"ps,omitempty"`
	PB                     *float64 `json:"pb,omitempty"`
	EPSForecast            *float64 `json:"eps_forecast,omitempty"`
	NextYearEPSForecast    *float64 `json:"next_year_eps_forecast,omitempty"`
	NextQuarterEPSForecast *float64 `json:"next_quarter_eps_forecast,omitempty"`
	NextEarningsDate       string   `json:"next_earnings_date,omitempty"`
}

// ContextRow is one condensed statement period for downstream consumers.
// Monetary fields are in billions of the financial currency.
type ContextRow struct {
	PeriodEnd          string   `json:"period_end"`
	FiscalYear         int      `json:"fiscal_year,omitempty"`
	FiscalQuarter      string   `json:"fiscal_quarter,omitempty"`
	RevenueB           *float64 `json:"revenue_b,omitempty"`
	GrossMarginPct     *float64 `json:"gross_margin_pct,omitempty"`
	OperatingMarginPct *float64 `json:"operating_margin_pct,omitempty"`
	NetMarginPct       *float64 `json:"net_margin_pct,omitempty"`
	NetIncomeB         *float64 `json:"net_income_b,omitempty"`
	EPSDiluted         *float64 `json:"eps_diluted,omitempty"`
	EPSBasic           *float64 `json:"eps_basic,omitempty"`
	OperatingCashFlowB *float64 `json:"operating_cash_flow_b,omitempty"`
	CapexB             *float64 `json:"capex_b,omitempty"`
	FreeCashFlowB      *float64 `json:"free_cash_flow_b,omitempty"`
	TotalAssetsB       *float64 `json:"total_assets_b,omitempty"`
	TotalLiabilitiesB  *float64 `json:"total_liabilities_b,omitempty"`
	EquityB            *float64 `json:"equity_b,omitempty"`
}

// FinancialContext is the recent statement history, most recent first.
type FinancialContext struct {
	Annual    []ContextRow `json:"annual,omitempty"`
	Quarterly []ContextRow `json:"quarterly,omitempty"`
}

// EarningsResult is one historical quarter's actual vs estimate outcome.
type EarningsResult struct {
	Quarter     string   `json:"quarter,omitempty"`
	EPSActual   *float64 `json:"eps_actual,omitempty"`
	EPSEstimate *float64 `json:"eps_estimate,omitempty"`
	SurprisePct *float64 `json:"surprise_pct,omitempty"`
	Result      string   `json:"result"` // beat | miss | inline | insufficient
}

// BeatMiss summarizes the last four quarterly earnings surprises.
type BeatMiss struct {
	LatestQuarter     string           `json:"latest_quarter,omitempty"`
	LatestEPSActual   *float64         `json:"latest_eps_actual,omitempty"`
	LatestEPSEstimate *float64         `json:"latest_eps_estimate,omitempty"`
	LatestSurprisePct *float64         `json:"latest_surprise_pct,omitempty"`
	LatestResult      string           `json:"latest_result"`
	BeatCount         int              `json:"beat_count"`
	MissCount         int              `json:"miss_count"`
	InlineCount       int              `json:"inline_count"`
	BeatStreak        int              `json:"beat_streak"`
	AvgSurprisePct    *float64         `json:"avg_surprise_pct,omitempty"`
	History           []EarningsResult `json:"history,omitempty"`
}

// EPSTrend tracks consensus estimate revisions for a future period.
type EPSTrend struct {
	Period         string   `json:"period,omitempty"`
	Current        *float64 `json:"current,omitempty"`
	D7             *float64 `json:"d7,omitempty"`
	D30            *float64 `json:"d30,omitempty"`
	D60            *float64 `json:"d60,omitempty"`
	D90            *float64 `json:"d90,omitempty"`
	ChangeVs30DPct *float64 `json:"change_vs_30d_pct,omitempty"`
	ChangeVs90DPct *float64 `json:"change_vs_90d_pct,omitempty"`
	Signal         string   `json:"signal"` // up | down | flat | insufficient
}

// Conclusion holds the fixed qualitative readings per section and overall.
type Conclusion struct {
	BeatMiss string `json:"beat_miss,omitempty"`
	EPSTrend string `json:"eps_trend,omitempty"`
	Overall  string `json:"overall"`
}

// ExpectationGuidance is always fully populated; absent source data yields
// explicit "insufficient" classifications rather than missing fields.
type ExpectationGuidance struct {
	BeatMiss   BeatMiss   `json:"beat_miss"`
	EPSTrend   EPSTrend   `json:"eps_trend"`
	Conclusion Conclusion `json:"conclusion"`
}

// NewsItem is one recent headline for a symbol.
type NewsItem struct {
	Date     string `json:"date,omitempty"`
	Headline string `json:"headline,omitempty"`
	Source   string `json:"source,omitempty"`
	URL      string `json:"url,omitempty"`
	Summary  string `json:"summary,omitempty"`
}

// Issue is one deduplicated fetch diagnostic attached to a Bundle.
type Issue struct {
	Source     string `json:"source"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
}

// Bundle is the per-symbol output of a fetch.
type Bundle struct {
	Symbol    string               `json:"symbol"`
	Currency  CurrencyMap          `json:"currency"`
	Realtime  *RealtimeSnapshot    `json:"realtime,omitempty"`
	Financial *FinancialSnapshot   `json:"financial,omitempty"`
	Forecast  *ForecastSnapshot    `json:"forecast,omitempty"`
	Context   *FinancialContext    `json:"ai_financial_context,omitempty"`
	News      []NewsItem           `json:"news,omitempty"`
	Guidance  *ExpectationGuidance `json:"expectation_guidance,omitempty"`
	Warnings  []Issue              `json:"warnings,omitempty"`
	Error     string               `json:"error,omitempty"`
}

// ErrorBundle builds the deterministic shape returned when a symbol's
// whole pipeline failed: empty sub-objects plus an error string.
func ErrorBundle(symbol string, err error) *Bundle {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return &Bundle{
		Symbol:    symbol,
		Realtime:  &RealtimeSnapshot{},
		Financial: &FinancialSnapshot{},
		Forecast:  &ForecastSnapshot{},
		Context:   &FinancialContext{},
		Error:     msg,
	}
}
