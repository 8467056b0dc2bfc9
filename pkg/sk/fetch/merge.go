package fetch

import "github.com/komsit37/sk/pkg/sk/types"

// MergeRealtime fills nil or empty fields of dst from src. A later
// adapter never clobbers a value an earlier one already set.
func MergeRealtime(dst, src *types.RealtimeSnapshot) *types.RealtimeSnapshot {
	if src == nil {
		return dst
	}
	if dst == nil {
		out := *src
		return &out
	}
	if dst.StockName == "" {
		dst.StockName = src.StockName
	}
	if dst.TradeDate == "" {
		dst.TradeDate = src.TradeDate
	}
	if dst.Currency == "" {
		dst.Currency = src.Currency
	}
	if dst.Price == nil {
		dst.Price = src.Price
	}
	if dst.ChangePct == nil {
		dst.ChangePct = src.ChangePct
	}
	if dst.MarketCapB == nil {
		dst.MarketCapB = src.MarketCapB
	}
	if dst.TurnoverB == nil {
		dst.TurnoverB = src.TurnoverB
	}
	if dst.PETTM == nil {
		dst.PETTM = src.PETTM
	}
	if dst.Change5DPct == nil {
		dst.Change5DPct = src.Change5DPct
	}
	if dst.Change20DPct == nil {
		dst.Change20DPct = src.Change20DPct
	}
	if dst.Change250DPct == nil {
		dst.Change250DPct = src.Change250DPct
	}
	return dst
}

// MergeForecast fills nil or empty fields of dst from src with the same
// forward-only contract.
func MergeForecast(dst, src *types.ForecastSnapshot) *types.ForecastSnapshot {
	if src == nil {
		return dst
	}
	if dst == nil {
		out := *src
		return &out
	}
	if dst.Currency == "" {
		dst.Currency = src.Currency
	}
	if dst.ForwardPE == nil {
		dst.ForwardPE = src.ForwardPE
	}
	if dst.PEG == nil {
		dst.PEG = src.PEG
	}
	if dst.EVToEBITDA == nil {
		dst.EVToEBITDA = src.EVToEBITDA
	}
	if dst.PS == nil {
		dst.PS = src.PS
	}
	if dst.PB == nil {
		dst.PB = src.PB
	}
	if dst.EPSForecast == nil {
		dst.EPSForecast = src.EPSForecast
	}
	if dst.NextYearEPSForecast == nil {
		dst.NextYearEPSForecast = src.NextYearEPSForecast
	}
	if dst.NextQuarterEPSForecast == nil {
		dst.NextQuarterEPSForecast = src.NextQuarterEPSForecast
	}
	if dst.NextEarningsDate == "" {
		dst.NextEarningsDate = src.NextEarningsDate
	}
	return dst
}
