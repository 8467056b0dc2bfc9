package currency

import (
	"strings"

	"github.com/komsit37/sk/pkg/sk/types"
)

// suffixCurrency maps known exchange ticker suffixes to currency codes.
var suffixCurrency = map[string]string{
	"HK":  "HKD",
	"SS":  "CNY",
	"SZ":  "CNY",
	"SH":  "CNY",
	"BJ":  "CNY",
	"T":   "JPY",
	"KS":  "KRW",
	"KQ":  "KRW",
	"TW":  "TWD",
	"TWO": "TWD",
	"L":   "GBP",
	"PA":  "EUR",
	"AS":  "EUR",
	"BR":  "EUR",
	"MI":  "EUR",
	"DE":  "EUR",
	"MC":  "EUR",
	"HE":  "EUR",
	"CO":  "DKK",
	"ST":  "SEK",
	"OL":  "NOK",
	"SW":  "CHF",
	"AX":  "AUD",
	"TO":  "CAD",
	"V":   "CAD",
	"SI":  "SGD",
	"NS":  "INR",
	"BO":  "INR",
	"BK":  "THB",
	"JK":  "IDR",
	"KL":  "MYR",
	"VN":  "VND",
	"SA":  "BRL",
	"MX":  "MXN",
	"JO":  "ZAR",
	"TA":  "ILS",
	"ME":  "RUB",
	"BA":  "ARS",
}

// Normalize returns c upper-cased when it is exactly three letters,
// otherwise the empty string.
func Normalize(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if len(c) != 3 {
		return ""
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return ""
		}
	}
	return c
}

// InferFromSymbol derives a currency code from the ticker's exchange
// suffix. Undotted symbols default to USD. A single-letter suffix not in
// the exchange table is a US share class (e.g. BF.B), also USD.
func InferFromSymbol(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return ""
	}
	i := strings.LastIndex(symbol, ".")
	if i < 0 {
		return "USD"
	}
	suffix := symbol[i+1:]
	if cur, ok := suffixCurrency[suffix]; ok {
		return cur
	}
	if len(suffix) == 1 && suffix[0] >= 'A' && suffix[0] <= 'Z' {
		return "USD"
	}
	return ""
}

// Resolve reconciles one currency code per data domain from the raw hints
// each source produced. Later hints never override earlier ones; the
// symbol-suffix inference is the final fallback everywhere.
func Resolve(symbol, quote, profile, financial, forecast string) types.CurrencyMap {
	q := Normalize(quote)
	p := Normalize(profile)
	fin := Normalize(financial)
	fc := Normalize(forecast)
	inferred := InferFromSymbol(symbol)

	quoteCur := first(q, p, fin, fc, inferred)
	finCur := first(fin, quoteCur, fc, inferred)
	fcCur := first(fin, quoteCur, fc, inferred)
	return types.CurrencyMap{Quote: quoteCur, Financial: finCur, Forecast: fcCur}
}

func first(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
