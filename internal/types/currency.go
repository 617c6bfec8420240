package types

import "strings"

// currencyPrecision maps lowercase 3 letter ISO currency codes to the number
// of decimal places of their minor unit. Codes not listed here default to 2.
var currencyPrecision = map[string]int32{
	"ron": 2,
	"eur": 2,
	"usd": 2,
	"gbp": 2,
	"chf": 2,
	"huf": 2,
	"pln": 2,
	"jpy": 0,
	"krw": 0,
	"isk": 0,
}

// DefaultCurrencyPrecision is used for unknown currency codes
const DefaultCurrencyPrecision int32 = 2

// GetCurrencyPrecision returns the minor unit precision for a currency code
func GetCurrencyPrecision(code string) int32 {
	if precision, ok := currencyPrecision[strings.ToLower(code)]; ok {
		return precision
	}
	return DefaultCurrencyPrecision
}
