package domain

import "strings"

// Currency is a tracked currency. Rows are created lazily the first time a
// source reports a new code.
type Currency struct {
	ID       int64
	Code     string
	Name     string
	Symbol   string
	IsActive bool
}

// Bank is a rate source. Rows are created lazily on the first successful
// scrape from a new source.
type Bank struct {
	ID        int64
	Name      string
	ShortName string
	Website   string
	IsActive  bool
}

// TrackedCurrencies is the fixed allow-list of codes the system stores.
var TrackedCurrencies = map[string]bool{
	"USD": true,
	"EUR": true,
	"RUB": true,
}

// CurrencyMeta carries display data for lazily created Currency rows.
var CurrencyMeta = map[string]Currency{
	"USD": {Code: "USD", Name: "US Dollar", Symbol: "$"},
	"EUR": {Code: "EUR", Name: "Euro", Symbol: "€"},
	"RUB": {Code: "RUB", Name: "Russian Ruble", Symbol: "₽"},
}

// currencySynonyms maps labels, symbols and localized names the sources use
// onto ISO codes. RUR is the pre-1998 ruble code still used by a few banks;
// it always canonicalizes to RUB.
var currencySynonyms = map[string]string{
	"USD":              "USD",
	"EUR":              "EUR",
	"RUB":              "RUB",
	"RUR":              "RUB",
	"EURO":             "EUR",
	"$":                "USD",
	"€":                "EUR",
	"₽":                "RUB",
	"DOLLAR":           "USD",
	"ДОЛЛАР":           "USD",
	"ДОЛЛАР США":      "USD",
	"ЕВРО":             "EUR",
	"РУБЛЬ":            "RUB",
	"РОССИЙСКИЙ РУБЛЬ": "RUB",
}

// ResolveCurrency maps a free-text label from a source ("$", "1 USD", "ЕВРО",
// "RUR") to a canonical code from the allow-list. The second return is false
// when the label names a currency the system does not track.
func ResolveCurrency(label string) (string, bool) {
	s := strings.ToUpper(strings.TrimSpace(label))
	if s == "" {
		return "", false
	}
	if code, ok := currencySynonyms[s]; ok {
		return code, true
	}
	// Multi-word labels like "1 USD" or "USD 1": any token that resolves wins.
	for _, f := range strings.Fields(s) {
		if code, ok := currencySynonyms[f]; ok {
			return code, true
		}
	}
	return "", false
}
