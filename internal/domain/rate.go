package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RateObservation is one immutable row recording a bank's buy/sell price for
// a currency. History is the sequence of rows ordered by CreatedAt descending;
// rows are never updated in place.
type RateObservation struct {
	ID        int64
	BankName  string
	Code      string
	Buy       decimal.Decimal
	Sell      decimal.Decimal
	IsActive  bool
	CreatedAt time.Time
}

// NormalizedRate is a raw source rate after label resolution and numeric
// parsing.
type NormalizedRate struct {
	Code string
	Buy  decimal.Decimal
	Sell decimal.Decimal
}

// ParseRate converts a locale-formatted numeric string into a decimal.
// Everything except digits, comma and period is stripped, then comma becomes
// the decimal separator ("12,3456 смт" -> 12.3456). Values that still fail to
// parse, or parse to zero or below, are errors.
func ParseRate(s string) (decimal.Decimal, error) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.ReplaceAll(b.String(), ",", ".")
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("no numeric value in %q", s)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse %q: %w", s, err)
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("non-positive rate %q", s)
	}
	return d, nil
}

// Normalize converts one raw source rate into canonical form. Bank rates with
// buy >= sell are accepted as observed: banks do publish inverted pairs for
// illiquid instruments, and discarding them would lose real data.
func Normalize(label, buy, sell string) (NormalizedRate, error) {
	code, ok := ResolveCurrency(label)
	if !ok {
		return NormalizedRate{}, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, label)
	}
	b, err := ParseRate(buy)
	if err != nil {
		return NormalizedRate{}, fmt.Errorf("buy: %w", err)
	}
	s, err := ParseRate(sell)
	if err != nil {
		return NormalizedRate{}, fmt.Errorf("sell: %w", err)
	}
	return NormalizedRate{Code: code, Buy: b, Sell: s}, nil
}
