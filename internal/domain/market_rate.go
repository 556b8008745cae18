package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// MarketRate is a manually entered rate for a city, submitted by an
// authorized worker. Unlike bank observations it must satisfy buy < sell.
type MarketRate struct {
	ID        int64
	Code      string
	CityName  string
	Buy       decimal.Decimal
	Sell      decimal.Decimal
	AddedBy   int64
	Notes     string
	IsActive  bool
	CreatedAt time.Time
}

var (
	ErrRateNotPositive = errors.New("buy and sell must be positive")
	ErrBuyNotBelowSell = errors.New("buy must be below sell")
)

// ValidateSpread enforces the market-rate invariant: both sides positive and
// buy strictly below sell. Bank observations are exempt from the second check.
func ValidateSpread(buy, sell decimal.Decimal) error {
	if !buy.IsPositive() || !sell.IsPositive() {
		return ErrRateNotPositive
	}
	if buy.GreaterThanOrEqual(sell) {
		return ErrBuyNotBelowSell
	}
	return nil
}
