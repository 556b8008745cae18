package sources

import (
	"context"
	"net/http"

	"tjrates-service/internal/scrape"
)

const arvandURL = "https://arvand.tj/api/currencies/"

// Arvand serves a JSON array mixing cash and transfer rates; only the
// CASH_RATE entries are taken, first entry per currency wins.
type Arvand struct {
	BaseURL string
	Client  *http.Client
}

var _ scrape.Source = (*Arvand)(nil)

func NewArvand(client *http.Client) *Arvand {
	return &Arvand{BaseURL: arvandURL, Client: client}
}

func (a *Arvand) Bank() scrape.BankInfo {
	return scrape.BankInfo{Name: "Arvand", ShortName: "ARV", Website: "https://arvand.tj"}
}

func (a *Arvand) Fetch(ctx context.Context) ([]scrape.RawRate, error) {
	var body []struct {
		CurrencyName string     `json:"currency_name"`
		BuyRate      flexString `json:"buy_rate"`
		SellRate     flexString `json:"sell_rate"`
		TypeCurrency string     `json:"type_currency"`
	}
	if err := getJSON(ctx, a.Client, a.BaseURL, &body); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []scrape.RawRate
	for _, item := range body {
		if item.TypeCurrency != "CASH_RATE" || seen[item.CurrencyName] {
			continue
		}
		seen[item.CurrencyName] = true
		out = append(out, scrape.RawRate{
			Label: item.CurrencyName,
			Buy:   string(item.BuyRate),
			Sell:  string(item.SellRate),
		})
	}
	if len(out) == 0 {
		return nil, scrape.Formatf("arvand: no CASH_RATE entries in response")
	}
	return out, nil
}
