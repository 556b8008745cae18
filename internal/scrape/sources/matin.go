package sources

import (
	"context"
	"net/http"

	"tjrates-service/internal/scrape"
)

const matinURL = "https://matin.tj/api/currency"

// Matin serves a flat JSON array of currency entries.
type Matin struct {
	BaseURL string
	Client  *http.Client
}

var _ scrape.Source = (*Matin)(nil)

func NewMatin(client *http.Client) *Matin {
	return &Matin{BaseURL: matinURL, Client: client}
}

func (m *Matin) Bank() scrape.BankInfo {
	return scrape.BankInfo{Name: "Matin", ShortName: "MTN", Website: "https://matin.tj"}
}

func (m *Matin) Fetch(ctx context.Context) ([]scrape.RawRate, error) {
	var body []struct {
		Currency  string     `json:"currency"`
		ValueBuy  flexString `json:"valuebuy"`
		ValueSale flexString `json:"valuesale"`
	}
	if err := getJSON(ctx, m.Client, m.BaseURL, &body); err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, scrape.Formatf("matin: empty currency list")
	}

	out := make([]scrape.RawRate, 0, len(body))
	for _, item := range body {
		out = append(out, scrape.RawRate{
			Label: item.Currency,
			Buy:   string(item.ValueBuy),
			Sell:  string(item.ValueSale),
		})
	}
	return out, nil
}
