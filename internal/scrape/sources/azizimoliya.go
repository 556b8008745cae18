package sources

import (
	"context"
	"net/http"
	"strings"

	"tjrates-service/internal/scrape"
)

const azizimoliyaURL = "https://azizimoliya.tj/rates-api/"

// Azizimoliya serves a JSON object keyed by lowercase currency code with
// cash-desk rates under kassa_buy/kassa_sell.
type Azizimoliya struct {
	BaseURL string
	Client  *http.Client
}

var _ scrape.Source = (*Azizimoliya)(nil)

func NewAzizimoliya(client *http.Client) *Azizimoliya {
	return &Azizimoliya{BaseURL: azizimoliyaURL, Client: client}
}

func (a *Azizimoliya) Bank() scrape.BankInfo {
	return scrape.BankInfo{Name: "Azizimoliya", ShortName: "AZM", Website: "https://azizimoliya.tj"}
}

func (a *Azizimoliya) Fetch(ctx context.Context) ([]scrape.RawRate, error) {
	var body map[string]struct {
		KassaBuy  flexString `json:"kassa_buy"`
		KassaSell flexString `json:"kassa_sell"`
	}
	if err := getJSON(ctx, a.Client, a.BaseURL, &body); err != nil {
		return nil, err
	}

	var out []scrape.RawRate
	for _, code := range []string{"usd", "eur", "rub"} {
		r, ok := body[code]
		if !ok {
			continue
		}
		out = append(out, scrape.RawRate{
			Label: strings.ToUpper(code),
			Buy:   string(r.KassaBuy),
			Sell:  string(r.KassaSell),
		})
	}
	if len(out) == 0 {
		return nil, scrape.Formatf("azizimoliya: no tracked currencies in response")
	}
	return out, nil
}
