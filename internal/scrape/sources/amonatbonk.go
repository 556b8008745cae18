package sources

import (
	"context"
	"net/http"

	"tjrates-service/internal/scrape"
)

const amonatbonkURL = "https://amonatbonk.tj/bitrix/templates/amonatbonk/ajax/ambApi.php"

// Amonatbonk reads the bank's JSON widget API. Rates for individuals live
// under the "individuals" key, one object per currency code.
type Amonatbonk struct {
	BaseURL string
	Client  *http.Client
}

var _ scrape.Source = (*Amonatbonk)(nil)

func NewAmonatbonk(client *http.Client) *Amonatbonk {
	return &Amonatbonk{BaseURL: amonatbonkURL, Client: client}
}

func (a *Amonatbonk) Bank() scrape.BankInfo {
	return scrape.BankInfo{Name: "Amonatbonk", ShortName: "AMB", Website: "https://amonatbonk.tj"}
}

func (a *Amonatbonk) Fetch(ctx context.Context) ([]scrape.RawRate, error) {
	var body struct {
		Individuals map[string]struct {
			Buy  flexString `json:"buy"`
			Sell flexString `json:"sell"`
		} `json:"individuals"`
	}
	if err := getJSON(ctx, a.Client, a.BaseURL, &body); err != nil {
		return nil, err
	}
	if len(body.Individuals) == 0 {
		return nil, scrape.Formatf("amonatbonk: individuals block missing")
	}

	var out []scrape.RawRate
	for _, code := range []string{"USD", "EUR", "RUB"} {
		r, ok := body.Individuals[code]
		if !ok {
			continue
		}
		out = append(out, scrape.RawRate{Label: code, Buy: string(r.Buy), Sell: string(r.Sell)})
	}
	if len(out) == 0 {
		return nil, scrape.Formatf("amonatbonk: no tracked currencies in response")
	}
	return out, nil
}
