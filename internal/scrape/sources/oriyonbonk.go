package sources

import (
	"context"
	"net/http"

	"tjrates-service/internal/domain"
	"tjrates-service/internal/scrape"
	"tjrates-service/internal/scrape/htmlx"
)

const oriyonbonkURL = "https://oriyonbonk.tj/ru"

// Oriyonbonk lays rates out as tailwind grid rows: the first <p> holds a
// "1 USD" style label, the right-aligned <p> cells hold buy then sell.
type Oriyonbonk struct {
	BaseURL string
	Client  *http.Client
}

var _ scrape.Source = (*Oriyonbonk)(nil)

func NewOriyonbonk(client *http.Client) *Oriyonbonk {
	return &Oriyonbonk{BaseURL: oriyonbonkURL, Client: client}
}

func (o *Oriyonbonk) Bank() scrape.BankInfo {
	return scrape.BankInfo{Name: "Oriyonbonk", ShortName: "ORN", Website: "https://oriyonbonk.tj"}
}

func (o *Oriyonbonk) Fetch(ctx context.Context) ([]scrape.RawRate, error) {
	doc, err := htmlx.Get(ctx, o.Client, o.BaseURL)
	if err != nil {
		return nil, err
	}

	var out []scrape.RawRate
	blocks := doc.Find(`div[class*="grid-cols-"]`)
	for i := 0; i < blocks.Length(); i++ {
		block := blocks.Eq(i)
		label := htmlx.Text(block.Find("p").First())
		if _, ok := domain.ResolveCurrency(label); !ok {
			continue
		}
		prices := block.Find("p.text-right")
		if prices.Length() < 2 {
			continue
		}
		out = append(out, scrape.RawRate{
			Label: label,
			Buy:   htmlx.Text(prices.Eq(0)),
			Sell:  htmlx.Text(prices.Eq(1)),
		})
	}
	if len(out) == 0 {
		return nil, scrape.Formatf("oriyonbonk: no rate blocks matched")
	}
	return out, nil
}
