package sources

import (
	"context"
	"net/http"

	"tjrates-service/internal/domain"
	"tjrates-service/internal/scrape"
	"tjrates-service/internal/scrape/htmlx"
)

const humoURL = "https://humo.tj/ru/"

// Humo serves rates in a kursHUMO widget: each kursBody block has three
// divs, label ("1 USD"), buy, sell.
type Humo struct {
	BaseURL string
	Client  *http.Client
}

var _ scrape.Source = (*Humo)(nil)

func NewHumo(client *http.Client) *Humo {
	return &Humo{BaseURL: humoURL, Client: client}
}

func (h *Humo) Bank() scrape.BankInfo {
	return scrape.BankInfo{Name: "HUMO", ShortName: "HUMO", Website: "https://humo.tj"}
}

func (h *Humo) Fetch(ctx context.Context) ([]scrape.RawRate, error) {
	doc, err := htmlx.Get(ctx, h.Client, h.BaseURL)
	if err != nil {
		return nil, err
	}

	section := htmlx.FirstMatch(doc, "div.kursHUMO")
	if section == nil {
		return nil, scrape.Formatf("humo: kursHUMO section not found")
	}

	var out []scrape.RawRate
	bodies := section.Find("div.kursBody")
	for i := 0; i < bodies.Length(); i++ {
		divs := bodies.Eq(i).Find("div")
		if divs.Length() < 3 {
			continue
		}
		label := htmlx.Text(divs.Eq(0))
		if _, ok := domain.ResolveCurrency(label); !ok {
			continue
		}
		out = append(out, scrape.RawRate{
			Label: label,
			Buy:   htmlx.Text(divs.Eq(1)),
			Sell:  htmlx.Text(divs.Eq(2)),
		})
	}
	if len(out) == 0 {
		return nil, scrape.Formatf("humo: no rate blocks matched")
	}
	return out, nil
}
