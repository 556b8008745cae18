package sources

import (
	"context"
	"net/http"

	"tjrates-service/internal/domain"
	"tjrates-service/internal/scrape"
	"tjrates-service/internal/scrape/htmlx"
)

const tejaratURL = "https://tejaratbank.tj/"

// Tejaratbank publishes rates as a flat sequence of elementor heading
// widgets: a currency label followed by two numeric headings (buy, sell).
type Tejaratbank struct {
	BaseURL string
	Client  *http.Client
}

var _ scrape.Source = (*Tejaratbank)(nil)

func NewTejaratbank(client *http.Client) *Tejaratbank {
	return &Tejaratbank{BaseURL: tejaratURL, Client: client}
}

func (t *Tejaratbank) Bank() scrape.BankInfo {
	return scrape.BankInfo{Name: "Tejaratbank", ShortName: "Tejaratbank", Website: "https://tejaratbank.tj"}
}

func (t *Tejaratbank) Fetch(ctx context.Context) ([]scrape.RawRate, error) {
	doc, err := htmlx.Get(ctx, t.Client, t.BaseURL)
	if err != nil {
		return nil, err
	}

	headings := doc.Find("div.elementor-heading-title")
	texts := make([]string, 0, headings.Length())
	for i := 0; i < headings.Length(); i++ {
		texts = append(texts, htmlx.Text(headings.Eq(i)))
	}

	var out []scrape.RawRate
	for i := 0; i+2 < len(texts); i++ {
		if _, ok := domain.ResolveCurrency(texts[i]); !ok {
			continue
		}
		out = append(out, scrape.RawRate{
			Label: texts[i],
			Buy:   texts[i+1],
			Sell:  texts[i+2],
		})
		i += 2
	}
	if len(out) == 0 {
		return nil, scrape.Formatf("tejaratbank: no currency headings matched")
	}
	return out, nil
}
