package sources

import (
	"context"
	"time"

	"tjrates-service/internal/domain"
	"tjrates-service/internal/scrape"
	"tjrates-service/internal/scrape/browser"
	"tjrates-service/internal/scrape/htmlx"
)

const spitamenURL = "https://www.spitamenbank.tj/tj/personal/"

// Spitamenbank loads #currency-list via JS. The cash tab rows carry
// li[c_index="1"]; inside .currency-values the first div holds the label and
// the numeric values sit in div[c-val] attributes.
type Spitamenbank struct {
	BaseURL  string
	Renderer browser.Renderer
}

var _ scrape.Source = (*Spitamenbank)(nil)

func NewSpitamenbank(r browser.Renderer) *Spitamenbank {
	return &Spitamenbank{BaseURL: spitamenURL, Renderer: r}
}

func (s *Spitamenbank) Bank() scrape.BankInfo {
	return scrape.BankInfo{Name: "Spitamenbank", ShortName: "Spitamen", Website: "https://www.spitamenbank.tj"}
}

func (s *Spitamenbank) Fetch(ctx context.Context) ([]scrape.RawRate, error) {
	html, err := s.Renderer.HTML(ctx, s.BaseURL, browser.WaitOptions{
		Selectors: []string{"#currency-list"},
		Tokens:    waitTokens,
		Timeout:   15 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	doc, err := htmlx.Parse(html)
	if err != nil {
		return nil, err
	}

	var out []scrape.RawRate
	rows := doc.Find(`#currency-list li[c_index="1"]`)
	for i := 0; i < rows.Length(); i++ {
		values := rows.Eq(i).Find(".currency-values")
		label := htmlx.Text(values.Find("div").First())
		if _, ok := domain.ResolveCurrency(label); !ok {
			continue
		}
		vals := values.Find("div[c-val]")
		if vals.Length() < 2 {
			continue
		}
		buy, _ := vals.Eq(0).Attr("c-val")
		sell, _ := vals.Eq(1).Attr("c-val")
		out = append(out, scrape.RawRate{Label: label, Buy: buy, Sell: sell})
	}
	if len(out) == 0 {
		return nil, scrape.Formatf("spitamenbank: no cash rows matched")
	}
	return out, nil
}
