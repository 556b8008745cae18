package sources

import (
	"context"
	"time"

	"tjrates-service/internal/domain"
	"tjrates-service/internal/scrape"
	"tjrates-service/internal/scrape/browser"
	"tjrates-service/internal/scrape/htmlx"
)

const imonURL = "https://www.imon.tj/"

// Imon renders its rate widget client-side. Each currency block is a
// div.col-12.col-md.mt-3 with the Cyrillic currency name in h5.title and the
// buy/sell values in the two div.col-6 children of the inner row.
type Imon struct {
	BaseURL  string
	Renderer browser.Renderer
}

var _ scrape.Source = (*Imon)(nil)

func NewImon(r browser.Renderer) *Imon {
	return &Imon{BaseURL: imonURL, Renderer: r}
}

func (s *Imon) Bank() scrape.BankInfo {
	return scrape.BankInfo{Name: "Imon", ShortName: "Imon", Website: "https://www.imon.tj"}
}

func (s *Imon) Fetch(ctx context.Context) ([]scrape.RawRate, error) {
	html, err := s.Renderer.HTML(ctx, s.BaseURL, browser.WaitOptions{
		Selectors: []string{"div.col-12.col-md.mt-3"},
		Tokens:    waitTokens,
		Timeout:   30 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	doc, err := htmlx.Parse(html)
	if err != nil {
		return nil, err
	}

	var out []scrape.RawRate
	blocks := doc.Find("div.col-12.col-md.mt-3")
	for i := 0; i < blocks.Length(); i++ {
		block := blocks.Eq(i)
		label := htmlx.Text(block.Find("h5.title").First())
		if _, ok := domain.ResolveCurrency(label); !ok {
			continue
		}
		values := block.Find("div.row div.col-6")
		if values.Length() < 2 {
			continue
		}
		out = append(out, scrape.RawRate{
			Label: label,
			Buy:   htmlx.Text(values.Eq(0)),
			Sell:  htmlx.Text(values.Eq(1)),
		})
	}
	if len(out) == 0 {
		return nil, scrape.Formatf("imon: no currency blocks matched")
	}
	return out, nil
}
