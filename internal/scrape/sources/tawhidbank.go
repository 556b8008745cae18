package sources

import (
	"context"
	"time"

	"tjrates-service/internal/domain"
	"tjrates-service/internal/scrape"
	"tjrates-service/internal/scrape/browser"
	"tjrates-service/internal/scrape/htmlx"
)

const tawhidURL = "https://www.tawhidbank.tj/personal"

type Tawhidbank struct {
	BaseURL  string
	Renderer browser.Renderer
}

var _ scrape.Source = (*Tawhidbank)(nil)

func NewTawhidbank(r browser.Renderer) *Tawhidbank {
	return &Tawhidbank{BaseURL: tawhidURL, Renderer: r}
}

func (t *Tawhidbank) Bank() scrape.BankInfo {
	return scrape.BankInfo{Name: "Tawhidbank", ShortName: "Tawhid", Website: "https://www.tawhidbank.tj"}
}

func (t *Tawhidbank) Fetch(ctx context.Context) ([]scrape.RawRate, error) {
	html, err := t.Renderer.HTML(ctx, t.BaseURL, browser.WaitOptions{
		Selectors: []string{".rate-row"},
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
	rows := doc.Find(".rate-row")
	for i := 0; i < rows.Length(); i++ {
		row := rows.Eq(i)
		label := htmlx.Text(row.Find(".currency-name").First())
		if _, ok := domain.ResolveCurrency(label); !ok {
			continue
		}
		values := row.Find(".rate")
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
		return nil, scrape.Formatf("tawhidbank: no rate rows matched")
	}
	return out, nil
}
