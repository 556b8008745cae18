package sources

import (
	"context"
	"time"

	"tjrates-service/internal/domain"
	"tjrates-service/internal/scrape"
	"tjrates-service/internal/scrape/browser"
	"tjrates-service/internal/scrape/htmlx"
)

const ssbURL = "https://www.ssb.tj/ru/?type=1"

// SSB renders three parallel .main_block columns of <p> elements: currency
// codes, buy values, sell values, aligned by index.
type SSB struct {
	BaseURL  string
	Renderer browser.Renderer
}

var _ scrape.Source = (*SSB)(nil)

func NewSSB(r browser.Renderer) *SSB {
	return &SSB{BaseURL: ssbURL, Renderer: r}
}

func (s *SSB) Bank() scrape.BankInfo {
	return scrape.BankInfo{Name: "SSB", ShortName: "SSB", Website: "https://www.ssb.tj"}
}

func (s *SSB) Fetch(ctx context.Context) ([]scrape.RawRate, error) {
	html, err := s.Renderer.HTML(ctx, s.BaseURL, browser.WaitOptions{
		Selectors: []string{".main_block"},
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

	blocks := doc.Find(".main_block")
	if blocks.Length() < 3 {
		return nil, scrape.Formatf("ssb: expected 3 rate columns, got %d", blocks.Length())
	}

	column := func(i int) []string {
		ps := blocks.Eq(i).Find("p")
		vals := make([]string, 0, ps.Length())
		for j := 0; j < ps.Length(); j++ {
			vals = append(vals, htmlx.Text(ps.Eq(j)))
		}
		return vals
	}
	codes, buys, sells := column(0), column(1), column(2)

	var out []scrape.RawRate
	for i, code := range codes {
		if i >= len(buys) || i >= len(sells) {
			break
		}
		if _, ok := domain.ResolveCurrency(code); !ok {
			continue
		}
		out = append(out, scrape.RawRate{Label: code, Buy: buys[i], Sell: sells[i]})
	}
	if len(out) == 0 {
		return nil, scrape.Formatf("ssb: no currency rows matched")
	}
	return out, nil
}
