package sources

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"tjrates-service/internal/domain"
	"tjrates-service/internal/scrape"
	"tjrates-service/internal/scrape/browser"
	"tjrates-service/internal/scrape/htmlx"
)

const brtURL = "https://www.brt.tj/"

// brtTableSelectors is the prioritized list of places BRT has rendered its
// rate table across site revisions.
var brtTableSelectors = []string{
	`table[aria-live='polite']`,
	"table.table",
	".currency-table",
	`table[class*="currency"]`,
	`table[class*="exchange"]`,
	`table[class*="rate"]`,
}

// brtHeaderWords mark header rows to skip when walking table rows.
var brtHeaderWords = []string{"ВАЛЮТА", "CURRENCY", "АСЪОР", "КОД"}

type BRT struct {
	BaseURL  string
	Renderer browser.Renderer
}

var _ scrape.Source = (*BRT)(nil)

func NewBRT(r browser.Renderer) *BRT {
	return &BRT{BaseURL: brtURL, Renderer: r}
}

func (b *BRT) Bank() scrape.BankInfo {
	return scrape.BankInfo{Name: "BRT", ShortName: "BRT", Website: "https://www.brt.tj"}
}

func (b *BRT) Fetch(ctx context.Context) ([]scrape.RawRate, error) {
	html, err := b.Renderer.HTML(ctx, b.BaseURL, browser.WaitOptions{
		Selectors: append(append([]string{}, brtTableSelectors...), "table"),
		Tokens:    waitTokens,
		Timeout:   45 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	doc, err := htmlx.Parse(html)
	if err != nil {
		return nil, err
	}

	table := htmlx.FirstMatch(doc, brtTableSelectors...)
	if table == nil {
		table = b.tableWithTokens(doc)
	}
	if table == nil {
		return nil, scrape.Formatf("brt: rate table not found")
	}

	var out []scrape.RawRate
	rows := table.Find("tr")
	for i := 0; i < rows.Length(); i++ {
		row := rows.Eq(i)
		if isBRTHeader(row) {
			continue
		}
		cells := row.Find("td")
		if cells.Length() < 3 {
			continue
		}
		label := htmlx.Text(cells.Eq(0))
		if _, ok := domain.ResolveCurrency(label); !ok {
			continue
		}
		out = append(out, scrape.RawRate{
			Label: label,
			Buy:   htmlx.Text(cells.Eq(1)),
			Sell:  htmlx.Text(cells.Eq(2)),
		})
	}
	if len(out) == 0 {
		return nil, scrape.Formatf("brt: no currency rows matched")
	}
	return out, nil
}

// tableWithTokens falls back to the first table whose text mentions one of
// the tracked currency tokens.
func (b *BRT) tableWithTokens(doc *goquery.Document) *goquery.Selection {
	tables := doc.Find("table")
	for i := 0; i < tables.Length(); i++ {
		text := strings.ToUpper(tables.Eq(i).Text())
		for _, tok := range waitTokens {
			if strings.Contains(text, tok) {
				return tables.Eq(i)
			}
		}
	}
	return nil
}

func isBRTHeader(row *goquery.Selection) bool {
	text := strings.ToUpper(row.Text())
	for _, w := range brtHeaderWords {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
