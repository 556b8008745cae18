package sources

import (
	"context"
	"net/http"

	"tjrates-service/internal/domain"
	"tjrates-service/internal/scrape"
	"tjrates-service/internal/scrape/htmlx"
)

const ibtURL = "https://www.ibt.tj/"

// IBT renders its cash table either inside div#ibt or as the first
// table.table.mb-0 on the page, with the currency code in a th cell.
type IBT struct {
	BaseURL string
	Client  *http.Client
}

var _ scrape.Source = (*IBT)(nil)

func NewIBT(client *http.Client) *IBT {
	return &IBT{BaseURL: ibtURL, Client: client}
}

func (b *IBT) Bank() scrape.BankInfo {
	return scrape.BankInfo{Name: "IBT", ShortName: "IBT", Website: "https://www.ibt.tj"}
}

func (b *IBT) Fetch(ctx context.Context) ([]scrape.RawRate, error) {
	doc, err := htmlx.Get(ctx, b.Client, b.BaseURL)
	if err != nil {
		return nil, err
	}

	table := htmlx.FirstMatch(doc, "div#ibt table", "table.table.mb-0")
	if table == nil {
		return nil, scrape.Formatf("ibt: rate table not found")
	}

	var out []scrape.RawRate
	rows := table.Find("tr")
	for i := 0; i < rows.Length(); i++ {
		row := rows.Eq(i)
		label := htmlx.Text(row.Find("th").First())
		if label == "" {
			continue
		}
		if _, ok := domain.ResolveCurrency(label); !ok {
			continue
		}
		cells := row.Find("td")
		if cells.Length() < 2 {
			continue
		}
		out = append(out, scrape.RawRate{
			Label: label,
			Buy:   htmlx.Text(cells.Eq(0)),
			Sell:  htmlx.Text(cells.Eq(1)),
		})
	}
	if len(out) == 0 {
		return nil, scrape.Formatf("ibt: no currency rows matched")
	}
	return out, nil
}
