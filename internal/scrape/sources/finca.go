package sources

import (
	"context"
	"net/http"

	"tjrates-service/internal/domain"
	"tjrates-service/internal/scrape"
	"tjrates-service/internal/scrape/htmlx"
)

const fincaURL = "https://finca.tj/"

type Finca struct {
	BaseURL string
	Client  *http.Client
}

var _ scrape.Source = (*Finca)(nil)

func NewFinca(client *http.Client) *Finca {
	return &Finca{BaseURL: fincaURL, Client: client}
}

func (f *Finca) Bank() scrape.BankInfo {
	return scrape.BankInfo{Name: "Finca", ShortName: "Finca", Website: "https://finca.tj"}
}

func (f *Finca) Fetch(ctx context.Context) ([]scrape.RawRate, error) {
	doc, err := htmlx.Get(ctx, f.Client, f.BaseURL)
	if err != nil {
		return nil, err
	}

	table := htmlx.FirstMatch(doc, "div.finca-table-rate table", "div.finca-table-rate")
	if table == nil {
		return nil, scrape.Formatf("finca: rate table not found")
	}

	var out []scrape.RawRate
	rows := table.Find("tr")
	for i := 0; i < rows.Length(); i++ {
		cells := rows.Eq(i).Find("td")
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
		return nil, scrape.Formatf("finca: no currency rows matched")
	}
	return out, nil
}
