package sources

import (
	"context"
	"net/http"
	"strings"

	"tjrates-service/internal/domain"
	"tjrates-service/internal/scrape"
	"tjrates-service/internal/scrape/htmlx"
)

const cbtURL = "https://cbt.tj/"

// CBT labels its cash table rows with bare currency symbols; the first token
// of the first cell is $ / € / ₽.
type CBT struct {
	BaseURL string
	Client  *http.Client
}

var _ scrape.Source = (*CBT)(nil)

func NewCBT(client *http.Client) *CBT {
	return &CBT{BaseURL: cbtURL, Client: client}
}

func (c *CBT) Bank() scrape.BankInfo {
	return scrape.BankInfo{Name: "CBT", ShortName: "CBT", Website: "https://cbt.tj"}
}

func (c *CBT) Fetch(ctx context.Context) ([]scrape.RawRate, error) {
	doc, err := htmlx.Get(ctx, c.Client, c.BaseURL)
	if err != nil {
		return nil, err
	}

	table := htmlx.FirstMatch(doc, "table#CASH")
	if table == nil {
		return nil, scrape.Formatf("cbt: CASH table not found")
	}

	var out []scrape.RawRate
	rows := table.Find("tbody tr")
	for i := 0; i < rows.Length(); i++ {
		cells := rows.Eq(i).Find("td")
		if cells.Length() < 3 {
			continue
		}
		fields := strings.Fields(htmlx.Text(cells.Eq(0)))
		if len(fields) == 0 {
			continue
		}
		symbol := fields[0]
		if _, ok := domain.ResolveCurrency(symbol); !ok {
			continue
		}
		out = append(out, scrape.RawRate{
			Label: symbol,
			Buy:   htmlx.Text(cells.Eq(1)),
			Sell:  htmlx.Text(cells.Eq(2)),
		})
	}
	if len(out) == 0 {
		return nil, scrape.Formatf("cbt: no symbol rows matched")
	}
	return out, nil
}
