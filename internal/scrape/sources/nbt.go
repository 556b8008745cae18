package sources

import (
	"context"
	"net/http"

	"tjrates-service/internal/domain"
	"tjrates-service/internal/scrape"
	"tjrates-service/internal/scrape/htmlx"
)

const nbtURL = "https://nbt.tj/ru/kurs/kurs.php"

// NBT is the national bank. Its page carries one official rate per currency
// (column 4 is the localized name, column 5 the rate), so buy and sell are
// recorded as the same value.
type NBT struct {
	BaseURL string
	Client  *http.Client
}

var _ scrape.Source = (*NBT)(nil)

func NewNBT(client *http.Client) *NBT {
	return &NBT{BaseURL: nbtURL, Client: client}
}

func (n *NBT) Bank() scrape.BankInfo {
	return scrape.BankInfo{Name: "NBT", ShortName: "NBT", Website: "https://nbt.tj"}
}

func (n *NBT) Fetch(ctx context.Context) ([]scrape.RawRate, error) {
	doc, err := htmlx.Get(ctx, n.Client, n.BaseURL)
	if err != nil {
		return nil, err
	}

	table := htmlx.FirstMatch(doc, "tbody.new__rate__nbt-table", "table tbody")
	if table == nil {
		return nil, scrape.Formatf("nbt: rate table not found")
	}

	var out []scrape.RawRate
	rows := table.Find("tr")
	for i := 0; i < rows.Length(); i++ {
		cells := rows.Eq(i).Find("td")
		if cells.Length() < 5 {
			continue
		}
		name := htmlx.Text(cells.Eq(3))
		rate := htmlx.Text(cells.Eq(4))
		if _, ok := domain.ResolveCurrency(name); !ok {
			continue
		}
		out = append(out, scrape.RawRate{Label: name, Buy: rate, Sell: rate})
	}
	if len(out) == 0 {
		return nil, scrape.Formatf("nbt: no tracked currencies in table")
	}
	return out, nil
}
