package sources

import (
	"context"
	"net/http"

	"tjrates-service/internal/domain"
	"tjrates-service/internal/scrape"
	"tjrates-service/internal/scrape/htmlx"
)

const eskhataURL = "https://eskhata.com/"

// Eskhata renders its rates in a plain table on the landing page. The markup
// carries no usable classes, so every row is scanned: first cell is the
// currency (RUR for rubles), second buy, third sell. The first row per
// currency wins; later tables on the page repeat the data.
type Eskhata struct {
	BaseURL string
	Client  *http.Client
}

var _ scrape.Source = (*Eskhata)(nil)

func NewEskhata(client *http.Client) *Eskhata {
	return &Eskhata{BaseURL: eskhataURL, Client: client}
}

func (e *Eskhata) Bank() scrape.BankInfo {
	return scrape.BankInfo{Name: "Eskhata", ShortName: "ESK", Website: "https://eskhata.com"}
}

func (e *Eskhata) Fetch(ctx context.Context) ([]scrape.RawRate, error) {
	doc, err := htmlx.Get(ctx, e.Client, e.BaseURL)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []scrape.RawRate
	rows := doc.Find("tr")
	for i := 0; i < rows.Length() && len(seen) < 3; i++ {
		cells := rows.Eq(i).Find("td")
		if cells.Length() < 3 {
			continue
		}
		label := htmlx.Text(cells.Eq(0))
		code, ok := domain.ResolveCurrency(label)
		if !ok || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, scrape.RawRate{
			Label: label,
			Buy:   htmlx.Text(cells.Eq(1)),
			Sell:  htmlx.Text(cells.Eq(2)),
		})
	}
	if len(out) == 0 {
		return nil, scrape.Formatf("eskhata: no rate rows matched")
	}
	return out, nil
}
