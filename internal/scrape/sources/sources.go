// Package sources contains one scraping adapter per bank. Each adapter bakes
// in its target URL and response shape and maps them to raw rates; all shape
// assumptions about a bank's site live in that bank's file and nowhere else.
package sources

import (
	"net/http"

	"tjrates-service/internal/scrape"
	"tjrates-service/internal/scrape/browser"
)

// waitTokens are the currency markers a rendered page must show before its
// HTML is considered ready.
var waitTokens = []string{"USD", "EUR", "RUB", "ДОЛЛАР", "ЕВРО"}

// Deps carries the shared collaborators adapters are built from. Browser
// sources get the Renderer; everything else shares one HTTP client.
type Deps struct {
	Client   *http.Client
	Renderer browser.Renderer
}

// All registers every adapter in the fixed aggregation order and returns
// them. A duplicate bank name panics; the list below is the single place
// adapters are added.
func All(d Deps) []scrape.Source {
	reg := scrape.NewRegistry()
	for _, src := range []scrape.Source{
		NewNBT(d.Client),
		NewEskhata(d.Client),
		NewArvand(d.Client),
		NewImon(d.Renderer),
		NewOriyonbonk(d.Client),
		NewAmonatbonk(d.Client),
		NewHumo(d.Client),
		NewAzizimoliya(d.Client),
		NewSpitamenbank(d.Renderer),
		NewBRT(d.Renderer),
		NewCBT(d.Client),
		NewFinca(d.Client),
		NewIBT(d.Client),
		NewMatin(d.Client),
		NewSSB(d.Renderer),
		NewTawhidbank(d.Renderer),
		NewTejaratbank(d.Client),
	} {
		if err := reg.Register(src); err != nil {
			panic(err)
		}
	}
	return reg.Sources()
}
