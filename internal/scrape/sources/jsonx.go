package sources

import (
	"context"
	"encoding/json"
	"net/http"

	"tjrates-service/internal/scrape"
)

// flexString decodes a JSON field that banks serve inconsistently as either
// a string or a bare number, keeping the exact decimal text.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(b)
	return nil
}

// getJSON fetches a URL and decodes the body. Network and non-2xx failures
// are transport errors, an undecodable body is a format error.
func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return scrape.Transportf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return scrape.Transportf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return scrape.Transportf("get %s: status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return scrape.Formatf("decode %s: %w", url, err)
	}
	return nil
}
