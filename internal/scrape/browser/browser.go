// Package browser renders JavaScript-heavy bank pages with headless Chrome.
// Every call owns its own browser process: the allocator and tab are created
// per invocation and torn down on every exit path. A leaked browser process
// is a real resource leak, so nothing here shares or caches Chrome state.
package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"tjrates-service/internal/scrape"
)

// WaitOptions describe when a rendered page is considered ready: some element
// matching one of the candidate selectors must be present and, when Tokens is
// non-empty, contain at least one of the tokens.
type WaitOptions struct {
	Selectors []string
	Tokens    []string
	Timeout   time.Duration
}

// Renderer turns a URL into the rendered page HTML. Sources depend on this
// interface so tests can substitute canned HTML.
type Renderer interface {
	HTML(ctx context.Context, url string, opts WaitOptions) (string, error)
}

// Chrome is the chromedp-backed Renderer.
type Chrome struct {
	ExecPath  string // optional explicit chromium binary
	UserAgent string
}

var _ Renderer = (*Chrome)(nil)

const defaultWait = 30 * time.Second

func (c *Chrome) HTML(ctx context.Context, url string, opts WaitOptions) (out string, err error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultWait
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
	)
	if c.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(c.ExecPath))
	}
	if c.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(c.UserAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()
	tabCtx, cancelWait := context.WithTimeout(tabCtx, timeout)
	defer cancelWait()

	err = chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.Poll(readyExpr(opts.Selectors, opts.Tokens), nil,
			chromedp.WithPollingInterval(500*time.Millisecond)),
		chromedp.OuterHTML("html", &out),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, chromedp.ErrPollingTimeout) {
			return "", scrape.Timeoutf("render %s: no selector ready within %s", url, timeout)
		}
		return "", scrape.Transportf("render %s: %w", url, err)
	}
	return out, nil
}

// readyExpr builds the JS poll expression: true once any candidate selector
// matches an element whose text contains an allow-listed token.
func readyExpr(selectors, tokens []string) string {
	if selectors == nil {
		selectors = []string{}
	}
	if tokens == nil {
		tokens = []string{}
	}
	sels, _ := json.Marshal(selectors)
	toks, _ := json.Marshal(tokens)
	return fmt.Sprintf(`(() => {
		const sels = %s, toks = %s;
		for (const sel of sels) {
			for (const el of document.querySelectorAll(sel)) {
				const text = (el.textContent || '').toUpperCase();
				if (toks.length === 0 || toks.some(tok => text.includes(tok))) {
					return true;
				}
			}
		}
		return false;
	})()`, sels, toks)
}
