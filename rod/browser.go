// Package rod provides a sitemapgen.Fetcher that renders pages in headless Chrome.
package rod

import (
	"fmt"
	"sync"

	"github.com/fwojciec/sitemapgen"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultRecycleAfter is the default number of pages rendered before the
// browser process is replaced.
const DefaultRecycleAfter = 75

// Browser owns a headless Chrome process and replaces it after a fixed
// number of pages, since Chrome memory use grows with every page rendered.
//
// Browser is safe for concurrent use.
type Browser struct {
	mu           sync.Mutex
	browser      *rod.Browser
	launcher     *launcher.Launcher
	rendered     int
	recycleAfter int
	closed       bool
}

// BrowserOption configures a Browser.
type BrowserOption func(*Browser)

// WithRecycleAfter sets how many pages are rendered before the browser
// process is replaced. Values below one disable recycling.
func WithRecycleAfter(n int) BrowserOption {
	return func(b *Browser) {
		b.recycleAfter = n
	}
}

// NewBrowser launches headless Chrome. Close must be called when the Browser
// is no longer needed.
func NewBrowser(opts ...BrowserOption) (*Browser, error) {
	b := &Browser{recycleAfter: DefaultRecycleAfter}
	for _, opt := range opts {
		opt(b)
	}

	browser, l, err := launch()
	if err != nil {
		return nil, err
	}
	b.browser, b.launcher = browser, l
	return b, nil
}

// acquire returns the browser to render the next page with, replacing the
// process first when the recycle threshold has been reached.
func (b *Browser) acquire() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, sitemapgen.Errorf(sitemapgen.EINVALID, "browser is closed")
	}

	if b.recycleAfter > 0 && b.rendered >= b.recycleAfter {
		// Keep the running browser if a replacement cannot be started.
		if browser, l, err := launch(); err == nil {
			_ = b.browser.Close()
			b.launcher.Kill()
			b.browser, b.launcher = browser, l
			b.rendered = 0
		}
	}

	b.rendered++
	return b.browser, nil
}

// Close shuts down the browser process. Close is safe to call multiple times.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	err := b.browser.Close()
	b.launcher.Kill()
	return err
}

func launch() (*rod.Browser, *launcher.Launcher, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return browser, l, nil
}
