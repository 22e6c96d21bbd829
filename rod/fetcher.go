package rod

import (
	"context"
	"time"

	"github.com/fwojciec/sitemapgen"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Fetcher implements sitemapgen.Fetcher at compile time.
var _ sitemapgen.Fetcher = (*Fetcher)(nil)

// DefaultFetchTimeout bounds a single page render.
const DefaultFetchTimeout = 10 * time.Second

// Fetcher retrieves rendered HTML, so links inserted by scripts are visible
// to the crawler.
type Fetcher struct {
	browser *Browser
	timeout time.Duration
	opts    []BrowserOption
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page render timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithBrowserOptions passes options to the underlying Browser.
func WithBrowserOptions(opts ...BrowserOption) Option {
	return func(f *Fetcher) {
		f.opts = append(f.opts, opts...)
	}
}

// NewFetcher launches a browser and returns a Fetcher that renders with it.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}

	b, err := NewBrowser(f.opts...)
	if err != nil {
		return nil, err
	}
	f.browser = b
	return f, nil
}

// Fetch navigates to url, waits for the load event and returns the DOM.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browser, err := f.browser.acquire()
	if err != nil {
		return "", err
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	p := page.Context(ctx).Timeout(f.timeout)
	if err := p.Navigate(url); err != nil {
		return "", err
	}
	if err := p.WaitLoad(); err != nil {
		return "", err
	}
	return p.HTML()
}

// Close shuts down the browser.
func (f *Fetcher) Close() error {
	return f.browser.Close()
}
