package sitemapgen

import "context"

// Fetcher retrieves the HTML of a page.
type Fetcher interface {
	// Fetch retrieves the body of the page at url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases transport resources held by the Fetcher.
	Close() error
}
