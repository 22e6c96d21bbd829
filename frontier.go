package sitemapgen

// URLFrontier tracks the addresses of a crawl: the set of addresses ever
// seen and the queue of those still waiting to be processed.
type URLFrontier interface {
	// Push enqueues url unless it has been seen before, and marks it seen.
	// Returns false if the URL has already been seen.
	Push(url string) bool

	// Pop returns the oldest queued URL.
	// Returns false if the frontier is empty.
	Pop() (string, bool)

	// Len returns the number of URLs in the queue.
	Len() int

	// Seen returns true if the URL has been processed or queued.
	Seen(url string) bool
}
