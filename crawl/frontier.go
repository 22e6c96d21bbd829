package crawl

import (
	"github.com/fwojciec/sitemapgen"
	"github.com/fwojciec/sitemapgen/bloom"
)

// Compile-time interface verification.
var _ sitemapgen.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory FIFO crawl queue with a visited set.
// Addresses are marked visited when they are pushed, so no address is ever
// queued twice. A Bloom filter screens out most unseen addresses before
// the exact set is consulted.
//
// Frontier is not safe for concurrent use; a crawl owns exactly one.
type Frontier struct {
	filter *bloom.Filter
	seen   map[string]struct{}
	queue  []string
}

// NewFrontier creates a new Frontier sized for n expected URLs
// with the given false positive rate for the Bloom pre-check.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		filter: bloom.NewFilter(n, fpRate),
		seen:   make(map[string]struct{}),
	}
}

// Push enqueues url if it has never been seen and marks it seen.
// Returns false if the URL has already been seen.
func (f *Frontier) Push(url string) bool {
	if f.Seen(url) {
		return false
	}
	f.filter.Add(url)
	f.seen[url] = struct{}{}
	f.queue = append(f.queue, url)
	return true
}

// Pop returns the oldest queued URL.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (string, bool) {
	if len(f.queue) == 0 {
		return "", false
	}
	url := f.queue[0]
	f.queue[0] = ""
	f.queue = f.queue[1:]
	return url, true
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	return len(f.queue)
}

// Seen returns true if the URL has been processed or queued.
func (f *Frontier) Seen(url string) bool {
	if !f.filter.Test(url) {
		return false
	}
	_, ok := f.seen[url]
	return ok
}
