// Package crawl provides single-site crawling orchestration.
// It coordinates URL canonicalization, the crawl frontier, per-page
// fetching, parsing and summarization, and aggregation of the results
// into a site map.
package crawl

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/sitemapgen"
	"github.com/fwojciec/sitemapgen/etree"
	"github.com/fwojciec/sitemapgen/goquery"
	"github.com/fwojciec/sitemapgen/http"
)

// Frontier sizing for the Bloom pre-check.
const (
	frontierExpectedURLs      = 100_000
	frontierFalsePositiveRate = 0.01
)

// Status describes how a crawl ended.
type Status int

const (
	// StatusDone means every reachable page was processed.
	StatusDone Status = iota
	// StatusCancelled means the context was cancelled mid-crawl.
	StatusCancelled
	// StatusLimited means the crawl stopped at Options.MaxPages.
	StatusLimited
)

func (s Status) String() string {
	switch s {
	case StatusDone:
		return "done"
	case StatusCancelled:
		return "cancelled"
	case StatusLimited:
		return "limited"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result holds the outcome of a crawl. A cancelled or limited crawl still
// yields a valid, partial Result.
type Result struct {
	SiteMap *sitemapgen.SiteMap
	Issues  *sitemapgen.IssueLog
	Status  Status

	// Pages is the number of addresses taken from the frontier.
	Pages int
}

// XML serializes the site map. It is recomputed on every call.
func (r *Result) XML() (string, error) {
	return etree.MarshalSiteMap(r.SiteMap)
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Queued    int
	URL       string
	Issues    []string
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// Options configures a Generator.
type Options struct {
	// RootURL is the absolute http or https address the crawl starts from.
	RootURL string

	// Fetcher retrieves pages. When nil the Generator creates an HTTP
	// fetcher and closes it on Close.
	Fetcher sitemapgen.Fetcher

	// Parser defaults to the goquery parser.
	Parser sitemapgen.Parser

	Extractor sitemapgen.Extractor
	Converter sitemapgen.Converter

	// Summarizer and SummaryModel together enable page summaries.
	Summarizer   sitemapgen.Summarizer
	SummaryModel string
	SummaryCache sitemapgen.SummaryCache

	// Filter excludes addresses from the crawl. The root itself is
	// always crawled.
	Filter *sitemapgen.URLFilter

	// Sitemaps, when set, seeds the frontier with the site's published
	// sitemap after the root.
	Sitemaps sitemapgen.SitemapService

	// MaxPages caps the number of pages processed. Zero means no cap.
	MaxPages int

	// RetryDelays are passed to the Processor.
	RetryDelays []time.Duration

	Progress ProgressFunc
	Logger   LogFunc
}

// Generator crawls one site and builds its site map.
type Generator struct {
	canon      *Canonicalizer
	processor  *Processor
	sitemaps   sitemapgen.SitemapService
	filter     *sitemapgen.URLFilter
	maxPages   int
	progress   ProgressFunc
	ownFetcher sitemapgen.Fetcher
	closed     bool
}

// NewGenerator validates opts and returns a Generator ready to crawl.
// Configuration problems are reported as EINVALID errors.
func NewGenerator(opts Options) (*Generator, error) {
	canon, err := NewCanonicalizer(opts.RootURL, opts.Filter)
	if err != nil {
		return nil, err
	}
	if opts.MaxPages < 0 {
		return nil, sitemapgen.Errorf(sitemapgen.EINVALID, "max pages must not be negative: %d", opts.MaxPages)
	}

	g := &Generator{
		canon:    canon,
		sitemaps: opts.Sitemaps,
		filter:   opts.Filter,
		maxPages: opts.MaxPages,
		progress: opts.Progress,
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = http.NewFetcher()
		g.ownFetcher = fetcher
	}
	parser := opts.Parser
	if parser == nil {
		parser = goquery.NewParser()
	}

	g.processor = &Processor{
		Fetcher:       fetcher,
		Parser:        parser,
		Canonicalizer: canon,
		Extractor:     opts.Extractor,
		Converter:     opts.Converter,
		Summarizer:    opts.Summarizer,
		SummaryModel:  opts.SummaryModel,
		SummaryCache:  opts.SummaryCache,
		RetryDelays:   opts.RetryDelays,
		Logger:        opts.Logger,
	}
	return g, nil
}

// Root returns the canonical root address.
func (g *Generator) Root() string {
	return g.canon.Root()
}

// Generate crawls the site breadth-first from the root. Page failures are
// recorded as issues. Cancellation of ctx ends the crawl with
// StatusCancelled and the pages processed so far; it is not an error.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	if g.closed {
		return nil, sitemapgen.Errorf(sitemapgen.EINVALID, "generator is closed")
	}

	result := &Result{
		SiteMap: sitemapgen.NewSiteMap(),
		Issues:  sitemapgen.NewIssueLog(),
		Status:  StatusDone,
	}

	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	frontier.Push(g.canon.Root())
	if g.sitemaps != nil {
		g.seed(ctx, frontier, result.Issues)
	}

	g.notify(ProgressEvent{Type: ProgressStarted, Queued: frontier.Len()})

	for frontier.Len() > 0 {
		if ctx.Err() != nil {
			result.Status = StatusCancelled
			break
		}
		if g.maxPages > 0 && result.Pages >= g.maxPages {
			result.Status = StatusLimited
			break
		}

		address, _ := frontier.Pop()
		page := g.processor.Process(ctx, address)
		result.Pages++

		result.Issues.Add(page.Issues...)
		if page.Entry != nil {
			result.SiteMap.Add(*page.Entry)
		}
		for _, link := range page.Links {
			frontier.Push(link)
		}

		event := ProgressEvent{
			Type:      ProgressCompleted,
			Completed: result.Pages,
			Queued:    frontier.Len(),
			URL:       address,
			Issues:    page.Issues,
		}
		if page.Entry == nil {
			event.Type = ProgressFailed
		}
		g.notify(event)
	}

	g.notify(ProgressEvent{Type: ProgressFinished, Completed: result.Pages, Queued: frontier.Len()})
	return result, nil
}

// seed offers the addresses of the site's published sitemap to the
// frontier. Discovery failure is recorded as an issue.
func (g *Generator) seed(ctx context.Context, frontier *Frontier, issues *sitemapgen.IssueLog) {
	root := g.canon.Root()
	urls, err := g.sitemaps.DiscoverURLs(ctx, root, g.filter)
	if err != nil {
		issues.Add(fmt.Sprintf("Failed to read sitemap for %s: %s", root, sitemapgen.ErrorDetail(err)))
		return
	}
	for _, raw := range urls {
		if link, ok := g.canon.Canonicalize(nil, raw); ok {
			frontier.Push(link)
		}
	}
}

func (g *Generator) notify(event ProgressEvent) {
	if g.progress != nil {
		g.progress(event)
	}
}

// Close releases the fetcher if the Generator created it. A fetcher
// supplied through Options is left open for its owner.
func (g *Generator) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true
	if g.ownFetcher != nil {
		return g.ownFetcher.Close()
	}
	return nil
}
