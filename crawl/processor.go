package crawl

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/sitemapgen"
)

// PageResult is the outcome of processing one address.
type PageResult struct {
	// Entry is nil when the page could not be fetched or parsed.
	Entry *sitemapgen.PageEntry

	// Issues describes recoverable problems met while processing.
	Issues []string

	// Links are canonical same-origin addresses found on the page,
	// de-duplicated in first-seen order.
	Links []string
}

// Processor fetches, parses and optionally summarizes a single page.
// It never touches crawl-wide state; the caller merges the PageResult.
type Processor struct {
	Fetcher       sitemapgen.Fetcher
	Parser        sitemapgen.Parser
	Canonicalizer *Canonicalizer

	// Extractor and Converter, when set, narrow the summarization input
	// to the page's main content rendered as markdown.
	Extractor sitemapgen.Extractor
	Converter sitemapgen.Converter

	// Summarization runs only when both Summarizer and SummaryModel are set.
	Summarizer   sitemapgen.Summarizer
	SummaryModel string
	SummaryCache sitemapgen.SummaryCache

	// RetryDelays are the fetch backoff delays. Nil selects
	// DefaultRetryDelays; an empty slice disables retries.
	RetryDelays []time.Duration

	// Logger receives fetch retry notices and summary cache failures.
	// Optional.
	Logger LogFunc
}

// Process handles one address.
func (p *Processor) Process(ctx context.Context, address string) PageResult {
	var result PageResult

	html, err := FetchWithRetryDelays(ctx, address, p.Fetcher.Fetch, p.Logger, p.retryDelays())
	if err != nil {
		result.Issues = append(result.Issues, fmt.Sprintf("Failed to fetch %s: %s", address, sitemapgen.ErrorDetail(err)))
		return result
	}

	doc, err := p.Parser.Parse(html)
	if err != nil {
		result.Issues = append(result.Issues, fmt.Sprintf("Failed to parse HTML for %s: %s", address, sitemapgen.ErrorDetail(err)))
		return result
	}

	entry := &sitemapgen.PageEntry{URL: address}
	if p.summarize() {
		summary, err := p.summarizePage(ctx, html, doc)
		if err != nil {
			result.Issues = append(result.Issues, fmt.Sprintf("Failed to summarize %s: %s", address, sitemapgen.ErrorDetail(err)))
		} else {
			entry.Summary = summary
		}
	}
	result.Entry = entry
	result.Links = p.links(address, doc)

	return result
}

func (p *Processor) retryDelays() []time.Duration {
	if p.RetryDelays == nil {
		return DefaultRetryDelays()
	}
	return p.RetryDelays
}

func (p *Processor) logf(format string, args ...any) {
	if p.Logger != nil {
		p.Logger(format, args...)
	}
}

func (p *Processor) summarize() bool {
	return p.Summarizer != nil && p.SummaryModel != ""
}

func (p *Processor) summarizePage(ctx context.Context, html string, doc sitemapgen.Document) (string, error) {
	text := p.pageText(html, doc)
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	if p.SummaryCache != nil {
		summary, ok, err := p.SummaryCache.Get(ctx, p.SummaryModel, text)
		if err != nil {
			p.logf("summary cache read failed: %v", err)
		} else if ok {
			return summary, nil
		}
	}

	summary, err := p.Summarizer.Summarize(ctx, p.SummaryModel, text)
	if err != nil {
		return "", err
	}
	summary = strings.TrimSpace(summary)

	if p.SummaryCache != nil && summary != "" {
		// Cache write failures are not page failures.
		if err := p.SummaryCache.Put(ctx, p.SummaryModel, text, summary); err != nil {
			p.logf("summary cache write failed: %v", err)
		}
	}
	return summary, nil
}

// pageText prefers extracted main content, then the whole page text.
func (p *Processor) pageText(html string, doc sitemapgen.Document) string {
	if p.Extractor != nil {
		if res, err := p.Extractor.Extract(html); err == nil && res != nil {
			if p.Converter != nil && strings.TrimSpace(res.ContentHTML) != "" {
				if md, err := p.Converter.Convert(res.ContentHTML); err == nil && strings.TrimSpace(md) != "" {
					return md
				}
			}
			if strings.TrimSpace(res.Text) != "" {
				return res.Text
			}
		}
	}
	return doc.Text()
}

func (p *Processor) links(address string, doc sitemapgen.Document) []string {
	base, err := url.Parse(address)
	if err != nil {
		base = nil
	}

	var links []string
	seen := make(map[string]struct{})
	for _, raw := range doc.Links() {
		link, ok := p.Canonicalizer.Canonicalize(base, raw)
		if !ok {
			continue
		}
		if _, dup := seen[link]; dup {
			continue
		}
		seen[link] = struct{}{}
		links = append(links, link)
	}
	return links
}
