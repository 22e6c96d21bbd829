// Package readability extracts the main content of a page with go-readability.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/sitemapgen"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements sitemapgen.Extractor at compile time.
var _ sitemapgen.Extractor = (*Extractor)(nil)

// Extractor uses the Firefox Reader View heuristics.
type Extractor struct {
	pageURL *url.URL
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the title, main content HTML and its plain text.
func (e *Extractor) Extract(rawHTML string) (*sitemapgen.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, sitemapgen.Errorf(sitemapgen.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), e.pageURL)
	if err != nil {
		return nil, sitemapgen.Errorf(sitemapgen.EINVALID, "extract content: %v", err)
	}

	return &sitemapgen.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
		Text:        strings.Join(strings.Fields(article.TextContent), " "),
	}, nil
}
