// Package trafilatura extracts the main content of a page with go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/sitemapgen"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements sitemapgen.Extractor at compile time.
var _ sitemapgen.Extractor = (*Extractor)(nil)

// Extractor drops navigation, footers and other boilerplate so summaries
// describe what a page is about rather than the site chrome around it.
type Extractor struct {
	opts trafilatura.Options
}

// Option configures an Extractor.
type Option func(*trafilatura.Options)

// WithoutFallback disables the readability and dom-distiller fallbacks that
// trafilatura tries when its own heuristics find too little content.
func WithoutFallback() Option {
	return func(o *trafilatura.Options) {
		o.EnableFallback = false
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	o := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Extractor{opts: o}
}

// Extract returns the title, main content HTML and its plain text.
func (e *Extractor) Extract(rawHTML string) (*sitemapgen.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, sitemapgen.Errorf(sitemapgen.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, sitemapgen.Errorf(sitemapgen.EINVALID, "extract content: %v", err)
	}

	res := &sitemapgen.ExtractResult{
		Title: result.Metadata.Title,
		Text:  strings.Join(strings.Fields(result.ContentText), " "),
	}
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
		res.ContentHTML = buf.String()
	}
	return res, nil
}
