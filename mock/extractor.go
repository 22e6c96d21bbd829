package mock

import "github.com/fwojciec/sitemapgen"

var _ sitemapgen.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of sitemapgen.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*sitemapgen.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*sitemapgen.ExtractResult, error) {
	return e.ExtractFn(html)
}
