package mock

import (
	"context"

	"github.com/fwojciec/sitemapgen"
)

var (
	_ sitemapgen.Summarizer   = (*Summarizer)(nil)
	_ sitemapgen.SummaryCache = (*SummaryCache)(nil)
)

// Summarizer is a mock implementation of sitemapgen.Summarizer.
type Summarizer struct {
	SummarizeFn func(ctx context.Context, model, text string) (string, error)
}

func (s *Summarizer) Summarize(ctx context.Context, model, text string) (string, error) {
	return s.SummarizeFn(ctx, model, text)
}

// SummaryCache is a mock implementation of sitemapgen.SummaryCache.
type SummaryCache struct {
	GetFn func(ctx context.Context, model, text string) (string, bool, error)
	PutFn func(ctx context.Context, model, text, summary string) error
}

func (c *SummaryCache) Get(ctx context.Context, model, text string) (string, bool, error) {
	return c.GetFn(ctx, model, text)
}

func (c *SummaryCache) Put(ctx context.Context, model, text, summary string) error {
	return c.PutFn(ctx, model, text, summary)
}
