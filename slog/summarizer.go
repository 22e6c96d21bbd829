package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitemapgen"
)

var (
	_ sitemapgen.Summarizer   = (*LoggingSummarizer)(nil)
	_ sitemapgen.SummaryCache = (*LoggingSummaryCache)(nil)
)

// LoggingSummarizer wraps a Summarizer with logging.
type LoggingSummarizer struct {
	next   sitemapgen.Summarizer
	logger *slog.Logger
}

// NewLoggingSummarizer creates a new LoggingSummarizer.
func NewLoggingSummarizer(next sitemapgen.Summarizer, logger *slog.Logger) *LoggingSummarizer {
	return &LoggingSummarizer{next: next, logger: logger}
}

// Summarize delegates to the wrapped summarizer and logs input and output sizes.
func (s *LoggingSummarizer) Summarize(ctx context.Context, model, text string) (summary string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("summarize",
			"model", model,
			"input_bytes", len(text),
			"summary_bytes", len(summary),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Summarize(ctx, model, text)
}

// LoggingSummaryCache wraps a SummaryCache with debug logging of hits and misses.
type LoggingSummaryCache struct {
	next   sitemapgen.SummaryCache
	logger *slog.Logger
}

// NewLoggingSummaryCache creates a new LoggingSummaryCache.
func NewLoggingSummaryCache(next sitemapgen.SummaryCache, logger *slog.Logger) *LoggingSummaryCache {
	return &LoggingSummaryCache{next: next, logger: logger}
}

// Get delegates to the wrapped cache.
func (c *LoggingSummaryCache) Get(ctx context.Context, model, text string) (summary string, ok bool, err error) {
	defer func() {
		c.logger.Debug("summary cache lookup",
			"model", model,
			"hit", ok,
			"err", err,
		)
	}()
	return c.next.Get(ctx, model, text)
}

// Put delegates to the wrapped cache.
func (c *LoggingSummaryCache) Put(ctx context.Context, model, text, summary string) (err error) {
	defer func() {
		if err != nil {
			c.logger.Warn("summary cache store", "model", model, "err", err)
		}
	}()
	return c.next.Put(ctx, model, text, summary)
}
