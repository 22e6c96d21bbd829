package sitemapgen

import "context"

// Summarizer produces a short natural-language summary of page text.
type Summarizer interface {
	// Summarize asks model for a summary of text.
	Summarize(ctx context.Context, model, text string) (string, error)
}

// SummaryCache stores summaries keyed by model and input text so repeated
// crawls of unchanged pages avoid new model requests.
type SummaryCache interface {
	// Get returns the cached summary. The bool result is false on a miss.
	Get(ctx context.Context, model, text string) (string, bool, error)

	// Put stores summary for model and text, replacing any previous value.
	Put(ctx context.Context, model, text, summary string) error
}

// TokenCounter counts tokens in text for a specific model.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
