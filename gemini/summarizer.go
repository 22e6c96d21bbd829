// Package gemini implements page summarization with Google Gemini.
package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/sitemapgen"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// DefaultModel is the model used when the caller does not name one.
const DefaultModel = "gemini-2.5-flash"

// DefaultMaxInputTokens bounds the page text sent per request.
const DefaultMaxInputTokens = 32_000

// Ensure Summarizer implements sitemapgen.Summarizer at compile time.
var _ sitemapgen.Summarizer = (*Summarizer)(nil)

// Summarizer implements sitemapgen.Summarizer using Google Gemini.
type Summarizer struct {
	client         *genai.Client
	tokens         sitemapgen.TokenCounter
	maxInputTokens int
	limiter        *rate.Limiter
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithTokenCounter enables truncation of page text to the input budget.
func WithTokenCounter(tc sitemapgen.TokenCounter) Option {
	return func(s *Summarizer) {
		s.tokens = tc
	}
}

// WithMaxInputTokens sets the input budget enforced with the TokenCounter.
func WithMaxInputTokens(n int) Option {
	return func(s *Summarizer) {
		s.maxInputTokens = n
	}
}

// WithRateLimit caps API requests per second. A non-positive rps removes
// the cap.
func WithRateLimit(rps float64) Option {
	return func(s *Summarizer) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewSummarizer creates a new Summarizer.
func NewSummarizer(client *genai.Client, opts ...Option) *Summarizer {
	s := &Summarizer{
		client:         client,
		maxInputTokens: DefaultMaxInputTokens,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize asks model for a one or two sentence summary of text.
func (s *Summarizer) Summarize(ctx context.Context, model, text string) (string, error) {
	if model == "" {
		return "", sitemapgen.Errorf(sitemapgen.EINVALID, "model required")
	}
	if strings.TrimSpace(text) == "" {
		return "", sitemapgen.Errorf(sitemapgen.EINVALID, "text required")
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	if s.tokens != nil && s.maxInputTokens > 0 {
		truncated, err := TruncateToTokens(ctx, s.tokens, text, s.maxInputTokens)
		if err != nil {
			return "", err
		}
		text = truncated
	}

	result, err := s.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: BuildUserPrompt(text)}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", sitemapgen.Errorf(sitemapgen.EINTERNAL, "gemini returned nil result")
	}

	summary := strings.TrimSpace(result.Text())
	if summary == "" {
		return "", sitemapgen.Errorf(sitemapgen.EINTERNAL, "gemini returned an empty summary")
	}
	return summary, nil
}

// BuildConfig returns the GenerateContentConfig for summary requests.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You write entries for a website sitemap. Summarize the web page you are given in one or two plain sentences describing what a visitor will find there. Do not use markdown, lists, or quotation marks.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt wraps page text for a summary request.
func BuildUserPrompt(text string) string {
	var sb strings.Builder
	sb.WriteString("<page>\n")
	sb.WriteString(text)
	sb.WriteString("\n</page>\n\nSummary:")
	return sb.String()
}

// TruncateToTokens shortens text until counter reports at most max tokens.
// Text within budget is returned unchanged. When no non-blank prefix fits
// the budget the error is EINVALID.
func TruncateToTokens(ctx context.Context, counter sitemapgen.TokenCounter, text string, max int) (string, error) {
	n, err := counter.CountTokens(ctx, text)
	if err != nil {
		return "", err
	}
	if n <= max {
		return text, nil
	}

	runes := []rune(text)
	keep := len(runes) * max / n
	for keep > 0 {
		candidate := string(runes[:keep])
		n, err := counter.CountTokens(ctx, candidate)
		if err != nil {
			return "", err
		}
		if n <= max && strings.TrimSpace(candidate) != "" {
			return candidate, nil
		}
		keep = keep * 9 / 10
	}
	return "", sitemapgen.Errorf(sitemapgen.EINVALID, "no prefix of the text fits %d tokens", max)
}
