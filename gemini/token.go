package gemini

import (
	"context"

	"github.com/fwojciec/sitemapgen"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

// FallbackTokenizerModel is a model the local tokenizer supports. Its
// vocabulary approximates newer models that it does not know.
const FallbackTokenizerModel = "gemini-2.0-flash"

var _ sitemapgen.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts tokens locally using the Gemini tokenizer.
type TokenCounter struct {
	tok   *tokenizer.LocalTokenizer
	model string
}

// NewTokenCounter creates a new TokenCounter for the given model.
func NewTokenCounter(model string) (*TokenCounter, error) {
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, err
	}
	return &TokenCounter{tok: tok, model: model}, nil
}

// NewApproximateTokenCounter returns a TokenCounter for model, or for
// FallbackTokenizerModel when the local tokenizer does not support model.
func NewApproximateTokenCounter(model string) (*TokenCounter, error) {
	if tc, err := NewTokenCounter(model); err == nil {
		return tc, nil
	}
	return NewTokenCounter(FallbackTokenizerModel)
}

// Model returns the name of the model whose vocabulary is used.
func (tc *TokenCounter) Model() string {
	return tc.model
}

// CountTokens counts the number of tokens in the given text.
func (tc *TokenCounter) CountTokens(_ context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}

	contents := []*genai.Content{
		genai.NewContentFromText(text, "user"),
	}

	result, err := tc.tok.CountTokens(contents, nil)
	if err != nil {
		return 0, err
	}

	return int(result.TotalTokens), nil
}
