package types

import (
	"context"
)

// CompletionOptions are the generation knobs forwarded to the model provider.
type CompletionOptions struct {
	MaxOutputTokens int
	NumCompletions  int
	StopSequences   []string
	Temperature     float64
}

// Core interfaces
type ModelClient interface {
	Completion(ctx context.Context, prompt string, model string, opts CompletionOptions) (string, error)
	Embedding(ctx context.Context, input string, model string) ([]float32, error)
}

type TextExtractor interface {
	Extract(html string) (string, error)
}

type PageRenderer interface {
	Render(ctx context.Context, url string, options map[string]string) (string, error)
}
