package pipeline

import (
	"log/slog"

	"github.com/xhad/qagen/internal/types"
	"github.com/xhad/qagen/pkg/chunker"
)

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithTokenizer overrides the tokenizer derived from the configuration.
func WithTokenizer(tokenizer chunker.Tokenizer) Option {
	return func(p *Pipeline) error {
		p.tokenizer = tokenizer
		return nil
	}
}

func WithExtractor(extractor types.TextExtractor) Option {
	return func(p *Pipeline) error {
		if extractor == nil {
			return ErrExtractorRequired
		}
		p.extractor = extractor
		return nil
	}
}

// WithRenderer overrides the renderer chosen from the screenshot configuration.
// A nil renderer disables FromURLs.
func WithRenderer(renderer types.PageRenderer) Option {
	return func(p *Pipeline) error {
		p.renderer = renderer
		return nil
	}
}

// WithConcurrency sets how many documents are processed at once.
// Values below 1 are treated as 1.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) error {
		if n < 1 {
			n = 1
		}
		p.concurrency = n
		return nil
	}
}

// WithProgress registers a callback invoked once per finished document.
// Calls are serialized.
func WithProgress(fn func(DocumentOutcome)) Option {
	return func(p *Pipeline) error {
		p.progress = fn
		return nil
	}
}
