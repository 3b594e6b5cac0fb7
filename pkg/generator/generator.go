package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/xhad/qagen/internal/models"
	"github.com/xhad/qagen/internal/types"
)

var ErrModelClientRequired = errors.New("model client required")

type Config struct {
	Model            string
	Options          types.CompletionOptions
	PromptRefinement string
	Verbose          bool
}

// Generator turns chunks of text into question/answer pairs with one completion call per chunk.
type Generator struct {
	client types.ModelClient
	config Config
	logger *slog.Logger
}

// Result is the outcome of one chunk. Err is nil on success; Pairs is empty on failure.
type Result struct {
	Index int
	Pairs []models.QAPair
	Err   error
}

func (r Result) OK() bool {
	return r.Err == nil
}

func New(client types.ModelClient, config Config, logger *slog.Logger) (*Generator, error) {
	if client == nil {
		return nil, ErrModelClientRequired
	}
	if logger == nil {
		logger = slog.Default()
	}

	stop := make([]string, len(config.Options.StopSequences))
	copy(stop, config.Options.StopSequences)
	config.Options.StopSequences = stop

	return &Generator{
		client: client,
		config: config,
		logger: logger.With("component", "generator"),
	}, nil
}

// Process runs one chunk through prompt, completion, sanitation and parsing.
// Every pair is tagged with sourceURL when it is non-empty. Failures are logged and returned in Result.Err.
func (g *Generator) Process(ctx context.Context, chunk models.TextChunk, sourceURL string) Result {
	result := Result{Index: chunk.Index}

	pairs, err := g.process(ctx, chunk)
	if err != nil {
		g.logger.Warn("chunk produced no pairs", "chunk", chunk.Index, "url", sourceURL, "err", err)
		result.Err = err
		return result
	}

	if sourceURL != "" {
		for i := range pairs {
			pairs[i].SourceURL = sourceURL
		}
	}

	result.Pairs = pairs
	return result
}

// Generate is Process without the error: a failed chunk yields no pairs.
func (g *Generator) Generate(ctx context.Context, chunk models.TextChunk, sourceURL string) []models.QAPair {
	return g.Process(ctx, chunk, sourceURL).Pairs
}

func (g *Generator) process(ctx context.Context, chunk models.TextChunk) ([]models.QAPair, error) {
	prompt, err := BuildPrompt(chunk.Text, g.config.PromptRefinement)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	if g.config.Verbose {
		g.logger.Debug("chunk", "chunk", chunk.Index, "tokens", chunk.TokenCount(), "text", chunk.Text)
	}

	completion, err := g.client.Completion(ctx, prompt, g.config.Model, g.config.Options)
	if err != nil {
		return nil, err
	}

	sanitized := Sanitize(completion)
	if g.config.Verbose {
		g.logger.Debug("completion", "chunk", chunk.Index, "raw", completion, "sanitized", sanitized)
	}

	pairs, err := ParsePairs(sanitized)
	if err != nil {
		return nil, &types.ParseError{Raw: completion, Err: err}
	}

	if g.config.Verbose {
		g.logger.Debug("parsed pairs", "chunk", chunk.Index, "pairs", pairs)
	}

	return pairs, nil
}
