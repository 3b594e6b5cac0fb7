package embedder

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
	Model string
	// Dimensions rejects vectors of any other length when positive.
	Dimensions int
}

// Embedder attaches an embedding of the question to each pair.
type Embedder struct {
	client types.ModelClient
	config Config
	logger *slog.Logger
}

func New(client types.ModelClient, config Config, logger *slog.Logger) (*Embedder, error) {
	if client == nil {
		return nil, ErrModelClientRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Embedder{
		client: client,
		config: config,
		logger: logger.With("component", "embedder"),
	}, nil
}

// Embed returns the pair with its question embedding. The second result is false when the
// embedding could not be produced; the failure is logged.
func (e *Embedder) Embed(ctx context.Context, pair models.QAPair) (models.EmbeddedQAPair, bool) {
	vector, err := e.embed(ctx, pair.Question)
	if err != nil {
		err = &types.EmbeddingError{Question: pair.Question, Err: err}
		e.logger.Warn("dropping pair", "url", pair.SourceURL, "err", err)
		return models.EmbeddedQAPair{}, false
	}

	return models.EmbeddedQAPair{
		QAPair:    pair,
		Embedding: vector,
	}, true
}

// EmbedAll embeds each pair independently and keeps only the successes, in input order.
func (e *Embedder) EmbedAll(ctx context.Context, pairs []models.QAPair) []models.EmbeddedQAPair {
	embedded := make([]models.EmbeddedQAPair, 0, len(pairs))
	for _, pair := range pairs {
		if ep, ok := e.Embed(ctx, pair); ok {
			embedded = append(embedded, ep)
		}
	}

	if dropped := len(pairs) - len(embedded); dropped > 0 {
		e.logger.Info("embedded pairs", "embedded", len(embedded), "dropped", dropped)
	}
	return embedded
}

func (e *Embedder) embed(ctx context.Context, question string) ([]float32, error) {
	vector, err := e.client.Embedding(ctx, question, e.config.Model)
	if err != nil {
		return nil, err
	}
	if len(vector) == 0 {
		return nil, types.ErrEmptyEmbedding
	}
	if e.config.Dimensions > 0 && len(vector) != e.config.Dimensions {
		return nil, fmt.Errorf("got %d, want %d: %w", len(vector), e.config.Dimensions, types.ErrDimensionMismatch)
	}
	return vector, nil
}
