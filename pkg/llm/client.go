package llm

import (
	"context"
	"fmt"

	"github.com/xhad/qagen/internal/types"
	"github.com/xhad/qagen/pkg/config"
)

// Client is a model client that holds provider resources until Close.
type Client interface {
	types.ModelClient
	Close() error
}

// New builds the model client for cfg.Provider.
func New(ctx context.Context, cfg config.Config) (Client, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI, "":
		return NewOpenAI(OpenAIConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
		})
	case config.ProviderOllama:
		return NewOllama(OllamaConfig{
			BaseURL:         cfg.BaseURL,
			CompletionModel: cfg.CompletionModel,
			EmbeddingModel:  cfg.EmbeddingModel,
		})
	case config.ProviderGemini:
		return NewGemini(ctx, GeminiConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
		})
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
