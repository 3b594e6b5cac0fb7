package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/xhad/qagen/internal/types"
)

type OllamaConfig struct {
	BaseURL         string // Ollama server URL
	CompletionModel string
	EmbeddingModel  string
}

// Ollama serves completions and embeddings from a local Ollama server.
// The embedding model is bound when the underlying client is created, so one client is kept per model.
type Ollama struct {
	config OllamaConfig
	llm    *ollama.LLM

	mu        sync.Mutex
	embedders map[string]*ollama.LLM
}

var _ Client = (*Ollama)(nil)

func NewOllama(config OllamaConfig) (*Ollama, error) {
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434" // Default Ollama URL
	}
	if config.CompletionModel == "" {
		config.CompletionModel = "mistral"
	}
	if config.EmbeddingModel == "" {
		config.EmbeddingModel = "nomic-embed-text:latest"
	}

	llm, err := ollama.New(ollama.WithModel(config.CompletionModel), ollama.WithServerURL(config.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM: %w", err)
	}

	return &Ollama{
		config:    config,
		llm:       llm,
		embedders: make(map[string]*ollama.LLM),
	}, nil
}

func (o *Ollama) Completion(ctx context.Context, prompt, model string, opts types.CompletionOptions) (string, error) {
	callOpts := []llms.CallOption{
		llms.WithTemperature(opts.Temperature),
	}
	if model != "" {
		callOpts = append(callOpts, llms.WithModel(model))
	}
	if opts.MaxOutputTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(opts.MaxOutputTokens))
	}
	if len(opts.StopSequences) > 0 {
		callOpts = append(callOpts, llms.WithStopWords(opts.StopSequences))
	}

	out, err := llms.GenerateFromSinglePrompt(ctx, o.llm, prompt, callOpts...)
	if err != nil {
		return "", classify("completion", err)
	}
	return out, nil
}

func (o *Ollama) Embedding(ctx context.Context, input, model string) ([]float32, error) {
	emb, err := o.embedder(model)
	if err != nil {
		return nil, err
	}

	embeddings, err := emb.CreateEmbedding(ctx, []string{input})
	if err != nil {
		return nil, classify("embedding", err)
	}

	vector := FlattenEmbeddings(embeddings)
	if len(vector) == 0 {
		return nil, types.ErrEmptyEmbedding
	}
	return vector, nil
}

func (o *Ollama) embedder(model string) (*ollama.LLM, error) {
	if model == "" {
		model = o.config.EmbeddingModel
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if emb, ok := o.embedders[model]; ok {
		return emb, nil
	}

	emb, err := ollama.New(ollama.WithModel(model), ollama.WithServerURL(o.config.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}
	o.embedders[model] = emb
	return emb, nil
}

func (o *Ollama) Close() error {
	return nil
}

// FlattenEmbeddings concatenates the vectors of a batch response.
func FlattenEmbeddings(embeddings [][]float32) []float32 {
	var flattened []float32
	for _, emb := range embeddings {
		flattened = append(flattened, emb...)
	}
	return flattened
}
