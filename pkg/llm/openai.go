package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"github.com/xhad/qagen/internal/types"
)

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
}

// OpenAI talks to the legacy completions and embeddings endpoints.
type OpenAI struct {
	client *openai.Client
}

var _ Client = (*OpenAI)(nil)

func NewOpenAI(config OpenAIConfig) (*OpenAI, error) {
	if config.APIKey == "" {
		return nil, errors.New("openai: api key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAI{client: openai.NewClientWithConfig(clientConfig)}, nil
}

func (o *OpenAI) Completion(ctx context.Context, prompt, model string, opts types.CompletionOptions) (string, error) {
	resp, err := o.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:       model,
		Prompt:      prompt,
		MaxTokens:   opts.MaxOutputTokens,
		Temperature: float32(opts.Temperature),
		N:           opts.NumCompletions,
		Stop:        opts.StopSequences,
	})
	if err != nil {
		return "", classifyOpenAI("completion", err)
	}

	if len(resp.Choices) == 0 {
		return "", &types.ProviderError{Message: "no completion choices returned"}
	}

	return resp.Choices[0].Text, nil
}

func (o *OpenAI) Embedding(ctx context.Context, input, model string) ([]float32, error) {
	resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{input},
		Model: openai.EmbeddingModel(model),
	})
	if err != nil {
		return nil, classifyOpenAI("embedding", err)
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, types.ErrEmptyEmbedding
	}

	return resp.Data[0].Embedding, nil
}

func (o *OpenAI) Close() error {
	return nil
}

func classifyOpenAI(op string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &types.ProviderError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &types.ProviderError{
			StatusCode: reqErr.HTTPStatusCode,
			Message:    fmt.Sprintf("%s request failed: %v", op, reqErr.Err),
		}
	}

	return classify(op, err)
}
