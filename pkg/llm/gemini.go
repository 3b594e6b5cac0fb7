package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/xhad/qagen/internal/types"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

type GeminiConfig struct {
	APIKey  string
	BaseURL string
}

type Gemini struct {
	client *genai.Client
}

var _ Client = (*Gemini)(nil)

func NewGemini(ctx context.Context, config GeminiConfig) (*Gemini, error) {
	if config.APIKey == "" {
		return nil, errors.New("gemini: api key is required")
	}

	opts := []option.ClientOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(config.BaseURL))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Gemini{client: client}, nil
}

func (g *Gemini) Completion(ctx context.Context, prompt, model string, opts types.CompletionOptions) (string, error) {
	gm := g.client.GenerativeModel(model)
	gm.SetTemperature(float32(opts.Temperature))
	if opts.MaxOutputTokens > 0 {
		gm.SetMaxOutputTokens(int32(opts.MaxOutputTokens))
	}
	if opts.NumCompletions > 0 {
		gm.SetCandidateCount(int32(opts.NumCompletions))
	}
	gm.StopSequences = opts.StopSequences

	resp, err := gm.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", classifyGemini("completion", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", &types.ProviderError{Message: "no completion candidates returned"}
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

func (g *Gemini) Embedding(ctx context.Context, input, model string) ([]float32, error) {
	em := g.client.EmbeddingModel(model)
	res, err := em.EmbedContent(ctx, genai.Text(input))
	if err != nil {
		return nil, classifyGemini("embedding", err)
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, types.ErrEmptyEmbedding
	}
	return res.Embedding.Values, nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}

func classifyGemini(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &types.ProviderError{StatusCode: apiErr.Code, Message: apiErr.Message}
	}
	return classify(op, err)
}
