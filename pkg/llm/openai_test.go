package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/qagen/internal/types"
	"github.com/xhad/qagen/pkg/llm"
)

func newOpenAI(t *testing.T, handler http.HandlerFunc) *llm.OpenAI {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := llm.NewOpenAI(llm.OpenAIConfig{APIKey: "test-key", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)
	return client
}

func TestOpenAICompletion(t *testing.T) {
	var got map[string]any
	client := newOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cmpl-1","object":"text_completion","choices":[{"text":"[{\"question\":\"Q\",\"answer\":\"A\"}]","index":0}]}`))
	})

	out, err := client.Completion(context.Background(), "prompt text", "gpt-3.5-turbo-instruct", types.CompletionOptions{
		MaxOutputTokens: 2000,
		NumCompletions:  1,
		StopSequences:   []string{"END"},
		Temperature:     0.7,
	})
	require.NoError(t, err)
	assert.Equal(t, `[{"question":"Q","answer":"A"}]`, out)

	assert.Equal(t, "gpt-3.5-turbo-instruct", got["model"])
	assert.Equal(t, "prompt text", got["prompt"])
	assert.EqualValues(t, 2000, got["max_tokens"])
	assert.EqualValues(t, 1, got["n"])
	assert.Equal(t, []any{"END"}, got["stop"])
}

func TestOpenAIProviderError(t *testing.T) {
	client := newOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`))
	})

	_, err := client.Completion(context.Background(), "p", "gpt-3.5-turbo-instruct", types.CompletionOptions{})
	require.Error(t, err)

	var provErr *types.ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, http.StatusUnauthorized, provErr.StatusCode)
	assert.Contains(t, provErr.Message, "Incorrect API key")
}

func TestOpenAIServerErrorWithoutBody(t *testing.T) {
	client := newOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	})

	_, err := client.Embedding(context.Background(), "Q", "text-embedding-ada-002")

	var provErr *types.ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Contains(t, provErr.Error(), "502")
}

func TestOpenAIEmbedding(t *testing.T) {
	client := newOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)

		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"What is Go?"}, req.Input)
		assert.Equal(t, "text-embedding-ada-002", req.Model)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0.1,0.2,0.3]}],"model":"text-embedding-ada-002"}`))
	})

	vec, err := client.Embedding(context.Background(), "What is Go?", "text-embedding-ada-002")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestOpenAIEmptyEmbedding(t *testing.T) {
	client := newOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[]}`))
	})

	_, err := client.Embedding(context.Background(), "Q", "text-embedding-ada-002")
	assert.ErrorIs(t, err, types.ErrEmptyEmbedding)
}

func TestOpenAINetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL + "/v1"
	server.Close()

	client, err := llm.NewOpenAI(llm.OpenAIConfig{APIKey: "test-key", BaseURL: baseURL})
	require.NoError(t, err)

	_, err = client.Completion(context.Background(), "p", "gpt-3.5-turbo-instruct", types.CompletionOptions{})

	var netErr *types.NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, "completion", netErr.Op)
}

func TestNewOpenAIRequiresKey(t *testing.T) {
	_, err := llm.NewOpenAI(llm.OpenAIConfig{})
	assert.Error(t, err)
}
