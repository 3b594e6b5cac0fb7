package generator_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/qagen/internal/mock"
	"github.com/xhad/qagen/internal/models"
	"github.com/xhad/qagen/internal/types"
	"github.com/xhad/qagen/pkg/generator"
	"github.com/xhad/qagen/pkg/llm"
)

func chunk(index int, text string) models.TextChunk {
	return models.TextChunk{Index: index, Text: text, Tokens: mock.ByteTokenizer{}.Encode(text)}
}

func TestBuildPrompt(t *testing.T) {
	prompt, err := generator.BuildPrompt("Go is a language.", "")
	require.NoError(t, err)
	assert.Equal(t, `Process the following text into a list of question-answer pairs associated with the relevant content on the page, like: [{"question": "this is the question", "answer": "this is the answer"}]. Return only valid JSON in your response:

Go is a language.

Question-answer pairs valid JSON:`, prompt)

	prompt, err = generator.BuildPrompt("Go is a language.", "Ask about concurrency")
	require.NoError(t, err)
	assert.Contains(t, prompt, `"answer": "this is the answer"}]. Ask about concurrency. Return only valid JSON`)
}

func TestNew(t *testing.T) {
	_, err := generator.New(nil, generator.Config{}, nil)
	assert.ErrorIs(t, err, generator.ErrModelClientRequired)
}

func TestProcessForwardsModelAndOptions(t *testing.T) {
	client := mock.NewModelClient()
	var gotModel string
	var gotOpts types.CompletionOptions
	client.CompletionFunc = func(ctx context.Context, prompt, model string, opts types.CompletionOptions) (string, error) {
		gotModel = model
		gotOpts = opts
		return `[{"question":"Q","answer":"A"}]`, nil
	}

	opts := types.CompletionOptions{MaxOutputTokens: 2000, NumCompletions: 1, StopSequences: []string{"END"}, Temperature: 0.7}
	g, err := generator.New(client, generator.Config{Model: "gpt-3.5-turbo-instruct", Options: opts, PromptRefinement: "Be brief"}, nil)
	require.NoError(t, err)

	opts.StopSequences[0] = "changed"

	result := g.Process(context.Background(), chunk(0, "some text"), "")
	require.True(t, result.OK())
	assert.Equal(t, "gpt-3.5-turbo-instruct", gotModel)
	assert.Equal(t, []string{"END"}, gotOpts.StopSequences)
	assert.Equal(t, 2000, gotOpts.MaxOutputTokens)

	prompts := client.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "some text")
	assert.Contains(t, prompts[0], "Be brief.")

	want, err := generator.BuildPrompt("some text", "Be brief")
	require.NoError(t, err)
	assert.Equal(t, want, prompts[0])
}

func TestProcessFencedQuotes(t *testing.T) {
	const f = "```"
	client := mock.NewModelClient()
	client.CompletionFunc = func(ctx context.Context, prompt, model string, opts types.CompletionOptions) (string, error) {
		return `[{"question":"Q","answer":"Use ` + f + `fmt.Println("hi")` + f + ` to print"}]`, nil
	}

	g, err := generator.New(client, generator.Config{}, nil)
	require.NoError(t, err)

	result := g.Process(context.Background(), chunk(0, "text"), "")
	require.NoError(t, result.Err)
	require.Len(t, result.Pairs, 1)
	assert.Equal(t, "Q", result.Pairs[0].Question)
	assert.Equal(t, `Use `+f+`fmt.Println("hi")`+f+` to print`, result.Pairs[0].Answer)
}

func TestURLTagging(t *testing.T) {
	client := mock.NewModelClient()
	client.CompletionFunc = func(ctx context.Context, prompt, model string, opts types.CompletionOptions) (string, error) {
		return `[{"question":"Q1","answer":"A1"},{"question":"Q2","answer":"A2"}]`, nil
	}

	g, err := generator.New(client, generator.Config{}, nil)
	require.NoError(t, err)

	tagged := g.Generate(context.Background(), chunk(0, "text"), "https://example.com/page")
	require.Len(t, tagged, 2)
	for _, p := range tagged {
		assert.Equal(t, "https://example.com/page", p.SourceURL)
	}

	untagged := g.Generate(context.Background(), chunk(0, "text"), "")
	require.Len(t, untagged, 2)
	for _, p := range untagged {
		assert.Empty(t, p.SourceURL)
		data, err := json.Marshal(p)
		require.NoError(t, err)
		assert.NotContains(t, string(data), `"url"`)
	}
}

func TestParseFailureIsolation(t *testing.T) {
	client := mock.NewModelClient()
	client.CompletionFunc = func(ctx context.Context, prompt, model string, opts types.CompletionOptions) (string, error) {
		if strings.Contains(prompt, "second") {
			return "Sorry, I cannot help with that.", nil
		}
		return `[{"question":"Q","answer":"A"}]`, nil
	}

	g, err := generator.New(client, generator.Config{}, nil)
	require.NoError(t, err)

	var all []models.QAPair
	for i, text := range []string{"first", "second", "third"} {
		result := g.Process(context.Background(), chunk(i, text), "")
		if i == 1 {
			var parseErr *types.ParseError
			require.True(t, errors.As(result.Err, &parseErr))
			assert.Equal(t, "Sorry, I cannot help with that.", parseErr.Raw)
			assert.Empty(t, result.Pairs)
			assert.Equal(t, 1, result.Index)
		}
		all = append(all, result.Pairs...)
	}

	assert.Len(t, all, 2)
	assert.Equal(t, 3, client.CompletionCalls())
}

func TestSchemaViolationIsParseError(t *testing.T) {
	client := mock.NewModelClient()
	client.CompletionFunc = func(ctx context.Context, prompt, model string, opts types.CompletionOptions) (string, error) {
		return `[{"question":"Q","answer":"A"},{"question":"Q2"}]`, nil
	}

	g, err := generator.New(client, generator.Config{}, nil)
	require.NoError(t, err)

	result := g.Process(context.Background(), chunk(0, "text"), "")
	assert.ErrorIs(t, result.Err, types.ErrMissingField)
	assert.Empty(t, result.Pairs)
}

func TestProviderErrorYieldsNoPairs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Prompt string `json:"prompt"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(req.Prompt, "rejected chunk") {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
			return
		}
		w.Write([]byte(`{"choices":[{"text":"[{\"question\":\"Q\",\"answer\":\"A\"}]","index":0}]}`))
	}))
	defer server.Close()

	client, err := llm.NewOpenAI(llm.OpenAIConfig{APIKey: "k", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)

	g, err := generator.New(client, generator.Config{Model: "gpt-3.5-turbo-instruct"}, nil)
	require.NoError(t, err)

	failed := g.Process(context.Background(), chunk(0, "rejected chunk"), "")
	var provErr *types.ProviderError
	require.True(t, errors.As(failed.Err, &provErr))
	assert.Equal(t, http.StatusUnauthorized, provErr.StatusCode)
	assert.Empty(t, failed.Pairs)

	sibling := g.Generate(context.Background(), chunk(1, "accepted chunk"), "")
	assert.Len(t, sibling, 1)
}
