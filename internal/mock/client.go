package mock

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/xhad/qagen/internal/types"
)

var _ types.ModelClient = (*ModelClient)(nil)

// ModelClient is a test double for types.ModelClient.
type ModelClient struct {
	CompletionFunc func(ctx context.Context, prompt, model string, opts types.CompletionOptions) (string, error)
	EmbeddingFunc  func(ctx context.Context, input, model string) ([]float32, error)

	mu              sync.Mutex
	completionCalls int
	embeddingCalls  int
	prompts         []string
}

func NewModelClient() *ModelClient {
	return &ModelClient{}
}

func (m *ModelClient) Completion(ctx context.Context, prompt, model string, opts types.CompletionOptions) (string, error) {
	m.mu.Lock()
	m.completionCalls++
	m.prompts = append(m.prompts, prompt)
	fn := m.CompletionFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, prompt, model, opts)
	}
	return "[]", nil
}

func (m *ModelClient) Embedding(ctx context.Context, input, model string) ([]float32, error) {
	m.mu.Lock()
	m.embeddingCalls++
	fn := m.EmbeddingFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, input, model)
	}
	return DeterministicVector(input, 8), nil
}

func (m *ModelClient) CompletionCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.completionCalls
}

func (m *ModelClient) EmbeddingCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.embeddingCalls
}

// Prompts returns a copy of every prompt seen, in call order.
func (m *ModelClient) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

// DeterministicVector derives a stable vector of size dim from text.
func DeterministicVector(text string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vector := make([]float32, dim)
	for i := range vector {
		seed = seed*1664525 + 1013904223 // LCG constants
		vector[i] = float32(seed%1000) / 1000.0
	}
	return vector
}
