package chunker

import (
	"errors"

	"github.com/xhad/qagen/internal/models"
)

var ErrInvalidTokenBudget = errors.New("max tokens per chunk must be positive")

type Chunker struct {
	tokenizer Tokenizer
	maxTokens int
}

func New(tokenizer Tokenizer, maxTokens int) (*Chunker, error) {
	if tokenizer == nil {
		return nil, errors.New("tokenizer required")
	}
	if maxTokens < 1 {
		return nil, ErrInvalidTokenBudget
	}

	return &Chunker{
		tokenizer: tokenizer,
		maxTokens: maxTokens,
	}, nil
}

func (c *Chunker) MaxTokens() int {
	return c.maxTokens
}

func (c *Chunker) Chunk(text string) ([]models.TextChunk, error) {
	return Split(c.tokenizer, text, c.maxTokens)
}

// Split tokenizes text and packs the tokens greedily into chunks of at most maxTokens.
// A chunk is flushed before it would exceed the budget, so L tokens give ceil(L/maxTokens) chunks.
func Split(tokenizer Tokenizer, text string, maxTokens int) ([]models.TextChunk, error) {
	if maxTokens < 1 {
		return nil, ErrInvalidTokenBudget
	}

	tokens := tokenizer.Encode(text)
	chunks := make([]models.TextChunk, 0, (len(tokens)+maxTokens-1)/maxTokens)

	current := make([]int, 0, maxTokens)
	flush := func() {
		chunks = append(chunks, models.TextChunk{
			Index:  len(chunks),
			Text:   tokenizer.Decode(current),
			Tokens: current,
		})
		current = make([]int, 0, maxTokens)
	}

	for _, token := range tokens {
		if len(current) >= maxTokens {
			flush()
		}
		current = append(current, token)
	}

	if len(current) > 0 {
		flush()
	}

	return chunks, nil
}
