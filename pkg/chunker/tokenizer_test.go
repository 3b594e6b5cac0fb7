package chunker_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/qagen/pkg/chunker"
)

func TestTokenizerFor(t *testing.T) {
	tests := []struct {
		name     string
		encoding string
		model    string
	}{
		{"explicit encoding", "r50k_base", ""},
		{"known model", "", "gpt-3.5-turbo-instruct"},
		{"unknown model falls back", "", "not-a-real-model"},
		{"nothing set", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := chunker.TokenizerFor(tt.encoding, tt.model)
			require.NoError(t, err)

			tokens := tok.Encode("hello world")
			assert.NotEmpty(t, tokens)
			assert.Equal(t, "hello world", tok.Decode(tokens))
		})
	}

	_, err := chunker.NewTiktoken("no_such_encoding")
	assert.Error(t, err)
}

func TestTiktokenSpecialTokens(t *testing.T) {
	tok, err := chunker.NewTiktoken("cl100k_base")
	require.NoError(t, err)

	text := "before <|endoftext|> after"
	assert.Equal(t, text, tok.Decode(tok.Encode(text)))
}

func TestSplitTiktokenLossless(t *testing.T) {
	tok, err := chunker.NewTiktoken("cl100k_base")
	require.NoError(t, err)

	text := strings.Repeat("Grüße aus Köln, 東京の天気は晴れ 🌤️, naïve café. ", 40)

	for _, maxTokens := range []int{1, 3, 17, 100} {
		chunks, err := chunker.Split(tok, text, maxTokens)
		require.NoError(t, err)

		var joined strings.Builder
		var allTokens []int
		for _, c := range chunks {
			assert.LessOrEqual(t, c.TokenCount(), maxTokens)
			joined.WriteString(c.Text)
			allTokens = append(allTokens, c.Tokens...)
		}

		assert.Equal(t, tok.Encode(text), allTokens)
		assert.Equal(t, text, joined.String())
	}
}
