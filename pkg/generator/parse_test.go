package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/qagen/internal/models"
	"github.com/xhad/qagen/internal/types"
)

func TestParsePairs(t *testing.T) {
	pairs, err := ParsePairs(`[{"question":"What is Go?","answer":"A language."},{"question":"Who?","answer":"","extra":1}]`)
	require.NoError(t, err)
	assert.Equal(t, []models.QAPair{
		{Question: "What is Go?", Answer: "A language."},
		{Question: "Who?", Answer: ""},
	}, pairs)

	pairs, err = ParsePairs(`[]`)
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestParsePairsRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"object top level", `{"question":"Q","answer":"A"}`, types.ErrNotArray},
		{"string top level", `"just text"`, types.ErrNotArray},
		{"element not object", `[{"question":"Q","answer":"A"}, "x"]`, types.ErrMissingField},
		{"missing answer", `[{"question":"Q"}]`, types.ErrMissingField},
		{"missing question", `[{"answer":"A"}]`, types.ErrMissingField},
		{"numeric question", `[{"question":42,"answer":"A"}]`, types.ErrMissingField},
		{"blank question", `[{"question":"Q","answer":"A"},{"question":"   ","answer":"A"}]`, types.ErrEmptyQuestion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs, err := ParsePairs(tt.input)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, pairs)
		})
	}

	_, err := ParsePairs(`Here are your pairs: [`)
	assert.Error(t, err)
}
