package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xhad/qagen/internal/models"
	"github.com/xhad/qagen/internal/types"
)

// ParsePairs decodes sanitized model output into pairs.
// The whole payload is rejected if the top level is not an array, if any element lacks a string
// question or answer, or if any question is blank.
func ParsePairs(sanitized string) ([]models.QAPair, error) {
	var raw any
	if err := json.Unmarshal([]byte(sanitized), &raw); err != nil {
		return nil, err
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, types.ErrNotArray
	}

	pairs := make([]models.QAPair, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("element %d is not an object: %w", i, types.ErrMissingField)
		}

		question, ok := obj["question"].(string)
		if !ok {
			return nil, fmt.Errorf("element %d question: %w", i, types.ErrMissingField)
		}
		answer, ok := obj["answer"].(string)
		if !ok {
			return nil, fmt.Errorf("element %d answer: %w", i, types.ErrMissingField)
		}
		if strings.TrimSpace(question) == "" {
			return nil, fmt.Errorf("element %d: %w", i, types.ErrEmptyQuestion)
		}

		pairs = append(pairs, models.QAPair{
			Question: question,
			Answer:   answer,
		})
	}

	return pairs, nil
}
