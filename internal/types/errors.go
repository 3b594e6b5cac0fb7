package types

import (
	"errors"
	"fmt"
)

var (
	ErrNotArray          = errors.New("completion is not a JSON array")
	ErrMissingField      = errors.New("pair is missing a question or answer field")
	ErrEmptyQuestion     = errors.New("question is empty")
	ErrEmptyEmbedding    = errors.New("embedding is empty")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// NetworkError is a transport failure talking to the model provider or page renderer.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ProviderError is a non-success response from a remote service.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("provider error: %s", e.Message)
	}
	return fmt.Sprintf("provider error (status %d): %s", e.StatusCode, e.Message)
}

// ParseError means a completion could not be turned into question/answer pairs.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse completion: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// EmbeddingError means the embedding for one question could not be produced.
type EmbeddingError struct {
	Question string
	Err      error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embed question %q: %v", e.Question, e.Err)
}

func (e *EmbeddingError) Unwrap() error {
	return e.Err
}
