package pipeline

import "errors"

var (
	// ErrModelClientRequired is returned when no model client is provided.
	ErrModelClientRequired = errors.New("model client required")

	// ErrNoRenderer is returned by FromURLs when the pipeline has no page renderer.
	ErrNoRenderer = errors.New("page renderer required")

	// ErrExtractorRequired is returned when the text extractor option is nil.
	ErrExtractorRequired = errors.New("text extractor required")

	// ErrDocumentPanic marks a document whose processing panicked.
	ErrDocumentPanic = errors.New("document processing panicked")
)
