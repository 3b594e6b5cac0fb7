package config

import (
	"errors"
	"fmt"
	"net/url"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate model provider
	switch c.Provider {
	case ProviderOpenAI, ProviderGemini:
		if c.APIKey == "" {
			errors = append(errors, ValidationError{
				Field:   "api_key",
				Message: fmt.Sprintf("API key is required for provider %s", c.Provider),
			})
		}
	case ProviderOllama:
	default:
		errors = append(errors, ValidationError{
			Field:   "provider",
			Message: fmt.Sprintf("unknown provider: %s", c.Provider),
		})
	}

	if c.BaseURL != "" && !isHTTPURL(c.BaseURL) {
		errors = append(errors, ValidationError{
			Field:   "base_url",
			Message: "invalid base URL",
		})
	}

	if c.CompletionModel == "" {
		errors = append(errors, ValidationError{
			Field:   "completion_model",
			Message: "completion model is required",
		})
	}

	if c.EmbeddingModel == "" {
		errors = append(errors, ValidationError{
			Field:   "embedding_model",
			Message: "embedding model is required",
		})
	}

	// Validate completion options
	if c.CompletionOptions.MaxOutputTokens < 1 {
		errors = append(errors, ValidationError{
			Field:   "completion_options.max_output_tokens",
			Message: "max_output_tokens must be positive",
		})
	}

	if c.CompletionOptions.NumCompletions < 1 {
		errors = append(errors, ValidationError{
			Field:   "completion_options.num_completions",
			Message: "num_completions must be positive",
		})
	}

	if c.CompletionOptions.Temperature < 0 || c.CompletionOptions.Temperature > 2 {
		errors = append(errors, ValidationError{
			Field:   "completion_options.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}

	// Validate pipeline limits
	if c.ChunkMaxTokens < 1 {
		errors = append(errors, ValidationError{
			Field:   "chunk_max_tokens",
			Message: "chunk_max_tokens must be positive",
		})
	}

	if c.Concurrency < 1 {
		errors = append(errors, ValidationError{
			Field:   "concurrency",
			Message: "concurrency must be positive",
		})
	}

	if c.EmbeddingDimensions < 0 {
		errors = append(errors, ValidationError{
			Field:   "embedding_dimensions",
			Message: "embedding_dimensions must not be negative",
		})
	}

	// Validate screenshot service
	if !isHTTPURL(c.Screenshot.BaseURL) {
		errors = append(errors, ValidationError{
			Field:   "screenshot.base_url",
			Message: "invalid screenshot service URL",
		})
	}

	return errors
}

// Err folds the validation result into a single error, nil when the config is valid.
func (c *Config) Err() error {
	problems := c.Validate()
	if len(problems) == 0 {
		return nil
	}

	errs := make([]error, len(problems))
	for i, p := range problems {
		errs[i] = p
	}
	return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
