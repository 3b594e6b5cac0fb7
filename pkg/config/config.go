package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/xhad/qagen/internal/types"
	"gopkg.in/yaml.v3"
)

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

type CompletionOptions struct {
	MaxOutputTokens int      `yaml:"max_output_tokens"`
	NumCompletions  int      `yaml:"num_completions"`
	StopSequences   []string `yaml:"stop_sequences"`
	Temperature     float64  `yaml:"temperature"`
}

// ScreenshotConfig is forwarded to the page renderer.
type ScreenshotConfig struct {
	APIKey  string            `yaml:"api_key"`
	BaseURL string            `yaml:"base_url"`
	Options map[string]string `yaml:"options"`
	Timeout time.Duration     `yaml:"timeout"`
}

// Config is read once at startup and copied into each component; nothing mutates it afterwards.
type Config struct {
	Provider            string            `yaml:"provider"`
	APIKey              string            `yaml:"api_key"`
	BaseURL             string            `yaml:"base_url"`
	EmbeddingModel      string            `yaml:"embedding_model"`
	CompletionModel     string            `yaml:"completion_model"`
	CompletionOptions   CompletionOptions `yaml:"completion_options"`
	ChunkMaxTokens      int               `yaml:"chunk_max_tokens"`
	TokenizerEncoding   string            `yaml:"tokenizer_encoding"`
	PromptRefinement    string            `yaml:"prompt_refinement"`
	Verbose             bool              `yaml:"verbose"`
	Concurrency         int               `yaml:"concurrency"`
	EmbeddingDimensions int               `yaml:"embedding_dimensions"`
	Screenshot          ScreenshotConfig  `yaml:"screenshot"`
}

// envOverrides lists the environment variables that win over the config file.
type envOverrides struct {
	OpenAIKey     string `envconfig:"OPENAI_API_KEY"`
	APIKey        string `envconfig:"QAGEN_API_KEY"`
	Provider      string `envconfig:"QAGEN_PROVIDER"`
	BaseURL       string `envconfig:"QAGEN_BASE_URL"`
	ScreenshotKey string `envconfig:"SCREENSHOT_API_KEY"`
	Verbose       *bool  `envconfig:"QAGEN_VERBOSE"`
}

// Default returns the configuration used when nothing else is specified.
func Default() *Config {
	config := &Config{
		CompletionOptions: CompletionOptions{
			Temperature: 0.7,
		},
	}
	applyDefaults(config)
	return config
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"qagen.yaml",
			"config.yaml",
			filepath.Join(os.Getenv("HOME"), ".config/qagen/config.yaml"),
			"/etc/qagen/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	// .env is optional; variables may already be set in the shell
	_ = godotenv.Load(".env")

	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := mergeWithEnv(config); err != nil {
		return nil, err
	}

	// Apply defaults for values the file zeroed out
	applyDefaults(config)

	return config, nil
}

func applyDefaults(config *Config) {
	if config.Provider == "" {
		config.Provider = ProviderOpenAI
	}
	if config.EmbeddingModel == "" {
		config.EmbeddingModel = "text-embedding-ada-002"
	}
	if config.CompletionModel == "" {
		config.CompletionModel = "gpt-3.5-turbo-instruct"
	}

	if config.CompletionOptions.MaxOutputTokens == 0 {
		config.CompletionOptions.MaxOutputTokens = 2000
	}
	if config.CompletionOptions.NumCompletions == 0 {
		config.CompletionOptions.NumCompletions = 1
	}

	if config.ChunkMaxTokens == 0 {
		config.ChunkMaxTokens = 800
	}
	if config.Concurrency == 0 {
		config.Concurrency = 4
	}

	if config.Screenshot.BaseURL == "" {
		config.Screenshot.BaseURL = "https://api.pagepixels.com"
	}
	if config.Screenshot.Timeout == 0 {
		config.Screenshot.Timeout = 60 * time.Second
	}
}

func mergeWithEnv(config *Config) error {
	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return fmt.Errorf("error reading environment: %w", err)
	}

	if env.OpenAIKey != "" {
		config.APIKey = env.OpenAIKey
	}
	if env.APIKey != "" {
		config.APIKey = env.APIKey
	}
	if env.Provider != "" {
		config.Provider = env.Provider
	}
	if env.BaseURL != "" {
		config.BaseURL = env.BaseURL
	}
	if env.ScreenshotKey != "" {
		config.Screenshot.APIKey = env.ScreenshotKey
	}
	if env.Verbose != nil {
		config.Verbose = *env.Verbose
	}
	return nil
}

// ModelOptions converts the completion options into the form the model client takes.
func (c *Config) ModelOptions() types.CompletionOptions {
	stop := make([]string, len(c.CompletionOptions.StopSequences))
	copy(stop, c.CompletionOptions.StopSequences)

	return types.CompletionOptions{
		MaxOutputTokens: c.CompletionOptions.MaxOutputTokens,
		NumCompletions:  c.CompletionOptions.NumCompletions,
		StopSequences:   stop,
		Temperature:     c.CompletionOptions.Temperature,
	}
}
