package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"github.com/xhad/qagen/pkg/chunker"
	"github.com/xhad/qagen/pkg/config"
	"github.com/xhad/qagen/pkg/llm"
	"github.com/xhad/qagen/pkg/pipeline"
	"github.com/xhad/qagen/pkg/scraper"
)

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.Bool("verbose") {
		cfg.Verbose = true
	}
	if c.IsSet("concurrency") {
		cfg.Concurrency = c.Int("concurrency")
	}

	if err := cfg.Err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newPipeline(ctx context.Context, cfg *config.Config, opts ...pipeline.Option) (*pipeline.Pipeline, llm.Client, error) {
	client, err := llm.New(ctx, *cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize model client: %w", err)
	}

	p, err := pipeline.New(*cfg, client, opts...)
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to initialize pipeline: %w", err)
	}
	return p, client, nil
}

func textCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	content, err := readInput(c.Args().First())
	if err != nil {
		return err
	}

	p, client, err := newPipeline(c.Context, cfg)
	if err != nil {
		return err
	}
	defer client.Close()
	defer p.Release()

	spinner := getSpinner("Generating question-answer pairs...")
	pairs, err := p.FromText(c.Context, content, c.String("url"))
	spinner.Finish()
	if err != nil {
		return err
	}

	color.Green("\n✓ Generated %d pairs\n", len(pairs))
	return writeJSON(c.App.Writer, c.String("out"), pairs)
}

func urlsCommand(c *cli.Context) error {
	urls := c.Args().Slice()
	if len(urls) == 0 {
		return errors.New("at least one URL is required")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	color.Blue("\nProcessing %d pages with concurrency %d\n", len(urls), cfg.Concurrency)

	bar := getProgressBar(len(urls), "Processing pages")
	p, client, err := newPipeline(c.Context, cfg, pipeline.WithProgress(func(o pipeline.DocumentOutcome) {
		bar.Describe(color.BlueString("Processed %s", truncate(o.URL, 40)))
		bar.Add(1)
	}))
	if err != nil {
		return err
	}
	defer client.Close()
	defer p.Release()

	result, err := p.FromURLs(c.Context, urls)
	if err != nil {
		return err
	}
	bar.Finish()

	failed := result.Failed()
	color.Green("\n✓ %d pairs from %d of %d pages\n", len(result.Pairs), len(urls)-len(failed), len(urls))
	for _, f := range failed {
		color.Red("✗ %s: %v\n", f.URL, f.Err)
	}

	return writeJSON(c.App.Writer, c.String("out"), result.Pairs)
}

type chunkReport struct {
	Chunks    int   `json:"chunks"`
	MaxTokens int   `json:"max_tokens"`
	Tokens    []int `json:"tokens"`
}

func chunkCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	content, err := readInput(c.Args().First())
	if err != nil {
		return err
	}

	text, err := scraper.NewExtractor().Extract(content)
	if err != nil {
		return err
	}

	tokenizer, err := chunker.TokenizerFor(cfg.TokenizerEncoding, cfg.CompletionModel)
	if err != nil {
		return err
	}

	report, err := buildChunkReport(tokenizer, text, cfg.ChunkMaxTokens)
	if err != nil {
		return err
	}
	return writeJSON(c.App.Writer, c.String("out"), report)
}

func buildChunkReport(tokenizer chunker.Tokenizer, text string, maxTokens int) (chunkReport, error) {
	chunks, err := chunker.Split(tokenizer, text, maxTokens)
	if err != nil {
		return chunkReport{}, err
	}

	report := chunkReport{
		Chunks:    len(chunks),
		MaxTokens: maxTokens,
		Tokens:    make([]int, len(chunks)),
	}
	for i, chunk := range chunks {
		report.Tokens[i] = chunk.TokenCount()
	}
	return report, nil
}

func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
