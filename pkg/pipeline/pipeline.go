package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/xhad/qagen/internal/models"
	"github.com/xhad/qagen/internal/types"
	"github.com/xhad/qagen/pkg/chunker"
	"github.com/xhad/qagen/pkg/config"
	"github.com/xhad/qagen/pkg/embedder"
	"github.com/xhad/qagen/pkg/generator"
	"github.com/xhad/qagen/pkg/scraper"
)

// Pipeline turns documents into embedded question/answer pairs.
// Stages run in order within a document; documents run concurrently on a bounded pool.
type Pipeline struct {
	config      config.Config
	client      types.ModelClient
	tokenizer   chunker.Tokenizer
	extractor   types.TextExtractor
	renderer    types.PageRenderer
	chunker     *chunker.Chunker
	generator   *generator.Generator
	embedder    *embedder.Embedder
	pool        *ants.Pool
	concurrency int
	logger      *slog.Logger

	progressMu sync.Mutex
	progress   func(DocumentOutcome)
}

// DocumentOutcome is the settled result of one URL. Err is nil when the document succeeded,
// even if some of its chunks or pairs were dropped along the way.
type DocumentOutcome struct {
	URL   string
	Pairs []models.EmbeddedQAPair
	Err   error
	// FailedChunks counts chunks whose completion failed or could not be parsed.
	FailedChunks int
}

// documentStats is what processing one document produced.
type documentStats struct {
	pairs        []models.EmbeddedQAPair
	chunks       int
	failedChunks int
}

// Result holds the outcome of a multi-URL run.
type Result struct {
	// Pairs are the surviving records of every successful document, grouped in input URL order.
	Pairs []models.EmbeddedQAPair
	// Documents has one entry per input URL, in input order.
	Documents []DocumentOutcome
}

// Failed returns the documents that did not complete.
func (r *Result) Failed() []DocumentOutcome {
	var failed []DocumentOutcome
	for _, d := range r.Documents {
		if d.Err != nil {
			failed = append(failed, d)
		}
	}
	return failed
}

// New creates a pipeline. cfg is copied; later changes by the caller have no effect.
func New(cfg config.Config, client types.ModelClient, opts ...Option) (*Pipeline, error) {
	if client == nil {
		return nil, ErrModelClientRequired
	}

	cfg.CompletionOptions.StopSequences = append([]string(nil), cfg.CompletionOptions.StopSequences...)
	screenshotOptions := make(map[string]string, len(cfg.Screenshot.Options))
	for k, v := range cfg.Screenshot.Options {
		screenshotOptions[k] = v
	}
	cfg.Screenshot.Options = screenshotOptions

	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 4
	}

	renderer, err := newRenderer(cfg)
	if err != nil {
		return nil, err
	}

	// Create pipeline with defaults
	p := &Pipeline{
		config:      cfg,
		client:      client,
		extractor:   scraper.NewExtractor(),
		renderer:    renderer,
		concurrency: concurrency,
		logger:      slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	if p.tokenizer == nil {
		if p.tokenizer, err = chunker.TokenizerFor(cfg.TokenizerEncoding, cfg.CompletionModel); err != nil {
			return nil, err
		}
	}

	if p.chunker, err = chunker.New(p.tokenizer, cfg.ChunkMaxTokens); err != nil {
		return nil, err
	}

	p.generator, err = generator.New(client, generator.Config{
		Model:            cfg.CompletionModel,
		Options:          cfg.ModelOptions(),
		PromptRefinement: cfg.PromptRefinement,
		Verbose:          cfg.Verbose,
	}, p.logger)
	if err != nil {
		return nil, err
	}

	p.embedder, err = embedder.New(client, embedder.Config{
		Model:      cfg.EmbeddingModel,
		Dimensions: cfg.EmbeddingDimensions,
	}, p.logger)
	if err != nil {
		return nil, err
	}

	if p.pool, err = ants.NewPool(p.concurrency); err != nil {
		return nil, err
	}

	p.logger = p.logger.With("component", "pipeline")
	return p, nil
}

// newRenderer uses the snapshot service when a key is configured and plain HTTP otherwise.
func newRenderer(cfg config.Config) (types.PageRenderer, error) {
	if cfg.Screenshot.APIKey == "" {
		return scraper.NewFetcher(scraper.FetcherConfig{Timeout: cfg.Screenshot.Timeout}), nil
	}
	return scraper.NewPagePixels(scraper.PagePixelsConfig{
		APIKey:  cfg.Screenshot.APIKey,
		BaseURL: cfg.Screenshot.BaseURL,
		Timeout: cfg.Screenshot.Timeout,
	})
}

// Chunker exposes the chunker built from the configuration.
func (p *Pipeline) Chunker() *chunker.Chunker {
	return p.chunker
}

// FromText runs the pipeline over one piece of text or HTML. Pairs are tagged with sourceURL when it is set.
// Only extraction, chunking and context cancellation produce an error; dropped chunks and pairs are logged.
func (p *Pipeline) FromText(ctx context.Context, content, sourceURL string) ([]models.EmbeddedQAPair, error) {
	stats, err := p.process(ctx, models.Document{URL: sourceURL, Content: content})
	if err != nil {
		return nil, err
	}

	p.logger.Info("text processed", "url", sourceURL, "chunks", stats.chunks, "failed_chunks", stats.failedChunks, "pairs", len(stats.pairs))
	return stats.pairs, nil
}

// FromURLs renders and processes every URL, at most the configured number at a time.
// A failing document never affects the others; its error is reported in Result.Documents.
func (p *Pipeline) FromURLs(ctx context.Context, urls []string) (*Result, error) {
	if p.renderer == nil {
		return nil, ErrNoRenderer
	}

	outcomes := make([]DocumentOutcome, len(urls))
	var wg sync.WaitGroup

	for i, url := range urls {
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			outcomes[i] = p.runDocument(ctx, url)
			p.report(outcomes[i])
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("failed to schedule %s: %w", url, err)
		}
	}

	wg.Wait()

	result := &Result{
		Pairs:     make([]models.EmbeddedQAPair, 0),
		Documents: outcomes,
	}
	for _, outcome := range outcomes {
		if outcome.Err == nil {
			result.Pairs = append(result.Pairs, outcome.Pairs...)
		}
	}

	p.logger.Info("batch complete", "documents", len(urls), "failed", len(result.Failed()), "pairs", len(result.Pairs))
	return result, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

func (p *Pipeline) runDocument(ctx context.Context, url string) (outcome DocumentOutcome) {
	outcome.URL = url
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			outcome.Pairs = nil
			outcome.Err = fmt.Errorf("%w: %v", ErrDocumentPanic, r)
			p.logger.Error("document failed", "url", url, "err", outcome.Err)
		}
	}()

	html, err := p.renderer.Render(ctx, url, p.config.Screenshot.Options)
	if err != nil {
		outcome.Err = fmt.Errorf("render %s: %w", url, err)
		p.logger.Error("document failed", "url", url, "err", outcome.Err)
		return outcome
	}

	stats, err := p.process(ctx, models.Document{URL: url, Content: html})
	if err != nil {
		outcome.Err = err
		p.logger.Error("document failed", "url", url, "err", err)
		return outcome
	}

	outcome.Pairs = stats.pairs
	outcome.FailedChunks = stats.failedChunks
	p.logger.Info("document processed", "url", url, "chunks", stats.chunks, "failed_chunks", stats.failedChunks,
		"pairs", len(stats.pairs), "elapsed", time.Since(start))
	return outcome
}

func (p *Pipeline) process(ctx context.Context, doc models.Document) (documentStats, error) {
	var stats documentStats

	text, err := p.extractor.Extract(doc.Content)
	if err != nil {
		return stats, fmt.Errorf("extract %s: %w", doc.URL, err)
	}

	chunks, err := p.chunker.Chunk(text)
	if err != nil {
		return stats, fmt.Errorf("chunk %s: %w", doc.URL, err)
	}
	stats.chunks = len(chunks)
	p.logger.Debug("document chunked", "url", doc.URL, "chunks", len(chunks))

	var pairs []models.QAPair
	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		result := p.generator.Process(ctx, chunk, doc.URL)
		if !result.OK() {
			stats.failedChunks++
			continue
		}
		pairs = append(pairs, result.Pairs...)
	}

	if err := ctx.Err(); err != nil {
		return stats, err
	}

	stats.pairs = p.embedder.EmbedAll(ctx, pairs)
	return stats, nil
}

func (p *Pipeline) report(outcome DocumentOutcome) {
	if p.progress == nil {
		return
	}
	p.progressMu.Lock()
	defer p.progressMu.Unlock()
	p.progress(outcome)
}
