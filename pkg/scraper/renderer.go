package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xhad/qagen/internal/types"
)

var ErrMissingHTML = errors.New("renderer response has no html")

var (
	_ types.PageRenderer = (*PagePixels)(nil)
	_ types.PageRenderer = (*Fetcher)(nil)
)

type PagePixelsConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// PagePixels renders pages through the PagePixels snapshot API and returns their HTML.
type PagePixels struct {
	config PagePixelsConfig
	client *http.Client
}

func NewPagePixels(config PagePixelsConfig) (*PagePixels, error) {
	if config.APIKey == "" {
		return nil, errors.New("screenshot API key is required")
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://api.pagepixels.com"
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, err
	}

	return &PagePixels{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

type snapResponse struct {
	HTML string `json:"html"`
}

// Render requests an html-only snapshot of pageURL. Options are sent as query parameters
// and may override html_only; the url parameter is always pageURL.
func (p *PagePixels) Render(ctx context.Context, pageURL string, options map[string]string) (string, error) {
	query := url.Values{}
	query.Set("html_only", "true")
	for k, v := range options {
		query.Set(k, v)
	}
	query.Set("url", pageURL)

	endpoint := strings.TrimSuffix(p.config.BaseURL, "/") + "/snap?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)
	req.Header.Set("Accept", "application/json")

	body, err := do(p.client, req, "render")
	if err != nil {
		return "", err
	}

	var snap snapResponse
	if err := json.Unmarshal(body, &snap); err != nil {
		return "", fmt.Errorf("failed to decode snapshot for %s: %w", pageURL, err)
	}
	if snap.HTML == "" {
		return "", fmt.Errorf("%s: %w", pageURL, ErrMissingHTML)
	}

	return snap.HTML, nil
}

type FetcherConfig struct {
	Timeout   time.Duration
	UserAgent string
}

// Fetcher downloads the raw HTML of a page without running its scripts.
type Fetcher struct {
	config FetcherConfig
	client *http.Client
}

func NewFetcher(config FetcherConfig) *Fetcher {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "qagen/1.0"
	}

	return &Fetcher{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Render fetches pageURL. Options are not used by a plain fetch.
func (f *Fetcher) Render(ctx context.Context, pageURL string, _ map[string]string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.config.UserAgent)

	body, err := do(f.client, req, "fetch")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func do(client *http.Client, req *http.Request, op string) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, &types.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &types.NetworkError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &types.ProviderError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("received status code %d for URL: %s: %s", resp.StatusCode, req.URL.Redacted(), strings.TrimSpace(string(body))),
		}
	}

	return body, nil
}
