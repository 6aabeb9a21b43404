package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jonesrussell/llmsgen/internal/domain"
)

// Crawl provider client defaults.
const (
	defaultCrawlBaseURL = "https://api.firecrawl.dev"
	defaultCrawlTimeout = 60 * time.Second
)

// CrawlConfig configures the crawl provider client.
type CrawlConfig struct {
	APIKey  string        `env:"CRAWL_API_KEY"  yaml:"api_key"`
	BaseURL string        `env:"CRAWL_BASE_URL" yaml:"base_url"`
	UseStub bool          `env:"CRAWL_USE_STUB" yaml:"use_stub"`
	Timeout time.Duration `yaml:"timeout"`
}

// CrawledPage is one page returned by the crawl provider.
type CrawledPage struct {
	URL         string
	Title       string
	Description string
	Markdown    string
}

// Crawler fetches pages for a site from an external crawl provider.
type Crawler interface {
	Crawl(ctx context.Context, siteURL string, limit int) ([]CrawledPage, error)
}

// FirecrawlClient talks to a Firecrawl-compatible crawl API over HTTP.
type FirecrawlClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewFirecrawlClient creates a crawl provider client from config, applying
// defaults for base URL and transport timeout.
func NewFirecrawlClient(cfg CrawlConfig) *FirecrawlClient {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultCrawlBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultCrawlTimeout
	}

	return &FirecrawlClient{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type crawlRequest struct {
	URL           string        `json:"url"`
	Limit         int           `json:"limit"`
	ScrapeOptions scrapeOptions `json:"scrapeOptions"`
}

type scrapeOptions struct {
	Formats []string `json:"formats"`
}

type crawlResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Data    []crawlPage `json:"data"`
}

type crawlPage struct {
	Markdown string `json:"markdown"`
	Metadata struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		SourceURL   string `json:"sourceURL"`
		URL         string `json:"url"`
	} `json:"metadata"`
}

// Crawl issues a single crawl request for the site and maps the response.
func (c *FirecrawlClient) Crawl(ctx context.Context, siteURL string, limit int) ([]CrawledPage, error) {
	payload, err := json.Marshal(crawlRequest{
		URL:           siteURL,
		Limit:         limit,
		ScrapeOptions: scrapeOptions{Formats: []string{"markdown"}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal crawl request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/crawl", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build crawl request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("crawl request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read crawl response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, upstreamError("crawl", resp.StatusCode, body)
	}

	var parsed crawlResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode crawl response: %w", err)
	}
	if !parsed.Success && parsed.Error != "" {
		return nil, &domain.UpstreamError{
			Provider:   "crawl",
			StatusCode: resp.StatusCode,
			Message:    parsed.Error,
		}
	}

	pages := make([]CrawledPage, 0, len(parsed.Data))
	for _, p := range parsed.Data {
		url := p.Metadata.SourceURL
		if url == "" {
			url = p.Metadata.URL
		}
		pages = append(pages, CrawledPage{
			URL:         url,
			Title:       p.Metadata.Title,
			Description: p.Metadata.Description,
			Markdown:    p.Markdown,
		})
	}
	return pages, nil
}

// upstreamError builds an UpstreamError from a non-2xx provider response,
// extracting an error/message field when the body is JSON.
func upstreamError(provider string, status int, body []byte) error {
	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := ""
	if json.Unmarshal(body, &parsed) == nil {
		msg = parsed.Error
		if msg == "" {
			msg = parsed.Message
		}
	}

	return &domain.UpstreamError{
		Provider:   provider,
		StatusCode: status,
		Message:    msg,
		Body:       string(body),
	}
}
