package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonesrussell/llmsgen/internal/domain"
)

func TestFirecrawlClientCrawl(t *testing.T) {
	var gotAuth string
	var gotBody crawlRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/crawl" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []map[string]any{
				{
					"markdown": "# Docs\n\nAll the docs.",
					"metadata": map[string]any{
						"title":       "Documentation",
						"description": "Product docs.",
						"sourceURL":   "https://atlas.example.com/docs",
					},
				},
				{
					"metadata": map[string]any{
						"title": "Pricing",
						"url":   "https://atlas.example.com/pricing",
					},
				},
			},
		})
	}))
	defer server.Close()

	client := NewFirecrawlClient(CrawlConfig{APIKey: "fc-test", BaseURL: server.URL})

	pages, err := client.Crawl(context.Background(), "https://atlas.example.com", 20)
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}

	if gotAuth != "Bearer fc-test" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotBody.URL != "https://atlas.example.com" || gotBody.Limit != 20 {
		t.Fatalf("request body = %+v", gotBody)
	}
	if len(gotBody.ScrapeOptions.Formats) != 1 || gotBody.ScrapeOptions.Formats[0] != "markdown" {
		t.Fatalf("scrape formats = %v", gotBody.ScrapeOptions.Formats)
	}

	if len(pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(pages))
	}
	if pages[0].URL != "https://atlas.example.com/docs" || pages[0].Description != "Product docs." {
		t.Fatalf("first page = %+v", pages[0])
	}
	if pages[1].URL != "https://atlas.example.com/pricing" {
		t.Fatalf("url field fallback not applied: %+v", pages[1])
	}
}

func TestFirecrawlClientUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error": "insufficient credits"}`))
	}))
	defer server.Close()

	client := NewFirecrawlClient(CrawlConfig{APIKey: "fc-test", BaseURL: server.URL})

	_, err := client.Crawl(context.Background(), "https://atlas.example.com", 20)

	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("error = %v, want UpstreamError", err)
	}
	if upstream.StatusCode != http.StatusPaymentRequired || upstream.Message != "insufficient credits" {
		t.Fatalf("upstream = %+v", upstream)
	}
}

func TestFirecrawlClientProviderReportedFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success": false, "error": "crawl blocked by robots.txt"}`))
	}))
	defer server.Close()

	client := NewFirecrawlClient(CrawlConfig{APIKey: "fc-test", BaseURL: server.URL})

	_, err := client.Crawl(context.Background(), "https://atlas.example.com", 20)

	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("error = %v, want UpstreamError", err)
	}
	if upstream.Message != "crawl blocked by robots.txt" {
		t.Fatalf("message = %q", upstream.Message)
	}
}
