package payment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonesrussell/llmsgen/internal/domain"
)

func TestConfigConfigured(t *testing.T) {
	tests := []struct {
		cfg  Config
		want bool
	}{
		{Config{SecretKey: "sk", PriceID: "price"}, true},
		{Config{SecretKey: "sk"}, false},
		{Config{PriceID: "price"}, false},
		{Config{}, false},
	}
	for _, tt := range tests {
		if got := tt.cfg.Configured(); got != tt.want {
			t.Fatalf("Configured(%+v) = %v, want %v", tt.cfg, got, tt.want)
		}
	}
}

func TestCreateSession(t *testing.T) {
	var gotIdempotency, gotAuth string
	var gotForm map[string][]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != checkoutSessionsPath {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotIdempotency = r.Header.Get("Idempotency-Key")
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotForm = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "cs_test_1", "url": "https://checkout.example.com/pay/cs_test_1"}`))
	}))
	defer server.Close()

	client := NewCheckoutClient(Config{
		SecretKey: "sk_test",
		PriceID:   "price_123",
		BaseURL:   server.URL,
	})

	redirect, err := client.CreateSession(
		context.Background(),
		"run-1",
		"https://site.example.com/success?runId=run-1",
		"https://site.example.com/?checkout=cancelled",
	)
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if redirect != "https://checkout.example.com/pay/cs_test_1" {
		t.Fatalf("redirect = %q", redirect)
	}

	if gotIdempotency != "checkout-run-1" {
		t.Fatalf("Idempotency-Key = %q", gotIdempotency)
	}
	if gotAuth != "Bearer sk_test" {
		t.Fatalf("Authorization = %q", gotAuth)
	}

	wantForm := map[string]string{
		"mode":                    "payment",
		"line_items[0][price]":    "price_123",
		"line_items[0][quantity]": "1",
		"client_reference_id":     "run-1",
		"metadata[run_id]":        "run-1",
		"success_url":             "https://site.example.com/success?runId=run-1",
		"cancel_url":              "https://site.example.com/?checkout=cancelled",
	}
	for key, want := range wantForm {
		if got := gotForm[key]; len(got) != 1 || got[0] != want {
			t.Fatalf("form[%q] = %v, want %q", key, got, want)
		}
	}
}

func TestCreateSessionProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"message": "No such price: price_123"}}`))
	}))
	defer server.Close()

	client := NewCheckoutClient(Config{SecretKey: "sk_test", PriceID: "price_123", BaseURL: server.URL})

	_, err := client.CreateSession(context.Background(), "run-1", "https://s", "https://c")

	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("error = %v, want UpstreamError", err)
	}
	if upstream.Message != "No such price: price_123" {
		t.Fatalf("message = %q", upstream.Message)
	}
}

func TestCreateSessionMissingRedirect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id": "cs_test_1"}`))
	}))
	defer server.Close()

	client := NewCheckoutClient(Config{SecretKey: "sk_test", PriceID: "price_123", BaseURL: server.URL})

	_, err := client.CreateSession(context.Background(), "run-1", "https://s", "https://c")

	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("error = %v, want UpstreamError for missing redirect", err)
	}
}
