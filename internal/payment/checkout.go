// Package payment adapts the service to the payment provider: it creates
// checkout sessions and verifies webhook signatures. The provider itself is
// a black box reached over its documented HTTP API.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonesrussell/llmsgen/internal/domain"
)

// Checkout client defaults.
const (
	defaultStripeBaseURL = "https://api.stripe.com"
	defaultStripeTimeout = 30 * time.Second
	checkoutSessionsPath = "/v1/checkout/sessions"
	idempotencyKeyPrefix = "checkout-"
)

// Config configures the payment adapter.
type Config struct {
	SecretKey     string        `env:"STRIPE_SECRET_KEY"     yaml:"secret_key"`
	PriceID       string        `env:"STRIPE_PRICE_ID"       yaml:"price_id"`
	WebhookSecret string        `env:"STRIPE_WEBHOOK_SECRET" yaml:"webhook_secret"`
	BaseURL       string        `yaml:"base_url"`
	Timeout       time.Duration `yaml:"timeout"`
}

// Configured reports whether checkout creation is possible.
func (c Config) Configured() bool {
	return c.SecretKey != "" && c.PriceID != ""
}

// CheckoutClient creates checkout sessions against the payment API.
type CheckoutClient struct {
	secretKey string
	priceID   string
	baseURL   string
	client    *http.Client
}

// NewCheckoutClient builds a checkout client from config.
func NewCheckoutClient(cfg Config) *CheckoutClient {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultStripeBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultStripeTimeout
	}

	return &CheckoutClient{
		secretKey: cfg.SecretKey,
		priceID:   cfg.PriceID,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: timeout},
	}
}

// CreateSession creates a one-time-payment checkout session for the run and
// returns the provider's redirect URL. The Idempotency-Key derives from the
// run id, so retrying the call itself is safe.
func (c *CheckoutClient) CreateSession(ctx context.Context, runID, successURL, cancelURL string) (string, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("line_items[0][price]", c.priceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", successURL)
	form.Set("cancel_url", cancelURL)
	form.Set("client_reference_id", runID)
	form.Set("metadata[run_id]", runID)

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost,
		c.baseURL+checkoutSessionsPath,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return "", fmt.Errorf("build checkout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Idempotency-Key", idempotencyKeyPrefix+runID)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("checkout request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read checkout response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return "", checkoutError(resp.StatusCode, body)
	}

	var session struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &session); err != nil {
		return "", fmt.Errorf("decode checkout response: %w", err)
	}
	if session.URL == "" {
		return "", &domain.UpstreamError{
			Provider:   "payment",
			StatusCode: resp.StatusCode,
			Message:    "checkout session has no redirect URL",
		}
	}

	return session.URL, nil
}

// checkoutError extracts the provider's error message from a non-2xx
// response body.
func checkoutError(status int, body []byte) error {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	msg := ""
	if json.Unmarshal(body, &parsed) == nil {
		msg = parsed.Error.Message
	}

	return &domain.UpstreamError{
		Provider:   "payment",
		StatusCode: status,
		Message:    msg,
		Body:       string(body),
	}
}
