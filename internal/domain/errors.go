package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for the run lifecycle and payment flow.
var (
	// ErrNotFound means the run does not exist or has expired. Expired
	// rows are treated as absent even before the sweep deletes them.
	ErrNotFound = errors.New("run not found")

	// ErrConflict means a checkout was attempted for an already-paid run.
	ErrConflict = errors.New("run already paid")

	// ErrPaymentRequired means a download was attempted for an unpaid run.
	ErrPaymentRequired = errors.New("payment required")

	// ErrMissingSignature means the webhook request carried no signature header.
	ErrMissingSignature = errors.New("missing webhook signature")

	// ErrInvalidSignature means the webhook signature failed verification.
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// ValidationError reports per-field survey validation failures.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// UpstreamError is a structured failure from an external provider
// (crawl, LLM or payment). The body is retained for logging; only
// Message is safe to surface to callers.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Message    string
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s error (%d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error (%d)", e.Provider, e.StatusCode)
}
