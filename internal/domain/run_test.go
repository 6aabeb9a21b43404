package domain

import (
	"testing"
	"time"
)

func TestRunPaid(t *testing.T) {
	run := Run{ID: "run-1"}
	if run.Paid() {
		t.Fatal("fresh run reports paid")
	}

	paidAt := time.Now().UTC()
	run.PaidAt = &paidAt
	if !run.Paid() {
		t.Fatal("run with PaidAt reports unpaid")
	}
}

func TestRunExpired(t *testing.T) {
	now := time.Now().UTC()
	run := Run{CreatedAt: now, ExpiresAt: now.Add(RunTTL)}

	if run.Expired(now) {
		t.Fatal("fresh run reports expired")
	}
	if !run.Expired(now.Add(RunTTL)) {
		t.Fatal("run at its expiry instant should be expired")
	}
	if !run.Expired(now.Add(RunTTL + time.Minute)) {
		t.Fatal("run past expiry should be expired")
	}
}

func TestValidationErrorOrder(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{
		"summary": "too short",
		"siteUrl": "invalid",
	}}

	want := "validation failed: siteUrl: invalid; summary: too short"
	if got := err.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestUpstreamErrorMessage(t *testing.T) {
	err := &UpstreamError{Provider: "crawl", StatusCode: 402, Message: "insufficient credits"}
	if got := err.Error(); got != "crawl error (402): insufficient credits" {
		t.Fatalf("Error() = %q", got)
	}

	bare := &UpstreamError{Provider: "payment", StatusCode: 500}
	if got := bare.Error(); got != "payment error (500)" {
		t.Fatalf("Error() = %q", got)
	}
}
