package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jonesrussell/llmsgen/internal/domain"
)

// DefaultTolerance is how far a webhook timestamp may drift from the
// server clock before the signature is rejected.
const DefaultTolerance = 300 * time.Second

// Checkout event types that complete a payment.
const (
	EventCheckoutCompleted      = "checkout.session.completed"
	EventCheckoutAsyncSucceeded = "checkout.session.async_payment_succeeded"
)

// paymentStatusPaid is the session payment status that allows mutation.
const paymentStatusPaid = "paid"

// WebhookVerifier checks provider webhook signatures: HMAC-SHA256 over
// "{timestamp}.{rawBody}" with a shared secret, Stripe header format
// "t=...,v1=...".
type WebhookVerifier struct {
	secret    []byte
	tolerance time.Duration
	now       func() time.Time
}

// NewWebhookVerifier creates a verifier with the default tolerance window.
func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{
		secret:    []byte(secret),
		tolerance: DefaultTolerance,
		now:       time.Now,
	}
}

// Verify checks the signature header against the raw request body. It
// returns ErrMissingSignature for an absent header and ErrInvalidSignature
// for a malformed header, stale timestamp or digest mismatch.
func (v *WebhookVerifier) Verify(payload []byte, header string) error {
	if strings.TrimSpace(header) == "" {
		return domain.ErrMissingSignature
	}

	timestamp, signatures := parseSignatureHeader(header)
	if timestamp == 0 || len(signatures) == 0 {
		return domain.ErrInvalidSignature
	}

	drift := v.now().Sub(time.Unix(timestamp, 0))
	if drift < 0 {
		drift = -drift
	}
	if drift > v.tolerance {
		return domain.ErrInvalidSignature
	}

	expected := ComputeSignature(v.secret, timestamp, payload)
	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}
	return domain.ErrInvalidSignature
}

// parseSignatureHeader splits "t=123,v1=abc,v1=def" into the timestamp and
// the list of v1 signature values.
func parseSignatureHeader(header string) (int64, []string) {
	var timestamp int64
	var signatures []string

	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			if ts, err := strconv.ParseInt(kv[1], 10, 64); err == nil {
				timestamp = ts
			}
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}
	return timestamp, signatures
}

// ComputeSignature returns the hex HMAC-SHA256 digest of
// "{timestamp}.{payload}". Exported so tests can build valid headers.
func ComputeSignature(secret []byte, timestamp int64, payload []byte) string {
	mac := hmac.New(sha256.New, secret)
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Event is a provider webhook event, decoded just far enough to drive the
// run lifecycle.
type Event struct {
	Type string `json:"type"`
	Data struct {
		Object CheckoutSession `json:"object"`
	} `json:"data"`
}

// CheckoutSession is the event payload for checkout events.
type CheckoutSession struct {
	ID                string            `json:"id"`
	PaymentStatus     string            `json:"payment_status"`
	ClientReferenceID string            `json:"client_reference_id"`
	Metadata          map[string]string `json:"metadata"`
}

// ParseEvent decodes a verified webhook body.
func ParseEvent(payload []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(payload, &e); err != nil {
		return Event{}, fmt.Errorf("decode webhook event: %w", err)
	}
	return e, nil
}

// CompletedCheckout reports whether the event type completes a checkout.
func (e Event) CompletedCheckout() bool {
	return e.Type == EventCheckoutCompleted || e.Type == EventCheckoutAsyncSucceeded
}

// Payable reports whether the session should mutate run state: a missing
// payment status is accepted, any status other than "paid" is not.
func (e Event) Payable() bool {
	status := e.Data.Object.PaymentStatus
	return status == "" || status == paymentStatusPaid
}

// RunID extracts the run id from event metadata, falling back to the
// client reference field.
func (e Event) RunID() string {
	if id := e.Data.Object.Metadata["run_id"]; id != "" {
		return id
	}
	return e.Data.Object.ClientReferenceID
}
