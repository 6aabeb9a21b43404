// Package domain defines the core types shared across the llms.txt
// generator service.
package domain

import "time"

// RunTTL is how long a generated run stays downloadable before the
// expiry sweep removes it.
const RunTTL = 24 * time.Hour

// Run is one generation attempt. Content is immutable once created;
// PaidAt transitions once from nil to a timestamp and never reverts.
type Run struct {
	ID        string     `json:"id"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
}

// Paid reports whether the run has been paid for.
func (r *Run) Paid() bool {
	return r.PaidAt != nil
}

// Expired reports whether the run is past its expiry at the given instant.
func (r *Run) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}
