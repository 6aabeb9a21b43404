package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/llmsgen/internal/domain"
	"github.com/jonesrussell/llmsgen/internal/logger"
	"github.com/jonesrussell/llmsgen/internal/payment"
	"github.com/jonesrussell/llmsgen/internal/storage"
)

// signatureHeader is the webhook signature header name.
const signatureHeader = "Stripe-Signature"

// WebhookHandler handles POST /api/stripe/webhook.
type WebhookHandler struct {
	verifier   *payment.WebhookVerifier
	store      *storage.RunStore
	configured bool
	logger     logger.Logger
}

// NewWebhookHandler creates a WebhookHandler. configured must be false when
// no webhook secret is set, in which case every delivery is rejected.
func NewWebhookHandler(
	verifier *payment.WebhookVerifier,
	store *storage.RunStore,
	configured bool,
	log logger.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		verifier:   verifier,
		store:      store,
		configured: configured,
		logger:     log,
	}
}

// HandleWebhook verifies the signature over the raw body and applies the
// paid transition for completed checkout events. Unmatched event types are
// acknowledged without action; state is never mutated on a failed signature.
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	if !h.configured {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook secret not configured"})
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	if err := h.verifier.Verify(body, c.GetHeader(signatureHeader)); err != nil {
		if errors.Is(err, domain.ErrMissingSignature) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing signature"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	event, err := payment.ParseEvent(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event payload"})
		return
	}

	if !event.CompletedCheckout() {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if !event.Payable() {
		h.logger.Info("Checkout event without paid status, acknowledging",
			logger.String("event_type", event.Type),
			logger.String("payment_status", event.Data.Object.PaymentStatus),
		)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	runID := event.RunID()
	if runID == "" {
		h.logger.Warn("Checkout event carries no run id",
			logger.String("session_id", event.Data.Object.ID),
		)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	err = h.store.MarkPaid(c.Request.Context(), runID)
	if errors.Is(err, domain.ErrNotFound) {
		// The run expired or never existed; ack so the provider stops retrying.
		h.logger.Warn("Paid run not found", logger.String("run_id", runID))
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
	if err != nil {
		h.logger.Error("Failed to mark run paid",
			logger.String("run_id", runID),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update run"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
