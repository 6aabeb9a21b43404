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

// CheckoutHandler handles POST /api/checkout.
type CheckoutHandler struct {
	store     *storage.RunStore
	checkout  *payment.CheckoutClient
	cfg       payment.Config
	publicURL string
	logger    logger.Logger
}

// NewCheckoutHandler creates a CheckoutHandler with the given dependencies.
func NewCheckoutHandler(
	store *storage.RunStore,
	checkout *payment.CheckoutClient,
	cfg payment.Config,
	publicURL string,
	log logger.Logger,
) *CheckoutHandler {
	return &CheckoutHandler{
		store:     store,
		checkout:  checkout,
		cfg:       cfg,
		publicURL: publicURL,
		logger:    log,
	}
}

type checkoutRequest struct {
	RunID string `json:"runId"`
}

// Checkout creates a payment session for an unpaid run and returns the
// provider's redirect URL. An already-paid run short-circuits with 409
// before any provider call.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RunID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "runId is required"})
		return
	}

	if !h.cfg.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payments are not configured"})
		return
	}

	run, err := h.store.Get(c.Request.Context(), req.RunID)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return
	}
	if err != nil {
		h.logger.Error("Failed to load run for checkout", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load run"})
		return
	}

	if run.Paid() {
		h.logger.Info("Checkout rejected for paid run",
			logger.String("run_id", run.ID),
			logger.Error(domain.ErrConflict),
		)
		c.JSON(http.StatusConflict, gin.H{"error": "Run is already paid"})
		return
	}

	successURL := h.publicURL + "/success?runId=" + run.ID
	cancelURL := h.publicURL + "/?checkout=cancelled"

	redirect, err := h.checkout.CreateSession(c.Request.Context(), run.ID, successURL, cancelURL)
	if err != nil {
		h.logger.Error("Checkout session creation failed",
			logger.String("run_id", run.ID),
			logger.Error(err),
		)

		var upstream *domain.UpstreamError
		if errors.As(err, &upstream) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Payment provider error", "detail": upstream.Message})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment provider error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": redirect})
}
