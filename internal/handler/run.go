package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/llmsgen/internal/domain"
	"github.com/jonesrussell/llmsgen/internal/logger"
	"github.com/jonesrussell/llmsgen/internal/storage"
)

// RunHandler handles run status and download requests.
type RunHandler struct {
	store  *storage.RunStore
	logger logger.Logger
}

// NewRunHandler creates a RunHandler backed by the run store.
func NewRunHandler(store *storage.RunStore, log logger.Logger) *RunHandler {
	return &RunHandler{store: store, logger: log}
}

// Status handles GET /api/run?runId= and reports paid state.
func (h *RunHandler) Status(c *gin.Context) {
	runID := c.Query("runId")
	if runID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "runId is required"})
		return
	}

	run, err := h.store.Get(c.Request.Context(), runID)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return
	}
	if err != nil {
		h.logger.Error("Failed to load run", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load run"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runId": run.ID, "paid": run.Paid()})
}

// Download handles GET /api/download?runId= and streams the full llms.txt
// once the run is paid. Unpaid runs get 402.
func (h *RunHandler) Download(c *gin.Context) {
	runID := c.Query("runId")
	if runID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "runId is required"})
		return
	}

	run, err := h.store.Get(c.Request.Context(), runID)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return
	}
	if err != nil {
		h.logger.Error("Failed to load run", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load run"})
		return
	}

	if !run.Paid() {
		h.logger.Info("Download blocked for unpaid run",
			logger.String("run_id", run.ID),
			logger.Error(domain.ErrPaymentRequired),
		)
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Payment required"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="llms.txt"`)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(run.Content))
}
