// Package handler contains the gin request handlers gluing survey
// validation, generation, persistence and payments to the HTTP surface.
package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/llmsgen/internal/discovery"
	"github.com/jonesrussell/llmsgen/internal/domain"
	"github.com/jonesrussell/llmsgen/internal/enrich"
	"github.com/jonesrussell/llmsgen/internal/logger"
	"github.com/jonesrussell/llmsgen/internal/payment"
	"github.com/jonesrussell/llmsgen/internal/preview"
	"github.com/jonesrussell/llmsgen/internal/storage"
	"github.com/jonesrussell/llmsgen/internal/survey"
	"github.com/jonesrussell/llmsgen/internal/template"
)

// GenerateHandler handles POST /api/generate.
type GenerateHandler struct {
	discovery  *discovery.Service
	enricher   *enrich.Service
	store      *storage.RunStore
	paymentCfg payment.Config
	logger     logger.Logger
}

// NewGenerateHandler creates a GenerateHandler with the given dependencies.
func NewGenerateHandler(
	disc *discovery.Service,
	enricher *enrich.Service,
	store *storage.RunStore,
	paymentCfg payment.Config,
	log logger.Logger,
) *GenerateHandler {
	return &GenerateHandler{
		discovery:  disc,
		enricher:   enricher,
		store:      store,
		paymentCfg: paymentCfg,
		logger:     log,
	}
}

type generateResponse struct {
	RunID         string        `json:"runId"`
	Preview       string        `json:"preview"`
	LockedPreview string        `json:"lockedPreview"`
	Mode          string        `json:"mode"`
	Payment       paymentStatus `json:"payment"`
}

type paymentStatus struct {
	Configured bool `json:"configured"`
}

// Generate validates the survey, runs discovery and best-effort enrichment,
// persists the run and returns the split preview.
func (h *GenerateHandler) Generate(c *gin.Context) {
	var in domain.SurveyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if verr := survey.Validate(in); verr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Validation failed",
			"fields": verr.Fields,
		})
		return
	}

	res := h.discovery.Generate(c.Request.Context(), in)

	content := res.Content
	enriched := h.enricher.EnrichPagesAndQuestions(c.Request.Context(), in, res.Pages)
	if enriched.Used {
		// Rebuild with the rewritten pages and the merged question list.
		in.Questions = strings.Join(enriched.Questions, "\n")
		content = template.Build(in, enriched.Pages)
	}

	run, err := h.store.Create(c.Request.Context(), content)
	if err != nil {
		h.logger.Error("Failed to persist run", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save generated content"})
		return
	}

	slices := preview.Split(run.Content)

	h.logger.Info("Run generated",
		logger.String("run_id", run.ID),
		logger.String("mode", res.Mode),
		logger.Bool("enriched", enriched.Used),
	)

	c.JSON(http.StatusOK, generateResponse{
		RunID:         run.ID,
		Preview:       slices.Visible,
		LockedPreview: slices.Locked,
		Mode:          res.Mode,
		Payment:       paymentStatus{Configured: h.paymentCfg.Configured()},
	})
}
