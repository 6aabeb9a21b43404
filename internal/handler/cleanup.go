package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/llmsgen/internal/logger"
	"github.com/jonesrussell/llmsgen/internal/storage"
)

// CleanupHandler handles the token-protected /cleanup endpoint that deletes
// expired runs on demand.
type CleanupHandler struct {
	store  *storage.RunStore
	token  string
	logger logger.Logger
}

// NewCleanupHandler creates a CleanupHandler authorized by the given token.
func NewCleanupHandler(store *storage.RunStore, token string, log logger.Logger) *CleanupHandler {
	return &CleanupHandler{store: store, token: token, logger: log}
}

// Cleanup deletes all expired runs and reports the count. The caller
// authenticates with a bearer token or a token query parameter.
func (h *CleanupHandler) Cleanup(c *gin.Context) {
	if !h.authorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	deleted, err := h.store.DeleteExpired(c.Request.Context())
	if err != nil {
		h.logger.Error("Expiry sweep failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cleanup failed"})
		return
	}

	h.logger.Info("Expiry sweep completed", logger.Int64("deleted", deleted))
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func (h *CleanupHandler) authorized(c *gin.Context) bool {
	if h.token == "" {
		return false
	}

	supplied := c.Query("token")
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		supplied = strings.TrimPrefix(auth, "Bearer ")
	}

	return subtle.ConstantTimeCompare([]byte(supplied), []byte(h.token)) == 1
}
