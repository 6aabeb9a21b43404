package api

import (
	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/llmsgen/internal/handler"
)

// Handlers bundles the request handlers wired into the router.
type Handlers struct {
	Generate *handler.GenerateHandler
	Checkout *handler.CheckoutHandler
	Run      *handler.RunHandler
	Webhook  *handler.WebhookHandler
	Cleanup  *handler.CleanupHandler
	Health   *handler.HealthHandler
}

// SetupRoutes configures all API routes.
func SetupRoutes(router *gin.Engine, h Handlers) {
	router.GET("/health", h.Health.HealthCheck)

	apiGroup := router.Group("/api")
	apiGroup.POST("/generate", h.Generate.Generate)
	apiGroup.POST("/checkout", h.Checkout.Checkout)
	apiGroup.GET("/run", h.Run.Status)
	apiGroup.GET("/download", h.Run.Download)
	apiGroup.POST("/stripe/webhook", h.Webhook.HandleWebhook)

	router.POST("/cleanup", h.Cleanup.Cleanup)
	router.GET("/cleanup", h.Cleanup.Cleanup)
}
