package router

import (
	"github.com/gin-gonic/gin"

	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/config"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/handler"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware. Webhook
// routes are protected when a shared secret is configured.
func Setup(cfg *config.WebhookConfig, webhookH *handler.WebhookHandler, healthH *handler.HealthHandler) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())

	r.GET("/healthz", healthH.Liveness)

	v1 := r.Group("/api/v1")

	hooks := v1.Group("/webhook")
	if cfg.Secret != "" {
		hooks.Use(middleware.AuthMiddleware(cfg.Secret, cfg.Issuer))
	}
	hooks.POST("/submissions", webhookH.Receive)

	return r
}
