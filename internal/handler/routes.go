package handler

import (
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Checkout *CheckoutHandler
	Status   *StatusHandler
	Webhook  *WebhookHandler
	Health   *HealthHandler
}

// RegisterRoutes mounts the public API. apiMiddleware applies to /api and /admin
// only; the webhook and health routes stay outside of it.
func RegisterRoutes(r gin.IRouter, h Handlers, apiMiddleware ...gin.HandlerFunc) {
	r.GET("/health", h.Health.Health)
	r.GET("/ready", h.Health.Ready)

	r.POST("/webhook", h.Webhook.Receive)

	api := r.Group("/api", apiMiddleware...)
	{
		api.POST("/create-checkout", h.Checkout.CreateCheckout)
		api.GET("/session-status", h.Status.SessionStatus)
		api.POST("/register-payment", h.Checkout.RegisterPayment)
	}

	admin := r.Group("/admin", apiMiddleware...)
	{
		admin.GET("/download-vendite", h.Checkout.DownloadSales)
	}
}
