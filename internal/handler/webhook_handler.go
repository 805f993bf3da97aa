package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"paylink/internal/service"
	"paylink/shared/pkg/apperr"
)

const (
	HeaderStripeSignature = "Stripe-Signature"

	maxWebhookBody = 1 << 20
)

type WebhookHandler struct {
	service *service.WebhookService
	logger  *zap.Logger
}

func NewWebhookHandler(service *service.WebhookService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		logger:  logger,
	}
}

// Receive handles POST /webhook. The body is read raw so the signature can be
// checked over the exact bytes that were signed.
func (h *WebhookHandler) Receive(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Webhook error: unreadable body"})
		return
	}

	if _, err := h.service.Handle(c.Request.Context(), payload, c.GetHeader(HeaderStripeSignature)); err != nil {
		// Bad signatures and unparsable payloads are both a 400 here.
		if apperr.Is(err, apperr.Unauthorized) || apperr.Is(err, apperr.InvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": apperr.PublicMessage(err)})
			return
		}
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
