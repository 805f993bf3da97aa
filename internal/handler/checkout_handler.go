package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"paylink/internal/models"
	"paylink/internal/service"
)

const HeaderAdminToken = "X-Admin-Token"

type CheckoutHandler struct {
	service   *service.CheckoutService
	salesPath string
	logger    *zap.Logger
}

func NewCheckoutHandler(service *service.CheckoutService, salesPath string, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service:   service,
		salesPath: salesPath,
		logger:    logger,
	}
}

// CreateCheckout handles POST /api/create-checkout
func (h *CheckoutHandler) CreateCheckout(c *gin.Context) {
	var req models.CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, bindError(err, &req))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RegisterPayment handles POST /api/register-payment
func (h *CheckoutHandler) RegisterPayment(c *gin.Context) {
	var req models.RegisterPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, bindError(err, &req))
		return
	}

	if err := h.service.RegisterPayment(c.Request.Context(), &req, c.GetHeader(HeaderAdminToken)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DownloadSales handles GET /admin/download-vendite
func (h *CheckoutHandler) DownloadSales(c *gin.Context) {
	if err := h.service.Authorize(c.GetHeader(HeaderAdminToken), ""); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.FileAttachment(h.salesPath, "vendite.csv")
}
