package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"paylink/internal/service"
)

type StatusHandler struct {
	service *service.StatusService
	logger  *zap.Logger
}

func NewStatusHandler(service *service.StatusService, logger *zap.Logger) *StatusHandler {
	return &StatusHandler{
		service: service,
		logger:  logger,
	}
}

// SessionStatus handles GET /api/session-status?session_id=
func (h *StatusHandler) SessionStatus(c *gin.Context) {
	resp, err := h.service.Reconcile(c.Request.Context(), c.Query("session_id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
