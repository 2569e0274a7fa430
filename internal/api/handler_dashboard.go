package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"progresstracker/internal/service"
	"progresstracker/pkg/logger"
)

type DashboardHandler struct {
	svc    *service.DashboardService
	logger *zap.Logger
}

func NewDashboardHandler(svc *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{svc: svc, logger: logger}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)
	log.Info("DashboardStats request received", zap.String("client_ip", c.ClientIP()))
	respond(c, http.StatusOK, h.svc.Stats(c.Request.Context()), nil)
}
