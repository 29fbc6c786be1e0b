package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bluecarbon/verification-portal/internal/auth"
)

// Handler handles HTTP requests for the verifier dashboard
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new dashboard handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers dashboard routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	dashboard := router.Group("/dashboard")
	{
		dashboard.GET("/overview", h.getOverview)
		dashboard.GET("/session", h.getSession)
		dashboard.PUT("/session", h.updateSession)
		dashboard.DELETE("/session", h.clearSession)
	}
}

// getOverview handles GET /api/v1/dashboard/overview
func (h *Handler) getOverview(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Overview(c.Request.Context()))
}

// getSession handles GET /api/v1/dashboard/session
func (h *Handler) getSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Sessions().Get(auth.ProfileID(c)))
}

// updateSession handles PUT /api/v1/dashboard/session
func (h *Handler) updateSession(c *gin.Context) {
	var state SessionState
	if err := c.ShouldBindJSON(&state); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.service.Sessions().Update(auth.ProfileID(c), state))
}

// clearSession handles DELETE /api/v1/dashboard/session
func (h *Handler) clearSession(c *gin.Context) {
	h.service.Sessions().Clear(auth.ProfileID(c))
	c.Status(http.StatusNoContent)
}
