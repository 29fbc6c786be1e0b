package verification

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"bluecarbon/verification-portal/internal/auth"
)

// Handler handles HTTP requests for the review workflow
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new verification handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers review routes. The group is expected to carry
// the verifier role middleware.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	projects := router.Group("/projects")
	{
		projects.GET("/pending", h.listPending)
		projects.GET("/stats", h.getStats)
		projects.POST("/:id/review", h.startReview)
		projects.POST("/:id/decision", h.decideProject)
	}
}

// listPending handles GET /api/v1/projects/pending. Read failures degrade
// to an empty list rather than an error page.
func (h *Handler) listPending(c *gin.Context) {
	rows, err := h.service.ListPendingProjects(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list pending projects", zap.Error(err))
		rows = []PendingProjectRow{}
	}
	c.JSON(http.StatusOK, gin.H{"projects": rows})
}

// getStats handles GET /api/v1/projects/stats
func (h *Handler) getStats(c *gin.Context) {
	stats, err := h.service.ComputeStats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to compute review stats", zap.Error(err))
		stats = &ReviewStats{}
	}
	c.JSON(http.StatusOK, stats)
}

// startReview handles POST /api/v1/projects/:id/review
func (h *Handler) startReview(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	project, err := h.service.StartReview(c.Request.Context(), projectID, auth.ProfileID(c))
	if err != nil {
		h.respondDecisionError(c, projectID, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// decideProject handles POST /api/v1/projects/:id/decision
func (h *Handler) decideProject(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	var req DecideProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	verifierID := auth.ProfileID(c)

	result, err := h.service.DecideProject(c.Request.Context(), projectID, req.Decision, req.Notes, verifierID)
	if err != nil {
		h.respondDecisionError(c, projectID, err)
		return
	}

	message := "Project rejected"
	if result.Decision == StatusVerified {
		message = "Project verified and carbon credits issued"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "result": result})
}

func (h *Handler) respondDecisionError(c *gin.Context, projectID uuid.UUID, err error) {
	switch {
	case errors.Is(err, ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrProjectNotReviewable), errors.Is(err, ErrInvalidDecision):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Project decision failed",
			zap.String("project_id", projectID.String()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
