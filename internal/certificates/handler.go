package certificates

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"bluecarbon/verification-portal/internal/auth"
)

// Handler handles HTTP requests for certificate requests
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new certificates handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers certificate-request routes on the reviewer
// group and the self-service read on the authenticated group.
func (h *Handler) RegisterRoutes(reviewer, authenticated *gin.RouterGroup) {
	requests := reviewer.Group("/certificate-requests")
	{
		requests.GET("/pending", h.listPending)
		requests.POST("/:id/decision", h.decideRequest)
	}
	authenticated.GET("/certificate-requests/mine", h.listMine)
}

// listPending handles GET /api/v1/certificate-requests/pending. Read
// failures degrade to an empty list.
func (h *Handler) listPending(c *gin.Context) {
	rows, err := h.service.ListPendingRequests(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list pending certificate requests", zap.Error(err))
		rows = []PendingRequestRow{}
	}
	c.JSON(http.StatusOK, gin.H{"requests": rows})
}

// listMine handles GET /api/v1/certificate-requests/mine
func (h *Handler) listMine(c *gin.Context) {
	requesterID := auth.ProfileID(c)

	requests, err := h.service.ListRequestsByRequester(c.Request.Context(), requesterID)
	if err != nil {
		h.logger.Error("Failed to list own certificate requests", zap.Error(err))
		requests = []CertificateRequest{}
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// decideRequest handles POST /api/v1/certificate-requests/:id/decision
func (h *Handler) decideRequest(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	var req DecideRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	processorID := auth.ProfileID(c)

	result, err := h.service.DecideRequest(c.Request.Context(), requestID, req.Decision, req.Notes, processorID)
	if err != nil {
		switch {
		case errors.Is(err, ErrRequestNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, ErrRequestAlreadyProcessed), errors.Is(err, ErrInvalidDecision):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.logger.Error("Certificate request decision failed",
				zap.String("request_id", requestID.String()),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	message := "Certificate request rejected"
	if result.Decision == RequestStatusApproved {
		message = "Certificate request approved and certificate issued"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "result": result})
}
