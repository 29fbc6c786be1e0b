package certificates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bluecarbon/verification-portal/pkg/workflows"
)

var (
	ErrInvalidDecision         = errors.New("decision must be approved or rejected")
	ErrRequestAlreadyProcessed = errors.New("certificate request has already been processed")
)

// Default notes applied when the processor leaves them empty.
const (
	defaultApprovalNote  = "Certificate request approved"
	defaultRejectionNote = "Certificate request rejected by verifier"
)

// Service applies certificate-request decisions and issues certificates
type Service struct {
	repo         Repository
	stateMachine *workflows.StateMachine
	logger       *zap.Logger
	certURL      func(projectID uuid.UUID) string
}

// NewService creates a new certificates service
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:         repo,
		stateMachine: workflows.NewRequestStateMachine(),
		logger:       logger,
		certURL:      defaultCertificateURL,
	}
}

func defaultCertificateURL(projectID uuid.UUID) string {
	return fmt.Sprintf("cert://projects/%s/%d", projectID, time.Now().Unix())
}

// IssueCertificate creates a certificate record for a project. Used both
// by the request-approval path and by the verification engine's
// auto-issuance.
func (s *Service) IssueCertificate(ctx context.Context, projectID, generatedBy uuid.UUID) error {
	cert := &Certificate{
		ID:             uuid.New(),
		ProjectID:      projectID,
		GeneratedBy:    generatedBy,
		CertificateURL: s.certURL(projectID),
		CreatedAt:      time.Now(),
	}
	if err := s.repo.CreateCertificate(ctx, cert); err != nil {
		return err
	}

	s.logger.Info("Certificate issued",
		zap.String("project_id", projectID.String()),
		zap.String("generated_by", generatedBy.String()))
	return nil
}

// DecideRequest records a decision on a pending certificate request. On
// approval a certificate is issued for the request's project; a failure
// of that write is returned as an error even though the request status
// has already changed. The request is not checked against the project's
// own verification status; that trust boundary sits with the requester.
func (s *Service) DecideRequest(ctx context.Context, requestID uuid.UUID, decision, notes string, actingProcessorID uuid.UUID) (*RequestDecisionResult, error) {
	if decision != RequestStatusApproved && decision != RequestStatusRejected {
		return nil, ErrInvalidDecision
	}

	request, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if !s.stateMachine.CanTransition(request.Status, decision) {
		return nil, ErrRequestAlreadyProcessed
	}

	if notes == "" {
		if decision == RequestStatusApproved {
			notes = defaultApprovalNote
		} else {
			notes = defaultRejectionNote
		}
	}

	now := time.Now()
	request.Status = decision
	request.ProcessedAt = &now
	request.ProcessedBy = &actingProcessorID
	request.Notes = &notes

	if err := s.repo.UpdateRequestDecision(ctx, request); err != nil {
		return nil, err
	}

	result := &RequestDecisionResult{
		RequestID: requestID,
		ProjectID: request.ProjectID,
		Decision:  decision,
	}

	if decision == RequestStatusRejected {
		s.logger.Info("Certificate request rejected",
			zap.String("request_id", requestID.String()),
			zap.String("processed_by", actingProcessorID.String()))
		return result, nil
	}

	cert := &Certificate{
		ID:             uuid.New(),
		ProjectID:      request.ProjectID,
		GeneratedBy:    actingProcessorID,
		CertificateURL: s.certURL(request.ProjectID),
		CreatedAt:      now,
	}
	if err := s.repo.CreateCertificate(ctx, cert); err != nil {
		// The request is already marked approved; the failed issuance
		// must surface rather than report a clean approval.
		return nil, fmt.Errorf("request approved but certificate generation failed: %w", err)
	}
	result.CertificateID = &cert.ID

	s.logger.Info("Certificate request approved",
		zap.String("request_id", requestID.String()),
		zap.String("project_id", request.ProjectID.String()),
		zap.String("processed_by", actingProcessorID.String()))

	return result, nil
}

// ListPendingRequests returns pending certificate requests, oldest first,
// joined with their project and requester summaries.
func (s *Service) ListPendingRequests(ctx context.Context) ([]PendingRequestRow, error) {
	return s.repo.ListPendingRequests(ctx)
}

// ListRequestsByRequester returns a requester's own certificate requests.
func (s *Service) ListRequestsByRequester(ctx context.Context, requesterID uuid.UUID) ([]CertificateRequest, error) {
	return s.repo.ListRequestsByRequester(ctx, requesterID)
}
