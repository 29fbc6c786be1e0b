package verification

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
	ErrInvalidDecision      = errors.New("decision must be verified or rejected")
	ErrProjectNotReviewable = errors.New("project is not awaiting review")
)

// CertificateIssuer creates the verification certificate record for an
// approved project. Implemented by the certificates service.
type CertificateIssuer interface {
	IssueCertificate(ctx context.Context, projectID, generatedBy uuid.UUID) error
}

// Service applies project review decisions and issues credits on approval
type Service struct {
	repo         Repository
	issuer       CertificateIssuer
	stateMachine *workflows.StateMachine
	logger       *zap.Logger
}

// NewService creates a new verification service
func NewService(repo Repository, issuer CertificateIssuer, logger *zap.Logger) *Service {
	return &Service{
		repo:         repo,
		issuer:       issuer,
		stateMachine: workflows.NewProjectStateMachine(),
		logger:       logger,
	}
}

// StartReview claims a pending project for review, recording which
// verifier owns the in-progress review. Optional step; a decision may
// also be taken directly from pending.
func (s *Service) StartReview(ctx context.Context, projectID, verifierID uuid.UUID) (*Project, error) {
	project, err := s.repo.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !s.stateMachine.CanTransition(project.Status, StatusUnderReview) {
		return nil, ErrProjectNotReviewable
	}

	project.Status = StatusUnderReview
	project.VerifierID = &verifierID
	if err := s.repo.UpdateReviewFields(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// DecideProject records a review decision on a project. On approval it
// issues a carbon credit for the project's estimated amount and attempts
// to generate a verification certificate.
//
// The steps are issued in order with no surrounding transaction: the
// status update commits first, then the credit, then the certificate. A
// credit write failure therefore leaves the project decided without a
// credit and is surfaced to the caller; the certificate write is
// best-effort and only logged. Repeating a decision call is not
// idempotent and will duplicate side-effect records.
func (s *Service) DecideProject(ctx context.Context, projectID uuid.UUID, decision, notes string, actingVerifierID uuid.UUID) (*DecisionResult, error) {
	if decision != StatusVerified && decision != StatusRejected {
		return nil, ErrInvalidDecision
	}

	project, err := s.repo.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !s.stateMachine.CanTransition(project.Status, decision) {
		return nil, ErrProjectNotReviewable
	}

	now := time.Now()
	project.Status = decision
	project.VerifierID = &actingVerifierID
	project.VerificationNotes = &notes
	if decision == StatusVerified {
		project.VerifiedAt = &now
	} else {
		project.VerifiedAt = nil
	}

	if err := s.repo.UpdateReviewFields(ctx, project); err != nil {
		return nil, err
	}

	result := &DecisionResult{
		ProjectID: projectID,
		Decision:  decision,
	}

	if decision == StatusRejected {
		s.logger.Info("Project rejected",
			zap.String("project_id", projectID.String()),
			zap.String("verifier_id", actingVerifierID.String()))
		return result, nil
	}

	credit := &CarbonCredit{
		ID:            uuid.New(),
		ProjectID:     projectID,
		OwnerID:       project.SubmitterID,
		CreditsAmount: project.EstimatedCredits,
		Status:        CreditStatusActive,
		CreatedAt:     now,
	}
	if err := s.repo.CreateCredit(ctx, credit); err != nil {
		// The project is already marked verified at this point; the
		// caller has to see the failure rather than a clean success.
		return nil, fmt.Errorf("project verified but credit issuance failed: %w", err)
	}
	result.CreditsIssued = credit.CreditsAmount
	result.CreditID = credit.ID

	if err := s.issuer.IssueCertificate(ctx, projectID, actingVerifierID); err != nil {
		// Best effort. The reconciliation job backfills missing
		// certificates for verified projects.
		s.logger.Warn("Auto-certificate generation failed after verification",
			zap.String("project_id", projectID.String()),
			zap.Error(err))
	}

	s.logger.Info("Project verified",
		zap.String("project_id", projectID.String()),
		zap.String("verifier_id", actingVerifierID.String()),
		zap.Float64("credits_issued", credit.CreditsAmount))

	return result, nil
}

// ListPendingProjects returns projects awaiting review, oldest submission
// first, with their submitter summary.
func (s *Service) ListPendingProjects(ctx context.Context) ([]PendingProjectRow, error) {
	return s.repo.ListPending(ctx)
}

// ComputeStats recomputes the review counters from the project set.
func (s *Service) ComputeStats(ctx context.Context) (*ReviewStats, error) {
	stats, err := s.repo.CountReviewStats(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalReviewed = stats.VerifiedProjects + stats.RejectedProjects
	return stats, nil
}
