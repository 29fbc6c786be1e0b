package dashboard

import (
	"context"

	"go.uber.org/zap"

	"bluecarbon/verification-portal/internal/certificates"
	"bluecarbon/verification-portal/internal/verification"
)

// Overview is the aggregate the verifier dashboard renders in one read:
// the review counters plus both pending work queues.
type Overview struct {
	Stats           verification.ReviewStats         `json:"stats"`
	PendingProjects []verification.PendingProjectRow `json:"pending_projects"`
	PendingRequests []certificates.PendingRequestRow `json:"pending_requests"`
}

// ReviewReader is the slice of the verification engine the dashboard
// reads from.
type ReviewReader interface {
	ComputeStats(ctx context.Context) (*verification.ReviewStats, error)
	ListPendingProjects(ctx context.Context) ([]verification.PendingProjectRow, error)
}

// RequestReader is the slice of the certificate-request engine the
// dashboard reads from.
type RequestReader interface {
	ListPendingRequests(ctx context.Context) ([]certificates.PendingRequestRow, error)
}

// Service assembles the dashboard view from the two engines. It holds no
// state of its own beyond the session store; every read recomputes from
// the store (reload-on-mutation, no incremental maintenance).
type Service struct {
	verifications ReviewReader
	certificates  RequestReader
	sessions      *SessionStore
	logger        *zap.Logger
}

// NewService creates a new dashboard service
func NewService(verifications ReviewReader, certs RequestReader, sessions *SessionStore, logger *zap.Logger) *Service {
	return &Service{
		verifications: verifications,
		certificates:  certs,
		sessions:      sessions,
		logger:        logger,
	}
}

// Overview loads the dashboard aggregate. Each section fails open: a
// gateway error degrades that section to empty instead of failing the
// whole view.
func (s *Service) Overview(ctx context.Context) *Overview {
	overview := &Overview{
		PendingProjects: []verification.PendingProjectRow{},
		PendingRequests: []certificates.PendingRequestRow{},
	}

	if stats, err := s.verifications.ComputeStats(ctx); err != nil {
		s.logger.Error("Dashboard stats unavailable", zap.Error(err))
	} else {
		overview.Stats = *stats
	}

	if projects, err := s.verifications.ListPendingProjects(ctx); err != nil {
		s.logger.Error("Dashboard pending projects unavailable", zap.Error(err))
	} else {
		overview.PendingProjects = projects
	}

	if requests, err := s.certificates.ListPendingRequests(ctx); err != nil {
		s.logger.Error("Dashboard pending requests unavailable", zap.Error(err))
	} else {
		overview.PendingRequests = requests
	}

	return overview
}

// Sessions exposes the session store to the handler layer.
func (s *Service) Sessions() *SessionStore {
	return s.sessions
}
