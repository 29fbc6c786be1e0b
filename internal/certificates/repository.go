package certificates

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

var ErrRequestNotFound = errors.New("certificate request not found")

// Repository defines the persistence operations for certificates and
// certificate requests
type Repository interface {
	GetRequest(ctx context.Context, id uuid.UUID) (*CertificateRequest, error)
	UpdateRequestDecision(ctx context.Context, request *CertificateRequest) error
	CreateCertificate(ctx context.Context, cert *Certificate) error
	ListPendingRequests(ctx context.Context) ([]PendingRequestRow, error)
	ListRequestsByRequester(ctx context.Context, requesterID uuid.UUID) ([]CertificateRequest, error)
	ListVerifiedProjectsWithoutCertificate(ctx context.Context) ([]MissingCertificateRow, error)
}

// MissingCertificateRow identifies a verified project that has no
// certificate record. Consumed by the reconciliation job.
type MissingCertificateRow struct {
	ProjectID  uuid.UUID `db:"project_id"`
	VerifierID uuid.UUID `db:"verifier_id"`
}

// PostgresRepository implements Repository against PostgreSQL. Entity
// reads and writes go through GORM; the joined projections use
// hand-written SQL over sqlx.
type PostgresRepository struct {
	db  *gorm.DB
	sql *sqlx.DB
}

// NewPostgresRepository creates a new certificates repository
func NewPostgresRepository(db *gorm.DB, sql *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db, sql: sql}
}

func (r *PostgresRepository) GetRequest(ctx context.Context, id uuid.UUID) (*CertificateRequest, error) {
	var request CertificateRequest
	err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load certificate request: %w", err)
	}
	return &request, nil
}

func (r *PostgresRepository) UpdateRequestDecision(ctx context.Context, request *CertificateRequest) error {
	err := r.db.WithContext(ctx).Model(&CertificateRequest{}).
		Where("id = ?", request.ID).
		Updates(map[string]interface{}{
			"status":       request.Status,
			"processed_at": request.ProcessedAt,
			"processed_by": request.ProcessedBy,
			"notes":        request.Notes,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update certificate request: %w", err)
	}
	return nil
}

func (r *PostgresRepository) CreateCertificate(ctx context.Context, cert *Certificate) error {
	if err := r.db.WithContext(ctx).Create(cert).Error; err != nil {
		return fmt.Errorf("failed to create certificate: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListPendingRequests(ctx context.Context) ([]PendingRequestRow, error) {
	query := `
		SELECT cr.id, cr.project_id, cr.requester_id, cr.requested_at,
		       p.title AS project_title, p.location AS project_location,
		       p.area_hectares, p.estimated_credits, p.verified_at,
		       pr.full_name AS requester_name, pr.organization AS requester_org,
		       pr.role AS requester_role
		FROM certificate_requests cr
		JOIN projects p ON p.id = cr.project_id
		JOIN profiles pr ON pr.id = cr.requester_id
		WHERE cr.status = 'pending'
		ORDER BY cr.requested_at ASC
	`

	rows := []PendingRequestRow{}
	if err := r.sql.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list pending certificate requests: %w", err)
	}
	return rows, nil
}

func (r *PostgresRepository) ListRequestsByRequester(ctx context.Context, requesterID uuid.UUID) ([]CertificateRequest, error) {
	var requests []CertificateRequest
	err := r.db.WithContext(ctx).
		Where("requester_id = ?", requesterID).
		Order("requested_at ASC").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list certificate requests: %w", err)
	}
	return requests, nil
}

func (r *PostgresRepository) ListVerifiedProjectsWithoutCertificate(ctx context.Context) ([]MissingCertificateRow, error) {
	query := `
		SELECT p.id AS project_id, p.verifier_id
		FROM projects p
		LEFT JOIN certificates c ON c.project_id = p.id
		WHERE p.status = 'verified'
		  AND p.verifier_id IS NOT NULL
		  AND c.id IS NULL
	`

	rows := []MissingCertificateRow{}
	if err := r.sql.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to find projects missing certificates: %w", err)
	}
	return rows, nil
}
