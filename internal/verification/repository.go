package verification

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

var ErrProjectNotFound = errors.New("project not found")

// Repository defines the persistence operations for project review
type Repository interface {
	GetProject(ctx context.Context, id uuid.UUID) (*Project, error)
	UpdateReviewFields(ctx context.Context, project *Project) error
	CreateCredit(ctx context.Context, credit *CarbonCredit) error
	ListPending(ctx context.Context) ([]PendingProjectRow, error)
	CountReviewStats(ctx context.Context) (*ReviewStats, error)
}

// PostgresRepository implements Repository against PostgreSQL. Entity
// reads and writes go through GORM; the list and stat projections are
// hand-written SQL over sqlx so each query names its exact joined fields.
type PostgresRepository struct {
	db  *gorm.DB
	sql *sqlx.DB
}

// NewPostgresRepository creates a new verification repository
func NewPostgresRepository(db *gorm.DB, sql *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db, sql: sql}
}

func (r *PostgresRepository) GetProject(ctx context.Context, id uuid.UUID) (*Project, error) {
	var project Project
	err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return &project, nil
}

// UpdateReviewFields persists the review outcome. Only the review columns
// are written; submission fields stay untouched.
func (r *PostgresRepository) UpdateReviewFields(ctx context.Context, project *Project) error {
	err := r.db.WithContext(ctx).Model(&Project{}).
		Where("id = ?", project.ID).
		Updates(map[string]interface{}{
			"status":             project.Status,
			"verifier_id":        project.VerifierID,
			"verification_notes": project.VerificationNotes,
			"verified_at":        project.VerifiedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update project review fields: %w", err)
	}
	return nil
}

func (r *PostgresRepository) CreateCredit(ctx context.Context, credit *CarbonCredit) error {
	if err := r.db.WithContext(ctx).Create(credit).Error; err != nil {
		return fmt.Errorf("failed to create carbon credit: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListPending(ctx context.Context) ([]PendingProjectRow, error) {
	query := `
		SELECT p.id, p.title, p.location, p.area_hectares, p.description,
		       p.estimated_credits, p.status, p.submitted_at, p.submitter_id,
		       pr.full_name AS submitter_name, pr.organization AS submitter_org
		FROM projects p
		JOIN profiles pr ON pr.id = p.submitter_id
		WHERE p.status IN ('pending', 'under_review')
		ORDER BY p.submitted_at ASC
	`

	rows := []PendingProjectRow{}
	if err := r.sql.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list pending projects: %w", err)
	}
	return rows, nil
}

func (r *PostgresRepository) CountReviewStats(ctx context.Context) (*ReviewStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status IN ('pending', 'under_review') AND verifier_id IS NOT NULL) AS pending_reviews,
			COUNT(*) FILTER (WHERE status = 'verified' AND verifier_id IS NOT NULL) AS verified_projects,
			COUNT(*) FILTER (WHERE status = 'rejected' AND verifier_id IS NOT NULL) AS rejected_projects
		FROM projects
	`

	var stats ReviewStats
	if err := r.sql.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("failed to compute review stats: %w", err)
	}
	return &stats, nil
}
