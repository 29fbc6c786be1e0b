package verification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Project review statuses
const (
	StatusPending     = "pending"
	StatusUnderReview = "under_review"
	StatusVerified    = "verified"
	StatusRejected    = "rejected"
)

// Carbon credit statuses
const (
	CreditStatusActive = "active"
)

// Project represents a submitted blue-carbon restoration project.
// Created by the submission flow; this service only moves it through
// review and never creates or deletes one.
type Project struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title             string         `gorm:"not null" json:"title"`
	Location          string         `json:"location"`
	AreaHectares      float64        `gorm:"not null" json:"area_hectares"`
	Description       string         `json:"description"`
	EstimatedCredits  float64        `gorm:"not null;default:0" json:"estimated_credits"`
	Status            string         `gorm:"not null;default:'pending'" json:"status"`
	SubmittedAt       time.Time      `json:"submitted_at"`
	SubmitterID       uuid.UUID      `gorm:"type:uuid;not null" json:"submitter_id"`
	VerifierID        *uuid.UUID     `gorm:"type:uuid" json:"verifier_id,omitempty"`
	VerificationNotes *string        `json:"verification_notes,omitempty"`
	VerifiedAt        *time.Time     `json:"verified_at,omitempty"`
	Documents         datatypes.JSON `json:"documents,omitempty"` // evidence file references
}

// CarbonCredit is the issuance record created when a project is verified.
// Append-only; retirements and transfers are handled elsewhere.
type CarbonCredit struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID     uuid.UUID `gorm:"type:uuid;not null" json:"project_id"`
	OwnerID       uuid.UUID `gorm:"type:uuid;not null" json:"owner_id"`
	CreditsAmount float64   `gorm:"not null" json:"credits_amount"`
	Status        string    `gorm:"not null;default:'active'" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	Project       Project   `gorm:"foreignKey:ProjectID" json:"-"`
}

// PendingProjectRow is the projection returned by the pending-review list:
// project fields plus the submitter summary the review screen shows.
type PendingProjectRow struct {
	ID               uuid.UUID `db:"id" json:"id"`
	Title            string    `db:"title" json:"title"`
	Location         string    `db:"location" json:"location"`
	AreaHectares     float64   `db:"area_hectares" json:"area_hectares"`
	Description      string    `db:"description" json:"description"`
	EstimatedCredits float64   `db:"estimated_credits" json:"estimated_credits"`
	Status           string    `db:"status" json:"status"`
	SubmittedAt      time.Time `db:"submitted_at" json:"submitted_at"`
	SubmitterID      uuid.UUID `db:"submitter_id" json:"submitter_id"`
	SubmitterName    string    `db:"submitter_name" json:"submitter_name"`
	SubmitterOrg     *string   `db:"submitter_org" json:"submitter_org,omitempty"`
}

// ReviewStats are the dashboard counters, recomputed on demand from the
// project set. All counters only consider rows where a verifier has been
// recorded, so an unclaimed pending project is not yet a pending review.
type ReviewStats struct {
	PendingReviews   int `db:"pending_reviews" json:"pending_reviews"`
	VerifiedProjects int `db:"verified_projects" json:"verified_projects"`
	RejectedProjects int `db:"rejected_projects" json:"rejected_projects"`
	TotalReviewed    int `json:"total_reviewed"`
}

// DecideProjectRequest is the payload for a review decision
type DecideProjectRequest struct {
	Decision string `json:"decision" binding:"required,oneof=verified rejected"`
	Notes    string `json:"notes"`
}

// DecisionResult reports the applied decision back to the caller so the UI
// can distinguish "verified and credits issued" from "rejected".
type DecisionResult struct {
	ProjectID     uuid.UUID `json:"project_id"`
	Decision      string    `json:"decision"`
	CreditsIssued float64   `json:"credits_issued"`
	CreditID      uuid.UUID `json:"credit_id,omitempty"`
}
