package certificates

import (
	"time"

	"github.com/google/uuid"
)

// Certificate request statuses
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// Certificate is the issuance record evidencing a verification or an
// approved certificate request. The URL is an opaque reference; document
// rendering is not this service's concern.
type Certificate struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID      uuid.UUID `gorm:"type:uuid;not null" json:"project_id"`
	GeneratedBy    uuid.UUID `gorm:"type:uuid;not null" json:"generated_by"`
	CertificateURL string    `json:"certificate_url"`
	CreatedAt      time.Time `json:"created_at"`
}

// CertificateRequest is a stakeholder's ask for a certificate to be
// issued for an already-submitted project. Created externally; this
// service only moves it from pending to a terminal decision.
type CertificateRequest struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID   uuid.UUID  `gorm:"type:uuid;not null" json:"project_id"`
	RequesterID uuid.UUID  `gorm:"type:uuid;not null" json:"requester_id"`
	Status      string     `gorm:"not null;default:'pending'" json:"status"`
	RequestedAt time.Time  `json:"requested_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	ProcessedBy *uuid.UUID `gorm:"type:uuid" json:"processed_by,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

// PendingRequestRow is the projection for the pending-requests list: the
// request joined with its project summary and requester profile.
type PendingRequestRow struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	ProjectID        uuid.UUID  `db:"project_id" json:"project_id"`
	RequesterID      uuid.UUID  `db:"requester_id" json:"requester_id"`
	RequestedAt      time.Time  `db:"requested_at" json:"requested_at"`
	ProjectTitle     string     `db:"project_title" json:"project_title"`
	ProjectLocation  string     `db:"project_location" json:"project_location"`
	AreaHectares     float64    `db:"area_hectares" json:"area_hectares"`
	EstimatedCredits float64    `db:"estimated_credits" json:"estimated_credits"`
	VerifiedAt       *time.Time `db:"verified_at" json:"verified_at,omitempty"`
	RequesterName    string     `db:"requester_name" json:"requester_name"`
	RequesterOrg     *string    `db:"requester_org" json:"requester_org,omitempty"`
	RequesterRole    string     `db:"requester_role" json:"requester_role"`
}

// DecideRequestRequest is the payload for a certificate-request decision
type DecideRequestRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
	Notes    string `json:"notes"`
}

// RequestDecisionResult reports the applied decision for UI messaging
type RequestDecisionResult struct {
	RequestID     uuid.UUID  `json:"request_id"`
	ProjectID     uuid.UUID  `json:"project_id"`
	Decision      string     `json:"decision"`
	CertificateID *uuid.UUID `json:"certificate_id,omitempty"`
}
