package profiles

import (
	"time"

	"github.com/google/uuid"
)

// Roles known to the platform. Verification actions are restricted to
// RoleVerifier and RoleAdmin; the remaining roles submit projects or
// request certificates.
const (
	RoleSubmitter = "submitter"
	RoleVerifier  = "verifier"
	RoleAdmin     = "admin"
	RoleNGO       = "ngo"
	RolePanchayat = "panchayat"
)

// Profile is a platform user. Read-only from this service's perspective;
// account management lives elsewhere.
type Profile struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName     string    `gorm:"not null" json:"full_name"`
	Organization *string   `json:"organization,omitempty"`
	Role         string    `gorm:"not null;default:'submitter'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// CanReview reports whether the profile may approve or reject projects
// and certificate requests.
func (p *Profile) CanReview() bool {
	return p.Role == RoleVerifier || p.Role == RoleAdmin
}
