package models

import (
	"time"

	"github.com/google/uuid"
)

// Candidate holds a company-scoped candidate. RawProfile is untrusted
// caller-supplied text: it feeds both scoring and authenticity analysis.
type Candidate struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	Name       string    `gorm:"type:text" json:"name"`
	Email      string    `gorm:"type:text" json:"email"`
	RawProfile string    `gorm:"type:text;not null" json:"raw_profile"`
	Source     string    `gorm:"type:text;not null;index" json:"source"`
	ExternalID string    `gorm:"type:text;index" json:"external_id,omitempty"`
	CreatedAt  time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Candidate) TableName() string {
	return "candidates"
}
