package models

import (
	"time"

	"github.com/google/uuid"
)

// AuthenticityFlag is the persisted manipulation verdict for a candidate.
// CandidateID is unique: re-analysis overwrites the live flag, it never
// appends a second one.
type AuthenticityFlag struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CandidateID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"candidate_id"`
	IsSuspicious bool      `gorm:"not null;default:false" json:"is_suspicious"`
	RiskScore    float64   `gorm:"type:decimal(4,3)" json:"risk_score"`
	Reason       string    `gorm:"type:text" json:"reason"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (AuthenticityFlag) TableName() string {
	return "authenticity_flags"
}
