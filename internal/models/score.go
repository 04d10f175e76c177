package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CategoryScore is one scored evaluation category as returned by the LLM.
type CategoryScore struct {
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}

// CategoryScoreMap maps category name to its score. It is stored as a
// jsonb column on candidate_scores.
type CategoryScoreMap map[string]CategoryScore

func (m CategoryScoreMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *CategoryScoreMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported type for CategoryScoreMap: %T", value)
	}
}

// CandidateScore is the persisted scoring result for one (candidate, job)
// pair. The pair is unique; re-scoring updates in place. TotalScore is
// nullable so a row from an interrupted earlier attempt can be recognized
// as stale and discarded before re-scoring.
type CandidateScore struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CandidateID    uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uq_candidate_job_score;index" json:"candidate_id"`
	JobID          uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uq_candidate_job_score;index" json:"job_id"`
	TotalScore     *float64         `gorm:"type:decimal(5,2)" json:"total_score,omitempty"`
	CategoryScores CategoryScoreMap `gorm:"type:jsonb" json:"category_scores,omitempty"`
	Explanation    string           `gorm:"type:text" json:"explanation,omitempty"`
	CreatedAt      time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (CandidateScore) TableName() string {
	return "candidate_scores"
}
