package models

import "github.com/google/uuid"

// ScoringResult is a validated LLM scoring document. Instances only exist
// after the response passed contract validation; no field is ever
// defaulted in.
type ScoringResult struct {
	TotalScore     float64          `json:"total_score"`
	CategoryScores CategoryScoreMap `json:"category_scores"`
	Explanation    string           `json:"explanation"`
	Strengths      []string         `json:"strengths"`
	Weaknesses     []string         `json:"weaknesses"`
}

// AuthenticityResult is the combined verdict of the authenticity ensemble.
// RiskScore is in [0,1], rounded to three decimal places.
type AuthenticityResult struct {
	IsSuspicious bool    `json:"is_suspicious"`
	RiskScore    float64 `json:"risk_score"`
	Reason       string  `json:"reason"`
}

// BulkEvaluationItem is one candidate's row in a bulk evaluation. Score
// and authenticity fields stay nil when the corresponding step failed for
// this candidate; the failure itself is recorded in the report's error
// list, never silently dropped.
type BulkEvaluationItem struct {
	CandidateID    uuid.UUID        `json:"candidate_id"`
	Name           string           `json:"name"`
	Email          string           `json:"email"`
	TotalScore     *float64         `json:"total_score"`
	CategoryScores CategoryScoreMap `json:"category_scores,omitempty"`
	ScoreID        *uuid.UUID       `json:"score_id"`
	IsSuspicious   *bool            `json:"is_suspicious"`
	RiskScore      *float64         `json:"risk_score"`
	FlagID         *uuid.UUID       `json:"flag_id"`
}

// BulkEvaluationReport aggregates one bulk run. Per-item failures leave
// the run successful; Errors carries one entry per dropped step.
type BulkEvaluationReport struct {
	Message           string               `json:"message"`
	JobID             uuid.UUID            `json:"job_id"`
	CandidatesScored  int                  `json:"candidates_scored"`
	CandidatesChecked int                  `json:"candidates_checked"`
	Errors            []string             `json:"errors,omitempty"`
	Candidates        []BulkEvaluationItem `json:"candidates"`
}

type ScoringRequest struct {
	CandidateID string `json:"candidate_id"`
	JobID       string `json:"job_id"`
}

type BulkScoringRequest struct {
	JobID string `json:"job_id"`
}

type ScoringResultResponse struct {
	Message        string           `json:"message"`
	ScoreID        uuid.UUID        `json:"score_id"`
	TotalScore     float64          `json:"total_score"`
	CategoryScores CategoryScoreMap `json:"category_scores"`
	Explanation    string           `json:"explanation"`
}
