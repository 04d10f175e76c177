package services

import (
	"context"
	"math"
	"sort"

	"github.com/google/uuid"

	"recroai/backend/internal/models"
	"recroai/backend/internal/repositories"
)

// AnalyticsSummary aggregates a company's evaluation data. All display
// rounding to two decimal places happens here; the scorer itself never
// rounds.
type AnalyticsSummary struct {
	TotalJobs         int64              `json:"total_jobs"`
	TotalCandidates   int64              `json:"total_candidates"`
	TotalScores       int                `json:"total_scores"`
	AverageScore      float64            `json:"average_score"`
	ScoreDistribution map[string]int     `json:"score_distribution"`
	TopCandidates     []TopCandidate     `json:"top_candidates"`
	AuthenticityStats map[string]int     `json:"authenticity_stats"`
	CategoryAverages  map[string]float64 `json:"category_averages"`
}

type TopCandidate struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	Name        string    `json:"name"`
	Score       float64   `json:"score"`
	JobID       uuid.UUID `json:"job_id"`
	JobTitle    string    `json:"job_title"`
}

var distributionBuckets = []string{"0-20", "21-40", "41-60", "61-80", "81-100"}

type AnalyticsService interface {
	GetSummary(ctx context.Context, companyID uuid.UUID) (*AnalyticsSummary, error)
}

type analyticsService struct {
	jobRepo       repositories.JobRepository
	candidateRepo repositories.CandidateRepository
	scoreRepo     repositories.ScoreRepository
	flagRepo      repositories.FlagRepository
}

func NewAnalyticsService(
	jobRepo repositories.JobRepository,
	candidateRepo repositories.CandidateRepository,
	scoreRepo repositories.ScoreRepository,
	flagRepo repositories.FlagRepository,
) AnalyticsService {
	return &analyticsService{
		jobRepo:       jobRepo,
		candidateRepo: candidateRepo,
		scoreRepo:     scoreRepo,
		flagRepo:      flagRepo,
	}
}

// GetSummary implements AnalyticsService.
func (a *analyticsService) GetSummary(ctx context.Context, companyID uuid.UUID) (*AnalyticsSummary, error) {
	totalJobs, err := a.jobRepo.CountByCompany(companyID)
	if err != nil {
		return nil, err
	}
	totalCandidates, err := a.candidateRepo.CountByCompany(companyID)
	if err != nil {
		return nil, err
	}

	scores, err := a.scoreRepo.FindByCompany(companyID)
	if err != nil {
		return nil, err
	}

	// Rows with a nil total are stale failed attempts and carry no
	// analytical value.
	complete := scores[:0:0]
	for _, score := range scores {
		if score.TotalScore != nil {
			complete = append(complete, score)
		}
	}

	summary := &AnalyticsSummary{
		TotalJobs:         totalJobs,
		TotalCandidates:   totalCandidates,
		TotalScores:       len(complete),
		ScoreDistribution: map[string]int{},
		AuthenticityStats: map[string]int{"flagged": 0, "clean": 0},
		CategoryAverages:  map[string]float64{},
	}
	for _, bucket := range distributionBuckets {
		summary.ScoreDistribution[bucket] = 0
	}

	sum := 0.0
	categorySums := map[string]float64{}
	categoryCounts := map[string]int{}
	for _, score := range complete {
		total := *score.TotalScore
		sum += total
		summary.ScoreDistribution[bucketFor(total)]++
		for name, category := range score.CategoryScores {
			categorySums[name] += category.Score
			categoryCounts[name]++
		}
	}
	if len(complete) > 0 {
		summary.AverageScore = round2(sum / float64(len(complete)))
	}
	for name, total := range categorySums {
		summary.CategoryAverages[name] = round2(total / float64(categoryCounts[name]))
	}

	top, err := a.topCandidates(companyID, complete)
	if err != nil {
		return nil, err
	}
	summary.TopCandidates = top

	flags, err := a.flagRepo.FindByCompany(companyID)
	if err != nil {
		return nil, err
	}
	for _, flag := range flags {
		if flag.IsSuspicious {
			summary.AuthenticityStats["flagged"]++
		} else {
			summary.AuthenticityStats["clean"]++
		}
	}

	return summary, nil
}

func (a *analyticsService) topCandidates(companyID uuid.UUID, scores []models.CandidateScore) ([]TopCandidate, error) {
	candidates, err := a.candidateRepo.FindByCompany(companyID)
	if err != nil {
		return nil, err
	}
	jobs, err := a.jobRepo.FindByCompany(companyID)
	if err != nil {
		return nil, err
	}

	names := make(map[uuid.UUID]string, len(candidates))
	for _, candidate := range candidates {
		names[candidate.ID] = candidate.Name
	}
	titles := make(map[uuid.UUID]string, len(jobs))
	for _, job := range jobs {
		titles[job.ID] = job.Title
	}

	sorted := append([]models.CandidateScore(nil), scores...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return *sorted[i].TotalScore > *sorted[j].TotalScore
	})

	limit := 5
	if len(sorted) < limit {
		limit = len(sorted)
	}

	top := make([]TopCandidate, 0, limit)
	for _, score := range sorted[:limit] {
		name := names[score.CandidateID]
		if name == "" {
			name = "Unknown"
		}
		top = append(top, TopCandidate{
			CandidateID: score.CandidateID,
			Name:        name,
			Score:       round2(*score.TotalScore),
			JobID:       score.JobID,
			JobTitle:    titles[score.JobID],
		})
	}
	return top, nil
}

func bucketFor(score float64) string {
	switch {
	case score <= 20:
		return "0-20"
	case score <= 40:
		return "21-40"
	case score <= 60:
		return "41-60"
	case score <= 80:
		return "61-80"
	default:
		return "81-100"
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
