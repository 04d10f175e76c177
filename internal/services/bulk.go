package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"recroai/backend/internal/models"
	"recroai/backend/internal/repositories"
)

// EvaluationService sequences scoring and authenticity checks over the
// store. It owns deduplication, admission control and final ordering; the
// scorer and the detector stay stateless request/response collaborators.
type EvaluationService interface {
	ScoreCandidate(ctx context.Context, companyID, candidateID, jobID uuid.UUID) (*models.CandidateScore, error)
	GetScore(ctx context.Context, companyID, candidateID, jobID uuid.UUID) (*models.CandidateScore, error)
	CheckAuthenticity(ctx context.Context, companyID, candidateID uuid.UUID) (*models.AuthenticityFlag, error)
	ScoreAll(ctx context.Context, companyID, jobID uuid.UUID) (*models.BulkEvaluationReport, error)
}

type evaluationService struct {
	jobRepo       repositories.JobRepository
	candidateRepo repositories.CandidateRepository
	scoreRepo     repositories.ScoreRepository
	flagRepo      repositories.FlagRepository
	scorer        ScorerService
	authenticity  AuthenticityService
	pool          *taskPool
	maxBatchSize  int
	log           *zap.Logger
}

func NewEvaluationService(
	jobRepo repositories.JobRepository,
	candidateRepo repositories.CandidateRepository,
	scoreRepo repositories.ScoreRepository,
	flagRepo repositories.FlagRepository,
	scorer ScorerService,
	authenticity AuthenticityService,
	maxBatchSize int,
	concurrency int,
	log *zap.Logger,
) EvaluationService {
	return &evaluationService{
		jobRepo:       jobRepo,
		candidateRepo: candidateRepo,
		scoreRepo:     scoreRepo,
		flagRepo:      flagRepo,
		scorer:        scorer,
		authenticity:  authenticity,
		pool:          newTaskPool(concurrency),
		maxBatchSize:  maxBatchSize,
		log:           log,
	}
}

// ScoreCandidate implements EvaluationService.
func (s *evaluationService) ScoreCandidate(ctx context.Context, companyID, candidateID, jobID uuid.UUID) (*models.CandidateScore, error) {
	candidate, err := s.candidateRepo.FindByCompanyAndID(companyID, candidateID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, err
	}

	job, err := s.jobRepo.FindByCompanyAndID(companyID, jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	existing, err := s.scoreRepo.FindByCandidateAndJob(candidateID, jobID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.TotalScore != nil {
			return nil, ErrDuplicateScore
		}
		// A nil total score marks a prior failed attempt; discard the
		// stale row before re-scoring.
		if err := s.scoreRepo.DeleteByID(existing.ID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
	}

	result, err := s.scorer.Score(ctx, job.Criteria, candidate.RawProfile)
	if err != nil {
		return nil, err
	}

	score := newCandidateScore(candidateID, jobID, result)
	if err := s.scoreRepo.Create(score); err != nil {
		return nil, err
	}

	s.log.Info("candidate scored",
		zap.String("candidate_id", candidateID.String()),
		zap.String("job_id", jobID.String()),
		zap.Float64("total_score", result.TotalScore),
	)

	return score, nil
}

// GetScore implements EvaluationService.
func (s *evaluationService) GetScore(ctx context.Context, companyID, candidateID, jobID uuid.UUID) (*models.CandidateScore, error) {
	if _, err := s.candidateRepo.FindByCompanyAndID(companyID, candidateID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, err
	}

	score, err := s.scoreRepo.FindByCandidateAndJob(candidateID, jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrScoreNotFound
		}
		return nil, err
	}
	return score, nil
}

// CheckAuthenticity implements EvaluationService. The verdict overwrites
// the candidate's live flag; it never appends a second one.
func (s *evaluationService) CheckAuthenticity(ctx context.Context, companyID, candidateID uuid.UUID) (*models.AuthenticityFlag, error) {
	candidate, err := s.candidateRepo.FindByCompanyAndID(companyID, candidateID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, err
	}

	result := s.authenticity.Analyze(ctx, candidate.RawProfile, true)

	flag, err := s.flagRepo.Upsert(candidateID, result)
	if err != nil {
		return nil, err
	}
	return flag, nil
}

type itemOutcome struct {
	scored  bool
	checked bool
	errs    []string
}

// ScoreAll implements EvaluationService. Per-item failures are recorded
// and never abort the batch; only the admission checks up front can fail
// the whole call.
func (s *evaluationService) ScoreAll(ctx context.Context, companyID, jobID uuid.UUID) (*models.BulkEvaluationReport, error) {
	job, err := s.jobRepo.FindByCompanyAndID(companyID, jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	candidates, err := s.candidateRepo.FindByCompany(companyID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	// Admission control bounds LLM token spend, not correctness. It must
	// run before any completion call is made.
	if len(candidates) > s.maxBatchSize {
		return nil, fmt.Errorf("%w: %d candidates, limit is %d", ErrBatchTooLarge, len(candidates), s.maxBatchSize)
	}

	items := make([]models.BulkEvaluationItem, len(candidates))
	outcomes := make([]itemOutcome, len(candidates))

	s.pool.Run(ctx, len(candidates), func(ctx context.Context, i int) {
		s.evaluateOne(ctx, job, &candidates[i], &items[i], &outcomes[i])
	})

	scored, checked := 0, 0
	var errs []string
	for _, outcome := range outcomes {
		if outcome.scored {
			scored++
		}
		if outcome.checked {
			checked++
		}
		errs = append(errs, outcome.errs...)
	}

	// Failed items sort last; ties keep candidate order.
	sort.SliceStable(items, func(i, j int) bool {
		return sortValue(items[i]) > sortValue(items[j])
	})

	report := &models.BulkEvaluationReport{
		Message:           buildReportMessage(len(candidates), scored, checked, len(errs)),
		JobID:             jobID,
		CandidatesScored:  scored,
		CandidatesChecked: checked,
		Errors:            errs,
		Candidates:        items,
	}

	s.log.Info("bulk evaluation completed",
		zap.String("job_id", jobID.String()),
		zap.Int("candidates", len(candidates)),
		zap.Int("scored", scored),
		zap.Int("checked", checked),
		zap.Int("errors", len(errs)),
	)

	return report, nil
}

func (s *evaluationService) evaluateOne(ctx context.Context, job *models.Job, candidate *models.Candidate, item *models.BulkEvaluationItem, outcome *itemOutcome) {
	item.CandidateID = candidate.ID
	item.Name = candidate.Name
	item.Email = candidate.Email

	// Authenticity first. Analyze never fails; only persistence can.
	result := s.authenticity.Analyze(ctx, candidate.RawProfile, true)
	flag, err := s.flagRepo.Upsert(candidate.ID, result)
	if err != nil {
		outcome.errs = append(outcome.errs,
			fmt.Sprintf("Authenticity check failed for candidate %s: %v", candidate.ID, err))
	} else {
		item.IsSuspicious = &flag.IsSuspicious
		item.RiskScore = &flag.RiskScore
		item.FlagID = &flag.ID
		outcome.checked = true
	}

	existing, err := s.scoreRepo.FindByCandidateAndJob(candidate.ID, job.ID)
	switch {
	case err == nil && existing.TotalScore != nil:
		// Reuse the stored result verbatim, no completion call.
		item.TotalScore = existing.TotalScore
		item.CategoryScores = existing.CategoryScores
		item.ScoreID = &existing.ID
		return
	case err == nil:
		// Stale row from a failed earlier attempt.
		if err := s.scoreRepo.DeleteByID(existing.ID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
			outcome.errs = append(outcome.errs,
				fmt.Sprintf("Scoring failed for candidate %s: %v", candidate.ID, err))
			return
		}
	case !errors.Is(err, repositories.ErrNotFound):
		outcome.errs = append(outcome.errs,
			fmt.Sprintf("Scoring failed for candidate %s: %v", candidate.ID, err))
		return
	}

	scoring, err := s.scorer.Score(ctx, job.Criteria, candidate.RawProfile)
	if err != nil {
		outcome.errs = append(outcome.errs,
			fmt.Sprintf("Scoring failed for candidate %s: %v", candidate.ID, err))
		return
	}

	score := newCandidateScore(candidate.ID, job.ID, scoring)
	if err := s.scoreRepo.Create(score); err != nil {
		outcome.errs = append(outcome.errs,
			fmt.Sprintf("Scoring failed for candidate %s: %v", candidate.ID, err))
		return
	}

	item.TotalScore = score.TotalScore
	item.CategoryScores = score.CategoryScores
	item.ScoreID = &score.ID
	outcome.scored = true
}

func newCandidateScore(candidateID, jobID uuid.UUID, result *models.ScoringResult) *models.CandidateScore {
	total := result.TotalScore
	return &models.CandidateScore{
		ID:             uuid.New(),
		CandidateID:    candidateID,
		JobID:          jobID,
		TotalScore:     &total,
		CategoryScores: result.CategoryScores,
		Explanation:    buildExplanation(result),
	}
}

// buildExplanation folds strengths and weaknesses into the stored
// explanation text.
func buildExplanation(result *models.ScoringResult) string {
	parts := []string{result.Explanation}
	if len(result.Strengths) > 0 {
		parts = append(parts, "Strengths: "+strings.Join(result.Strengths, ", "))
	}
	if len(result.Weaknesses) > 0 {
		parts = append(parts, "Weaknesses: "+strings.Join(result.Weaknesses, ", "))
	}
	return strings.Join(parts, "\n\n")
}

func sortValue(item models.BulkEvaluationItem) float64 {
	if item.TotalScore == nil {
		return -1
	}
	return *item.TotalScore
}

func buildReportMessage(total, scored, checked, errCount int) string {
	parts := []string{
		fmt.Sprintf("Processed %d candidates", total),
		fmt.Sprintf("Scored %d new candidates", scored),
		fmt.Sprintf("Checked authenticity for %d candidates", checked),
	}
	if errCount > 0 {
		parts = append(parts, fmt.Sprintf("(%d errors occurred)", errCount))
	}
	return strings.Join(parts, " | ")
}
