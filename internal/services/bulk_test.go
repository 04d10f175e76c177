package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"recroai/backend/internal/models"
)

type evaluationFixture struct {
	companyID  uuid.UUID
	job        models.Job
	jobs       *memJobRepo
	candidates *memCandidateRepo
	scores     *memScoreRepo
	flags      *memFlagRepo
	scorerStub *stubCompleter
	service    EvaluationService
}

// newEvaluationFixture wires an evaluation service over in-memory
// repositories. The authenticity detector runs without a completer so the
// stub's call count tracks scoring completions only.
func newEvaluationFixture(t *testing.T, maxBatch int, candidateCount int, stub *stubCompleter) *evaluationFixture {
	t.Helper()

	companyID := uuid.New()
	job := models.Job{
		ID:        uuid.New(),
		CompanyID: companyID,
		Title:     "Backend Engineer",
		Criteria:  models.JSONMap{"required_skills": []any{"Go"}},
		Status:    models.JobStatusActive,
	}

	candidateRepo := &memCandidateRepo{}
	for i := 0; i < candidateCount; i++ {
		candidateRepo.candidates = append(candidateRepo.candidates, models.Candidate{
			ID:         uuid.New(),
			CompanyID:  companyID,
			Name:       "Candidate",
			Email:      "candidate@example.com",
			RawProfile: "Backend engineer with Go experience",
			Source:     "manual",
		})
	}

	fixture := &evaluationFixture{
		companyID:  companyID,
		job:        job,
		jobs:       newMemJobRepo(job),
		candidates: candidateRepo,
		scores:     &memScoreRepo{},
		flags:      newMemFlagRepo(),
		scorerStub: stub,
	}

	fixture.service = NewEvaluationService(
		fixture.jobs,
		fixture.candidates,
		fixture.scores,
		fixture.flags,
		NewScorerService(stub, 50, zap.NewNop()),
		NewAuthenticityService(nil, zap.NewNop()),
		maxBatch,
		1,
		zap.NewNop(),
	)
	return fixture
}

func (f *evaluationFixture) storeScore(candidateID uuid.UUID, total *float64) uuid.UUID {
	score := models.CandidateScore{
		ID:          uuid.New(),
		CandidateID: candidateID,
		JobID:       f.job.ID,
		TotalScore:  total,
	}
	f.scores.scores = append(f.scores.scores, score)
	return score.ID
}

func floatPtr(v float64) *float64 {
	return &v
}

func TestScoreCandidateSuccess(t *testing.T) {
	fixture := newEvaluationFixture(t, 4, 1, &stubCompleter{response: validScoringResponse(85.5)})
	candidateID := fixture.candidates.candidates[0].ID

	score, err := fixture.service.ScoreCandidate(context.Background(), fixture.companyID, candidateID, fixture.job.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if score.TotalScore == nil || *score.TotalScore != 85.5 {
		t.Fatalf("unexpected total score: %v", score.TotalScore)
	}
	if !strings.Contains(score.Explanation, "Strengths: Go") {
		t.Fatalf("explanation does not fold in strengths: %q", score.Explanation)
	}
	if len(fixture.scores.scores) != 1 {
		t.Fatalf("expected one persisted score, got %d", len(fixture.scores.scores))
	}
}

func TestScoreCandidateDuplicate(t *testing.T) {
	fixture := newEvaluationFixture(t, 4, 1, &stubCompleter{response: validScoringResponse(80)})
	candidateID := fixture.candidates.candidates[0].ID
	fixture.storeScore(candidateID, floatPtr(72))

	_, err := fixture.service.ScoreCandidate(context.Background(), fixture.companyID, candidateID, fixture.job.ID)
	if !errors.Is(err, ErrDuplicateScore) {
		t.Fatalf("expected ErrDuplicateScore, got %v", err)
	}
	if fixture.scorerStub.calls != 0 {
		t.Fatalf("duplicate detection must run before any completion call, got %d calls", fixture.scorerStub.calls)
	}
}

func TestScoreCandidateDiscardsStaleScore(t *testing.T) {
	fixture := newEvaluationFixture(t, 4, 1, &stubCompleter{response: validScoringResponse(80)})
	candidateID := fixture.candidates.candidates[0].ID
	staleID := fixture.storeScore(candidateID, nil)

	score, err := fixture.service.ScoreCandidate(context.Background(), fixture.companyID, candidateID, fixture.job.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if score.ID == staleID {
		t.Fatalf("stale row must be replaced, not reused")
	}
	if len(fixture.scores.scores) != 1 {
		t.Fatalf("expected the stale row to be deleted, store holds %d rows", len(fixture.scores.scores))
	}
	if fixture.scores.scores[0].TotalScore == nil || *fixture.scores.scores[0].TotalScore != 80 {
		t.Fatalf("unexpected replacement score: %+v", fixture.scores.scores[0])
	}
}

func TestScoreCandidateUnknownIDs(t *testing.T) {
	fixture := newEvaluationFixture(t, 4, 1, &stubCompleter{response: validScoringResponse(80)})
	candidateID := fixture.candidates.candidates[0].ID

	_, err := fixture.service.ScoreCandidate(context.Background(), fixture.companyID, uuid.New(), fixture.job.ID)
	if !errors.Is(err, ErrCandidateNotFound) {
		t.Fatalf("expected ErrCandidateNotFound, got %v", err)
	}

	_, err = fixture.service.ScoreCandidate(context.Background(), fixture.companyID, candidateID, uuid.New())
	if !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}

	// A different company must not see this candidate at all.
	_, err = fixture.service.ScoreCandidate(context.Background(), uuid.New(), candidateID, fixture.job.ID)
	if !errors.Is(err, ErrCandidateNotFound) {
		t.Fatalf("expected ErrCandidateNotFound for foreign company, got %v", err)
	}
}

func TestGetScoreNotFound(t *testing.T) {
	fixture := newEvaluationFixture(t, 4, 1, &stubCompleter{})
	candidateID := fixture.candidates.candidates[0].ID

	_, err := fixture.service.GetScore(context.Background(), fixture.companyID, candidateID, fixture.job.ID)
	if !errors.Is(err, ErrScoreNotFound) {
		t.Fatalf("expected ErrScoreNotFound, got %v", err)
	}
}

func TestCheckAuthenticityOverwritesFlag(t *testing.T) {
	fixture := newEvaluationFixture(t, 4, 1, &stubCompleter{})
	candidateID := fixture.candidates.candidates[0].ID

	first, err := fixture.service.CheckAuthenticity(context.Background(), fixture.companyID, candidateID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := fixture.service.CheckAuthenticity(context.Background(), fixture.companyID, candidateID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("repeated checks must overwrite the same flag, got %s then %s", first.ID, second.ID)
	}
	if len(fixture.flags.flags) != 1 {
		t.Fatalf("expected one flag per candidate, got %d", len(fixture.flags.flags))
	}
	if fixture.flags.upserts != 2 {
		t.Fatalf("expected two upserts, got %d", fixture.flags.upserts)
	}
}

func TestScoreAllBatchTooLarge(t *testing.T) {
	fixture := newEvaluationFixture(t, 4, 5, &stubCompleter{response: validScoringResponse(80)})

	_, err := fixture.service.ScoreAll(context.Background(), fixture.companyID, fixture.job.ID)
	if !errors.Is(err, ErrBatchTooLarge) {
		t.Fatalf("expected ErrBatchTooLarge, got %v", err)
	}
	if fixture.scorerStub.calls != 0 {
		t.Fatalf("admission control must run before any completion call, got %d calls", fixture.scorerStub.calls)
	}
}

func TestScoreAllNoCandidates(t *testing.T) {
	fixture := newEvaluationFixture(t, 4, 0, &stubCompleter{})

	_, err := fixture.service.ScoreAll(context.Background(), fixture.companyID, fixture.job.ID)
	if !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
}

func TestScoreAllUnknownJob(t *testing.T) {
	fixture := newEvaluationFixture(t, 4, 1, &stubCompleter{})

	_, err := fixture.service.ScoreAll(context.Background(), fixture.companyID, uuid.New())
	if !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestScoreAllFreshScoring(t *testing.T) {
	fixture := newEvaluationFixture(t, 4, 2, &stubCompleter{response: validScoringResponse(80)})

	report, err := fixture.service.ScoreAll(context.Background(), fixture.companyID, fixture.job.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fixture.scorerStub.calls != 2 {
		t.Fatalf("expected one completion per candidate, got %d", fixture.scorerStub.calls)
	}
	if report.CandidatesScored != 2 || report.CandidatesChecked != 2 {
		t.Fatalf("unexpected counts: scored=%d checked=%d", report.CandidatesScored, report.CandidatesChecked)
	}
	if len(report.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", report.Errors)
	}
	want := "Processed 2 candidates | Scored 2 new candidates | Checked authenticity for 2 candidates"
	if report.Message != want {
		t.Fatalf("report message = %q, want %q", report.Message, want)
	}
	for _, item := range report.Candidates {
		if item.TotalScore == nil || *item.TotalScore != 80 {
			t.Fatalf("item missing score: %+v", item)
		}
		if item.IsSuspicious == nil || item.FlagID == nil {
			t.Fatalf("item missing authenticity verdict: %+v", item)
		}
	}
}

func TestScoreAllReusesStoredScore(t *testing.T) {
	fixture := newEvaluationFixture(t, 4, 1, &stubCompleter{response: validScoringResponse(80)})
	candidateID := fixture.candidates.candidates[0].ID
	storedID := fixture.storeScore(candidateID, floatPtr(72))

	report, err := fixture.service.ScoreAll(context.Background(), fixture.companyID, fixture.job.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fixture.scorerStub.calls != 0 {
		t.Fatalf("stored score must be reused without a completion call, got %d calls", fixture.scorerStub.calls)
	}
	if report.CandidatesScored != 0 {
		t.Fatalf("reused scores must not count as newly scored, got %d", report.CandidatesScored)
	}
	item := report.Candidates[0]
	if item.TotalScore == nil || *item.TotalScore != 72 {
		t.Fatalf("stored score not reused verbatim: %+v", item)
	}
	if item.ScoreID == nil || *item.ScoreID != storedID {
		t.Fatalf("item must reference the stored score row")
	}
}

func TestScoreAllDiscardsStaleScore(t *testing.T) {
	fixture := newEvaluationFixture(t, 4, 1, &stubCompleter{response: validScoringResponse(80)})
	candidateID := fixture.candidates.candidates[0].ID
	staleID := fixture.storeScore(candidateID, nil)

	report, err := fixture.service.ScoreAll(context.Background(), fixture.companyID, fixture.job.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fixture.scorerStub.calls != 1 {
		t.Fatalf("stale row must be re-scored, got %d calls", fixture.scorerStub.calls)
	}
	if report.CandidatesScored != 1 {
		t.Fatalf("expected one newly scored candidate, got %d", report.CandidatesScored)
	}
	if len(fixture.scores.scores) != 1 || fixture.scores.scores[0].ID == staleID {
		t.Fatalf("stale row not replaced: %+v", fixture.scores.scores)
	}
}

func TestScoreAllOrdering(t *testing.T) {
	// Two candidates carry stored scores; the third needs a fresh
	// completion, which fails. Failed items sort after all scored ones.
	fixture := newEvaluationFixture(t, 4, 3, &stubCompleter{response: "not json at all"})
	fixture.storeScore(fixture.candidates.candidates[0].ID, floatPtr(10))
	fixture.storeScore(fixture.candidates.candidates[1].ID, floatPtr(90))

	report, err := fixture.service.ScoreAll(context.Background(), fixture.companyID, fixture.job.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Candidates) != 3 {
		t.Fatalf("expected 3 items, got %d", len(report.Candidates))
	}
	if report.Candidates[0].TotalScore == nil || *report.Candidates[0].TotalScore != 90 {
		t.Fatalf("highest score must sort first: %+v", report.Candidates[0])
	}
	if report.Candidates[1].TotalScore == nil || *report.Candidates[1].TotalScore != 10 {
		t.Fatalf("second item out of order: %+v", report.Candidates[1])
	}
	if report.Candidates[2].TotalScore != nil {
		t.Fatalf("failed item must sort last: %+v", report.Candidates[2])
	}

	if len(report.Errors) != 1 {
		t.Fatalf("expected one recorded error, got %v", report.Errors)
	}
	failedID := fixture.candidates.candidates[2].ID
	if !strings.Contains(report.Errors[0], "Scoring failed for candidate "+failedID.String()) {
		t.Fatalf("error does not name the failed candidate: %q", report.Errors[0])
	}
	if !strings.Contains(report.Message, "(1 errors occurred)") {
		t.Fatalf("report message does not surface the error count: %q", report.Message)
	}
	if report.CandidatesChecked != 3 {
		t.Fatalf("authenticity must still run for the failed item, got %d", report.CandidatesChecked)
	}
}
