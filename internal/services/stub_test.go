package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"recroai/backend/internal/models"
	"recroai/backend/internal/repositories"
)

type stubCompleter struct {
	response   string
	err        error
	calls      int
	lastSystem string
	lastPrompt string
}

func (s *stubCompleter) Complete(_ context.Context, systemPrompt, userPrompt string, _ float32, _ bool) (string, error) {
	s.calls++
	s.lastSystem = systemPrompt
	s.lastPrompt = userPrompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubCompleter) Model() string {
	return "stub-model"
}

type memJobRepo struct {
	jobs map[uuid.UUID]models.Job
}

func newMemJobRepo(jobs ...models.Job) *memJobRepo {
	repo := &memJobRepo{jobs: make(map[uuid.UUID]models.Job)}
	for _, job := range jobs {
		repo.jobs[job.ID] = job
	}
	return repo
}

func (r *memJobRepo) FindByCompanyAndID(companyID, id uuid.UUID) (*models.Job, error) {
	job, ok := r.jobs[id]
	if !ok || job.CompanyID != companyID {
		return nil, repositories.ErrNotFound
	}
	return &job, nil
}

func (r *memJobRepo) FindByCompany(companyID uuid.UUID) ([]models.Job, error) {
	var out []models.Job
	for _, job := range r.jobs {
		if job.CompanyID == companyID {
			out = append(out, job)
		}
	}
	return out, nil
}

func (r *memJobRepo) CountByCompany(companyID uuid.UUID) (int64, error) {
	jobs, _ := r.FindByCompany(companyID)
	return int64(len(jobs)), nil
}

type memCandidateRepo struct {
	candidates []models.Candidate
}

func (r *memCandidateRepo) FindByCompanyAndID(companyID, id uuid.UUID) (*models.Candidate, error) {
	for _, candidate := range r.candidates {
		if candidate.ID == id && candidate.CompanyID == companyID {
			c := candidate
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memCandidateRepo) FindByCompany(companyID uuid.UUID) ([]models.Candidate, error) {
	var out []models.Candidate
	for _, candidate := range r.candidates {
		if candidate.CompanyID == companyID {
			out = append(out, candidate)
		}
	}
	return out, nil
}

func (r *memCandidateRepo) CountByCompany(companyID uuid.UUID) (int64, error) {
	out, _ := r.FindByCompany(companyID)
	return int64(len(out)), nil
}

type memScoreRepo struct {
	scores    []models.CandidateScore
	createErr error
}

func (r *memScoreRepo) FindByCandidateAndJob(candidateID, jobID uuid.UUID) (*models.CandidateScore, error) {
	for _, score := range r.scores {
		if score.CandidateID == candidateID && score.JobID == jobID {
			s := score
			return &s, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memScoreRepo) Create(score *models.CandidateScore) error {
	if r.createErr != nil {
		return r.createErr
	}
	if score.ID == uuid.Nil {
		score.ID = uuid.New()
	}
	r.scores = append(r.scores, *score)
	return nil
}

func (r *memScoreRepo) DeleteByID(id uuid.UUID) error {
	for i, score := range r.scores {
		if score.ID == id {
			r.scores = append(r.scores[:i], r.scores[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *memScoreRepo) FindByCompany(uuid.UUID) ([]models.CandidateScore, error) {
	return append([]models.CandidateScore(nil), r.scores...), nil
}

type memFlagRepo struct {
	flags     map[uuid.UUID]models.AuthenticityFlag
	upsertErr error
	upserts   int
}

func newMemFlagRepo() *memFlagRepo {
	return &memFlagRepo{flags: make(map[uuid.UUID]models.AuthenticityFlag)}
}

func (r *memFlagRepo) FindByCandidate(candidateID uuid.UUID) (*models.AuthenticityFlag, error) {
	flag, ok := r.flags[candidateID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &flag, nil
}

func (r *memFlagRepo) Upsert(candidateID uuid.UUID, result models.AuthenticityResult) (*models.AuthenticityFlag, error) {
	if r.upsertErr != nil {
		return nil, r.upsertErr
	}
	r.upserts++
	flag, ok := r.flags[candidateID]
	if !ok {
		flag = models.AuthenticityFlag{ID: uuid.New(), CandidateID: candidateID}
	}
	flag.IsSuspicious = result.IsSuspicious
	flag.RiskScore = result.RiskScore
	flag.Reason = result.Reason
	r.flags[candidateID] = flag
	return &flag, nil
}

func (r *memFlagRepo) FindByCompany(uuid.UUID) ([]models.AuthenticityFlag, error) {
	var out []models.AuthenticityFlag
	for _, flag := range r.flags {
		out = append(out, flag)
	}
	return out, nil
}

// validScoringResponse builds a contract-conforming completion for stubs.
func validScoringResponse(total float64) string {
	return fmt.Sprintf(`{
		"total_score": %v,
		"category_scores": {
			"skills": {"score": 80, "reasoning": "Strong overlap with the required stack"},
			"experience": {"score": 70, "reasoning": "Several years of relevant backend work"},
			"education": {"score": 60, "reasoning": "Related degree with solid fundamentals"},
			"company_match": {"score": 75, "reasoning": "Profile summary aligns with the team culture"}
		},
		"explanation": "The candidate shows a solid match across skills and experience with minor gaps in education.",
		"strengths": ["Go", "distributed systems"],
		"weaknesses": ["no formal certification"]
	}`, total)
}
