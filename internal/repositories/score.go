package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"recroai/backend/internal/models"
)

type ScoreRepository interface {
	FindByCandidateAndJob(candidateID, jobID uuid.UUID) (*models.CandidateScore, error)
	Create(score *models.CandidateScore) error
	DeleteByID(id uuid.UUID) error
	FindByCompany(companyID uuid.UUID) ([]models.CandidateScore, error)
}

type scoreRepository struct {
	db *gorm.DB
}

func NewScoreRepository(db *gorm.DB) ScoreRepository {
	return &scoreRepository{db: db}
}

func (r *scoreRepository) FindByCandidateAndJob(candidateID, jobID uuid.UUID) (*models.CandidateScore, error) {
	var score models.CandidateScore
	err := r.db.Where("candidate_id = ? AND job_id = ?", candidateID, jobID).First(&score).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find score: %w", err)
	}
	return &score, nil
}

func (r *scoreRepository) Create(score *models.CandidateScore) error {
	if score.ID == uuid.Nil {
		score.ID = uuid.New()
	}
	if err := r.db.Create(score).Error; err != nil {
		return fmt.Errorf("failed to create score: %w", err)
	}
	return nil
}

func (r *scoreRepository) DeleteByID(id uuid.UUID) error {
	result := r.db.Delete(&models.CandidateScore{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete score: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *scoreRepository) FindByCompany(companyID uuid.UUID) ([]models.CandidateScore, error) {
	var scores []models.CandidateScore
	err := r.db.
		Where("candidate_id IN (?)",
			r.db.Model(&models.Candidate{}).Select("id").Where("company_id = ?", companyID)).
		Find(&scores).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	return scores, nil
}
