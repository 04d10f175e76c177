package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"recroai/backend/internal/models"
)

type CandidateRepository interface {
	FindByCompanyAndID(companyID, id uuid.UUID) (*models.Candidate, error)
	FindByCompany(companyID uuid.UUID) ([]models.Candidate, error)
	CountByCompany(companyID uuid.UUID) (int64, error)
}

type candidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) FindByCompanyAndID(companyID, id uuid.UUID) (*models.Candidate, error) {
	var candidate models.Candidate
	err := r.db.Where("id = ? AND company_id = ?", id, companyID).First(&candidate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find candidate: %w", err)
	}
	return &candidate, nil
}

func (r *candidateRepository) FindByCompany(companyID uuid.UUID) ([]models.Candidate, error) {
	var candidates []models.Candidate
	err := r.db.
		Where("company_id = ?", companyID).
		Order("created_at ASC").
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return candidates, nil
}

func (r *candidateRepository) CountByCompany(companyID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Candidate{}).Where("company_id = ?", companyID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count candidates: %w", err)
	}
	return count, nil
}
