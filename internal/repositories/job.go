package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"recroai/backend/internal/models"
)

type JobRepository interface {
	FindByCompanyAndID(companyID, id uuid.UUID) (*models.Job, error)
	FindByCompany(companyID uuid.UUID) ([]models.Job, error)
	CountByCompany(companyID uuid.UUID) (int64, error)
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) FindByCompanyAndID(companyID, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	err := r.db.Where("id = ? AND company_id = ?", id, companyID).First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	return &job, nil
}

func (r *jobRepository) FindByCompany(companyID uuid.UUID) ([]models.Job, error) {
	var jobs []models.Job
	if err := r.db.Where("company_id = ?", companyID).Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

func (r *jobRepository) CountByCompany(companyID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Job{}).Where("company_id = ?", companyID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return count, nil
}
