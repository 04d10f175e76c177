package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"recroai/backend/internal/models"
)

type FlagRepository interface {
	FindByCandidate(candidateID uuid.UUID) (*models.AuthenticityFlag, error)
	Upsert(candidateID uuid.UUID, result models.AuthenticityResult) (*models.AuthenticityFlag, error)
	FindByCompany(companyID uuid.UUID) ([]models.AuthenticityFlag, error)
}

type flagRepository struct {
	db *gorm.DB
}

func NewFlagRepository(db *gorm.DB) FlagRepository {
	return &flagRepository{db: db}
}

func (r *flagRepository) FindByCandidate(candidateID uuid.UUID) (*models.AuthenticityFlag, error) {
	var flag models.AuthenticityFlag
	err := r.db.Where("candidate_id = ?", candidateID).First(&flag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find authenticity flag: %w", err)
	}
	return &flag, nil
}

// Upsert stores the verdict for a candidate, overwriting the live flag in
// place. A candidate has exactly one flag at all times.
func (r *flagRepository) Upsert(candidateID uuid.UUID, result models.AuthenticityResult) (*models.AuthenticityFlag, error) {
	existing, err := r.FindByCandidate(candidateID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		updates := map[string]interface{}{
			"is_suspicious": result.IsSuspicious,
			"risk_score":    result.RiskScore,
			"reason":        result.Reason,
			"updated_at":    time.Now(),
		}
		if err := r.db.Model(&models.AuthenticityFlag{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update authenticity flag: %w", err)
		}
		existing.IsSuspicious = result.IsSuspicious
		existing.RiskScore = result.RiskScore
		existing.Reason = result.Reason
		return existing, nil
	}

	flag := &models.AuthenticityFlag{
		ID:           uuid.New(),
		CandidateID:  candidateID,
		IsSuspicious: result.IsSuspicious,
		RiskScore:    result.RiskScore,
		Reason:       result.Reason,
	}
	if err := r.db.Create(flag).Error; err != nil {
		return nil, fmt.Errorf("failed to create authenticity flag: %w", err)
	}
	return flag, nil
}

func (r *flagRepository) FindByCompany(companyID uuid.UUID) ([]models.AuthenticityFlag, error) {
	var flags []models.AuthenticityFlag
	err := r.db.
		Where("candidate_id IN (?)",
			r.db.Model(&models.Candidate{}).Select("id").Where("company_id = ?", companyID)).
		Find(&flags).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list authenticity flags: %w", err)
	}
	return flags, nil
}
