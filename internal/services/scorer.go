package services

import (
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"recroai/backend/internal/llm"
	"recroai/backend/internal/logger"
	"recroai/backend/internal/models"
)

const scoringTemperature = 0.3

// ScorerService produces a validated scoring result for one
// (job criteria, candidate profile) pair. Exactly one completion call is
// attempted per invocation; a malformed or out-of-contract response is a
// terminal failure for that call.
type ScorerService interface {
	Score(ctx context.Context, jobCriteria models.JSONMap, candidateProfile string) (*models.ScoringResult, error)
}

type scorerService struct {
	completer      llm.Completer
	promptBuilder  *PromptBuilder
	minExplanation int
	log            *zap.Logger
}

// NewScorerService builds a scorer. completer may be nil when no provider
// is configured; every Score call then fails with llm.ErrNotConfigured.
func NewScorerService(completer llm.Completer, minExplanation int, log *zap.Logger) ScorerService {
	return &scorerService{
		completer:      completer,
		promptBuilder:  NewPromptBuilder(),
		minExplanation: minExplanation,
		log:            log,
	}
}

// Score implements ScorerService.
func (s *scorerService) Score(ctx context.Context, jobCriteria models.JSONMap, candidateProfile string) (*models.ScoringResult, error) {
	if s.completer == nil {
		return nil, fmt.Errorf("cannot score candidate: %w", llm.ErrNotConfigured)
	}

	criteriaJSON, err := json.MarshalIndent(jobCriteria, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize job criteria: %w", err)
	}

	prompt := s.promptBuilder.BuildScoringPrompt(string(criteriaJSON), candidateProfile)

	s.log.Debug("scoring completion request",
		zap.String("model", s.completer.Model()),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
	)

	raw, err := s.completer.Complete(ctx, ScoringSystemPrompt, prompt, scoringTemperature, true)
	if err != nil {
		return nil, fmt.Errorf("scoring completion failed: %w", err)
	}

	s.log.Debug("scoring completion response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.Truncate(raw, 200)),
	)

	doc, err := ParseScoringDocument(raw)
	if err != nil {
		return nil, err
	}

	result, err := ValidateScoringDocument(doc, FixedCategories, s.minExplanation)
	if err != nil {
		return nil, err
	}

	return result, nil
}
