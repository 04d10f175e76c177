package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"recroai/backend/internal/models"
	"recroai/backend/internal/services"
)

type ScoringHandler struct {
	evaluationService services.EvaluationService
}

func NewScoringHandler(evaluationService services.EvaluationService) *ScoringHandler {
	return &ScoringHandler{evaluationService: evaluationService}
}

// HandleScore handles POST /scoring/score
func (h *ScoringHandler) HandleScore(c *fiber.Ctx) error {
	companyID, err := companyIDFromRequest(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var req models.ScoringRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	candidateID, err := uuid.Parse(req.CandidateID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate_id format",
		})
	}

	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job_id format",
		})
	}

	score, err := h.evaluationService.ScoreCandidate(c.Context(), companyID, candidateID, jobID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.ScoringResultResponse{
		Message:        "Candidate scored successfully",
		ScoreID:        score.ID,
		TotalScore:     *score.TotalScore,
		CategoryScores: score.CategoryScores,
		Explanation:    score.Explanation,
	})
}

// HandleGetScore handles GET /scoring/candidate/:candidate_id/job/:job_id
func (h *ScoringHandler) HandleGetScore(c *fiber.Ctx) error {
	companyID, err := companyIDFromRequest(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	candidateID, err := uuid.Parse(c.Params("candidate_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate_id format",
		})
	}

	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job_id format",
		})
	}

	score, err := h.evaluationService.GetScore(c.Context(), companyID, candidateID, jobID)
	if err != nil {
		return respondError(c, err)
	}

	total := 0.0
	if score.TotalScore != nil {
		total = *score.TotalScore
	}

	return c.JSON(models.ScoringResultResponse{
		Message:        "Score retrieved successfully",
		ScoreID:        score.ID,
		TotalScore:     total,
		CategoryScores: score.CategoryScores,
		Explanation:    score.Explanation,
	})
}

// HandleScoreAll handles POST /scoring/score-all
func (h *ScoringHandler) HandleScoreAll(c *fiber.Ctx) error {
	companyID, err := companyIDFromRequest(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var req models.BulkScoringRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job_id format",
		})
	}

	report, err := h.evaluationService.ScoreAll(c.Context(), companyID, jobID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(report)
}
