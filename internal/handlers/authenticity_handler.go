package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"recroai/backend/internal/services"
)

type AuthenticityHandler struct {
	evaluationService services.EvaluationService
}

func NewAuthenticityHandler(evaluationService services.EvaluationService) *AuthenticityHandler {
	return &AuthenticityHandler{evaluationService: evaluationService}
}

// HandleCheck handles POST /candidates/:id/authenticity
func (h *AuthenticityHandler) HandleCheck(c *fiber.Ctx) error {
	companyID, err := companyIDFromRequest(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	candidateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate id format",
		})
	}

	flag, err := h.evaluationService.CheckAuthenticity(c.Context(), companyID, candidateID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(flag)
}
