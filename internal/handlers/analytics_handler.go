package handlers

import (
	"github.com/gofiber/fiber/v2"

	"recroai/backend/internal/services"
)

type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// HandleGetSummary handles GET /analytics
func (h *AnalyticsHandler) HandleGetSummary(c *fiber.Ctx) error {
	companyID, err := companyIDFromRequest(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	summary, err := h.analyticsService.GetSummary(c.Context(), companyID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(summary)
}
