package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"recroai/backend/internal/llm"
	"recroai/backend/internal/services"
)

// companyIDFromRequest reads the company scope. Authentication happens
// upstream; the gateway injects the authenticated company into this
// header.
func companyIDFromRequest(c *fiber.Ctx) (uuid.UUID, error) {
	header := c.Get("X-Company-ID")
	if header == "" {
		return uuid.Nil, errors.New("missing X-Company-ID header")
	}
	id, err := uuid.Parse(header)
	if err != nil {
		return uuid.Nil, errors.New("invalid X-Company-ID header")
	}
	return id, nil
}

// respondError maps service errors to HTTP status codes. Malformed or
// out-of-contract model output surfaces as a bad upstream response, not
// as a client error.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch {
	case errors.Is(err, services.ErrJobNotFound),
		errors.Is(err, services.ErrCandidateNotFound),
		errors.Is(err, services.ErrScoreNotFound),
		errors.Is(err, services.ErrNoCandidates):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrDuplicateScore),
		errors.Is(err, services.ErrBatchTooLarge):
		status = fiber.StatusBadRequest
	case errors.Is(err, llm.ErrNotConfigured):
		status = fiber.StatusServiceUnavailable
	case errors.Is(err, llm.ErrTransport),
		errors.Is(err, services.ErrMalformedOutput),
		errors.Is(err, services.ErrValidation):
		status = fiber.StatusBadGateway
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
