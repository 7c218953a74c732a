package handler

import (
	"academy-ai/internal/domain"
	"academy-ai/internal/dto"
	"academy-ai/internal/middleware"
	"academy-ai/internal/service"

	"github.com/gofiber/fiber/v2"
)

// DiagnosticHandler handles diagnostic quiz session HTTP requests.
type DiagnosticHandler struct {
	service *service.DiagnosticService
}

// NewDiagnosticHandler creates a new DiagnosticHandler instance.
func NewDiagnosticHandler(service *service.DiagnosticService) *DiagnosticHandler {
	return &DiagnosticHandler{service: service}
}

// StartSession handles POST /api/diagnostic/sessions
func (h *DiagnosticHandler) StartSession(c *fiber.Ctx) error {
	userID := middleware.UserIDFromCtx(c)

	resp, err := h.service.StartSession(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetSessionState handles GET /api/diagnostic/sessions/:sessionId
func (h *DiagnosticHandler) GetSessionState(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")
	if sessionID == "" {
		return domain.NewInvalidInputError("session id is required")
	}

	resp, err := h.service.GetSessionState(c.Context(), sessionID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SubmitAnswer handles POST /api/diagnostic/sessions/:sessionId/answers
func (h *DiagnosticHandler) SubmitAnswer(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")
	if sessionID == "" {
		return domain.NewInvalidInputError("session id is required")
	}

	var req dto.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	resp, err := h.service.SubmitAnswer(c.Context(), sessionID, req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetResults handles GET /api/diagnostic/sessions/:sessionId/results
func (h *DiagnosticHandler) GetResults(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")
	if sessionID == "" {
		return domain.NewInvalidInputError("session id is required")
	}

	resp, err := h.service.GetResults(c.Context(), sessionID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
