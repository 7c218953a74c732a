package handler

import (
	"academy-ai/internal/domain"
	"academy-ai/internal/dto"
	"academy-ai/internal/logger"
	"academy-ai/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// BankHandler handles question bank administration requests.
type BankHandler struct {
	service *service.QuestionBankService
}

// NewBankHandler creates a new BankHandler instance.
func NewBankHandler(service *service.QuestionBankService) *BankHandler {
	return &BankHandler{service: service}
}

// RefreshAll handles POST /api/admin/question-bank/refresh
//
// The refresh runs synchronously and reports per-category outcomes;
// one category failing does not abort the others, so the caller can see
// partial success instead of a blanket error.
func (h *BankHandler) RefreshAll(c *fiber.Ctx) error {
	report := h.service.RefreshAll(c.Context())

	categories := make(map[string]domain.CategoryRefreshResult, len(report))
	failed := 0
	for category, result := range report {
		categories[string(category)] = result
		if !result.Success {
			failed++
		}
	}

	logger.Get().Info("Question bank refresh finished",
		zap.Int("categories", len(report)),
		zap.Int("failed", failed),
	)

	return c.JSON(dto.RefreshBankResponse{Categories: categories})
}
