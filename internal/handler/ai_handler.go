package handler

import (
	"strings"

	"academy-ai/internal/domain"
	"academy-ai/internal/dto"
	"academy-ai/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	defaultSearchLimit     = 5
	maxSearchLimit         = 20
	defaultSearchThreshold = 0.5
)

// AIHandler handles embedding, search, summary and chat HTTP requests.
type AIHandler struct {
	embedder  domain.EmbeddingService
	retriever domain.ChunkRetriever
	generator domain.GenerationService
}

// NewAIHandler creates a new AIHandler instance.
func NewAIHandler(
	embedder domain.EmbeddingService,
	retriever domain.ChunkRetriever,
	generator domain.GenerationService,
) *AIHandler {
	return &AIHandler{
		embedder:  embedder,
		retriever: retriever,
		generator: generator,
	}
}

// Embed handles POST /api/ai/embed
func (h *AIHandler) Embed(c *fiber.Ctx) error {
	var req dto.EmbedRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	vector, err := h.embedder.Embed(c.Context(), req.Text)
	if err != nil {
		return err
	}

	return c.JSON(dto.EmbedResponse{
		Vector:    vector,
		Dimension: len(vector),
	})
}

// Search handles POST /api/ai/search
func (h *AIHandler) Search(c *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	threshold := req.Threshold
	if threshold == 0 {
		threshold = defaultSearchThreshold
	}
	if threshold < 0 || threshold > 1 {
		return domain.NewInvalidInputError("threshold must be within [0, 1]")
	}

	matches, err := h.retriever.Search(c.Context(), req.Query, limit, threshold, domain.ChunkScope{
		LessonID: req.LessonID,
	})
	if err != nil {
		return err
	}

	views := make([]dto.ChunkMatchView, 0, len(matches))
	for _, m := range matches {
		views = append(views, dto.NewChunkMatchView(m))
	}
	return c.JSON(dto.SearchResponse{Matches: views})
}

// Summarize handles GET /api/lessons/:lessonId/summary
func (h *AIHandler) Summarize(c *fiber.Ctx) error {
	lessonID := strings.TrimSpace(c.Params("lessonId"))
	if lessonID == "" {
		return domain.NewInvalidInputError("lesson id is required")
	}
	forceRefresh := c.QueryBool("forceRefresh", false)

	result, err := h.generator.Summarize(c.Context(), lessonID, forceRefresh)
	if err != nil {
		return err
	}

	logger.Get().Debug("Served lesson summary",
		zap.String("lesson_id", lessonID),
		zap.Bool("from_cache", result.FromCache),
	)

	return c.JSON(dto.SummaryResponse{
		Text:      result.Text,
		Citations: result.Citations,
		FromCache: result.FromCache,
	})
}

// Chat handles POST /api/lessons/:lessonId/chat
func (h *AIHandler) Chat(c *fiber.Ctx) error {
	lessonID := strings.TrimSpace(c.Params("lessonId"))
	if lessonID == "" {
		return domain.NewInvalidInputError("lesson id is required")
	}

	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	result, err := h.generator.Chat(c.Context(), lessonID, req.Message, req.History)
	if err != nil {
		return err
	}

	return c.JSON(dto.ChatResponse{
		Text:      result.Text,
		Citations: result.Citations,
		ModelUsed: result.ModelUsed,
	})
}
