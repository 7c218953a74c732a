package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"academy-ai/internal/cache"
	"academy-ai/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	// NoContentMessage is returned for lessons with no ingested
	// transcript. Absence of content is a valid state, not an error.
	NoContentMessage = "There is no transcript available for this lesson yet, so a summary cannot be generated."

	citationPreviewLimit = 200
	chatTopK             = 5
	chatMinSimilarity    = 0.3
	chatHistoryLimit     = 10
	maxChatMessageLen    = 2000
)

const summarySystemPrompt = `You are a study assistant for a marketplace-seller academy.
Summarize the lesson transcript below into a short structured summary: key ideas first,
then practical takeaways. Every claim must reference its source fragment using a
bracketed index like [1] or [3]. Use only the numbered fragments provided.`

const chatSystemPromptTemplate = `You are a study assistant for a marketplace-seller academy.
Answer the learner's question using ONLY the lesson context below. Cite the fragments
you rely on with bracketed indices like [1]. If the context does not contain the answer,
say so and decline; do not invent information.

Lesson context:
%s`

// noContextMarker is embedded in the chat system prompt when retrieval
// found nothing relevant, so the model declines instead of guessing.
const noContextMarker = "(no relevant lesson context was found for this question)"

// generationService implements domain.GenerationService. Both operations
// follow the same pattern: build a grounded context, call the model,
// attach positionally aligned citations. There is no retry or model
// fallback at this layer; failures surface to the caller directly.
type generationService struct {
	retriever  domain.ChunkRetriever
	model      llms.Model
	modelName  string
	cache      domain.Cache
	summaryTTL time.Duration
	timeout    time.Duration
	sfGroup    singleflight.Group
	logger     *zap.Logger
}

// NewGenerationService creates a new instance of generationService.
func NewGenerationService(
	retriever domain.ChunkRetriever,
	model llms.Model,
	modelName string,
	cacheClient domain.Cache,
	summaryTTL time.Duration,
	timeout time.Duration,
	logger *zap.Logger,
) domain.GenerationService {
	return &generationService{
		retriever:  retriever,
		model:      model,
		modelName:  modelName,
		cache:      cacheClient,
		summaryTTL: summaryTTL,
		timeout:    timeout,
		logger:     logger,
	}
}

// Summarize implements domain.GenerationService.
func (s *generationService) Summarize(ctx context.Context, lessonID string, forceRefresh bool) (*domain.GenerationResult, error) {
	if strings.TrimSpace(lessonID) == "" {
		return nil, domain.NewInvalidInputError("lesson id is required")
	}

	cacheKey := cache.GenerateCacheKey("summary", "lesson", lessonID)

	if s.cache != nil && !forceRefresh {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			var result domain.GenerationResult
			if errDecode := json.Unmarshal([]byte(cached), &result); errDecode == nil {
				result.FromCache = true
				return &result, nil
			}
			s.logger.Warn("Dropping undecodable cached summary", zap.String("lesson_id", lessonID))
		}
	}

	res, err, _ := s.sfGroup.Do(cacheKey, func() (interface{}, error) {
		result, genErr := s.generateSummary(ctx, lessonID)
		if genErr != nil {
			return nil, genErr
		}
		if s.cache != nil {
			if payload, errEncode := json.Marshal(result); errEncode == nil {
				_ = s.cache.Set(ctx, cacheKey, string(payload), s.summaryTTL)
			}
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*domain.GenerationResult), nil
}

func (s *generationService) generateSummary(ctx context.Context, lessonID string) (*domain.GenerationResult, error) {
	matches, err := s.retriever.GetAllChunks(ctx, domain.ChunkScope{LessonID: lessonID})
	if err != nil {
		return nil, err
	}

	if len(matches) == 0 {
		return &domain.GenerationResult{
			Text:      NoContentMessage,
			Citations: []domain.Citation{},
			ModelUsed: s.modelName,
		}, nil
	}

	contextBlock, citations := buildContextBlock(matches)

	text, err := s.generate(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, summarySystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, contextBlock),
	})
	if err != nil {
		return nil, err
	}

	return &domain.GenerationResult{
		Text:      text,
		Citations: citations,
		ModelUsed: s.modelName,
	}, nil
}

// Chat implements domain.GenerationService. Citations are built from the
// matched chunks only, not all lesson chunks.
func (s *generationService) Chat(ctx context.Context, lessonID, message string, history []domain.ChatTurn) (*domain.GenerationResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, domain.NewEmptyInputError("chat message cannot be empty")
	}
	if len(message) > maxChatMessageLen {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("chat message exceeds %d characters", maxChatMessageLen))
	}

	matches, err := s.retriever.Search(ctx, message, chatTopK, chatMinSimilarity, domain.ChunkScope{LessonID: lessonID})
	if err != nil {
		return nil, err
	}

	var contextBlock string
	var citations []domain.Citation
	if len(matches) == 0 {
		contextBlock = noContextMarker
		citations = []domain.Citation{}
	} else {
		contextBlock, citations = buildContextBlock(matches)
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, fmt.Sprintf(chatSystemPromptTemplate, contextBlock)),
	}
	for _, turn := range lastTurns(history, chatHistoryLimit) {
		role := llms.ChatMessageTypeHuman
		if turn.Role == "assistant" {
			role = llms.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, turn.Content))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, message))

	text, err := s.generate(ctx, messages)
	if err != nil {
		return nil, err
	}

	return &domain.GenerationResult{
		Text:      text,
		Citations: citations,
		ModelUsed: s.modelName,
	}, nil
}

func (s *generationService) generate(ctx context.Context, messages []llms.MessageContent) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.model.GenerateContent(ctx, messages)
	if err != nil {
		return "", domain.NewGenerationFailureError(err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		return "", domain.NewGenerationFailureError(fmt.Errorf("model returned an empty response"))
	}
	return resp.Choices[0].Content, nil
}

// buildContextBlock renders matches as numbered "[i] (start-end) text"
// fragments and the citation list the indices resolve to. The positional
// mapping ([1] -> citations[0]) must hold exactly.
func buildContextBlock(matches []domain.ChunkMatch) (string, []domain.Citation) {
	var b strings.Builder
	citations := make([]domain.Citation, 0, len(matches))

	for i, match := range matches {
		chunk := match.Chunk
		fmt.Fprintf(&b, "[%d] (%s-%s) %s\n\n",
			i+1, formatOffset(chunk.StartSeconds), formatOffset(chunk.EndSeconds), chunk.Text)
		citations = append(citations, domain.Citation{
			ChunkID:      chunk.ID,
			StartSeconds: chunk.StartSeconds,
			EndSeconds:   chunk.EndSeconds,
			Preview:      truncate(chunk.Text, citationPreviewLimit),
		})
	}
	return strings.TrimSpace(b.String()), citations
}

func formatOffset(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func lastTurns(history []domain.ChatTurn, limit int) []domain.ChatTurn {
	if len(history) <= limit {
		return history
	}
	return history[len(history)-limit:]
}
