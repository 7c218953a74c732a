package service

import (
	"context"
	"time"

	"academy-ai/internal/config"
	"academy-ai/internal/domain"

	"go.uber.org/zap"
)

// QuestionBankService orchestrates per-category question generation with
// a model fallback chain and TTL-based staleness.
type QuestionBankService struct {
	bankRepo   domain.QuestionBankRepository
	chunkRepo  domain.ChunkRepository
	generators []domain.QuestionGenerator
	cfg        config.BankConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewQuestionBankService creates a new QuestionBankService. Generators
// are tried in the given order: primary model first, fallback after.
func NewQuestionBankService(
	bankRepo domain.QuestionBankRepository,
	chunkRepo domain.ChunkRepository,
	generators []domain.QuestionGenerator,
	cfg config.BankConfig,
	logger *zap.Logger,
) *QuestionBankService {
	return &QuestionBankService{
		bankRepo:   bankRepo,
		chunkRepo:  chunkRepo,
		generators: generators,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// contextChunkLimit caps how many chunks ground a category's generation.
const contextChunkLimit = 20

// RefreshAll regenerates every category's bank sequentially. Each
// category is an independent failure domain: one category exhausting its
// fallback chain never aborts the rest, and its previous bank entry is
// left untouched. Processing categories strictly one at a time also
// means no two regenerations of the same category can overlap.
func (s *QuestionBankService) RefreshAll(ctx context.Context) map[domain.Category]domain.CategoryRefreshResult {
	s.logger.Info("Starting question bank refresh")

	report := make(map[domain.Category]domain.CategoryRefreshResult, len(domain.AllCategories))
	for _, category := range domain.AllCategories {
		report[category] = s.refreshCategory(ctx, category)
	}

	s.logger.Info("Question bank refresh finished")
	return report
}

func (s *QuestionBankService) refreshCategory(ctx context.Context, category domain.Category) domain.CategoryRefreshResult {
	log := s.logger.With(zap.String("category", string(category)))

	contextChunks, err := s.loadCategoryContext(ctx, category)
	if err != nil {
		// Context is an enrichment, not a requirement; generation
		// proceeds from general domain knowledge without it.
		log.Warn("Failed to load category context, generating without it", zap.Error(err))
		contextChunks = nil
	}

	total := s.cfg.QuestionsPerCategory
	batchSize := s.cfg.BatchSize
	if batchSize <= 0 || batchSize > 10 {
		// Provider output degrades past ~10 questions per call.
		batchSize = 10
	}

	var questions []domain.DiagnosticQuestion
	for generated := 0; generated < total; {
		count := batchSize
		if remaining := total - generated; remaining < count {
			count = remaining
		}

		outcome := tryInOrder(ctx, s.generators, category, contextChunks, count)
		if outcome.Exhausted() {
			err := outcome.ExhaustedError()
			log.Error("All generation tiers failed for category", zap.Error(err))
			return domain.CategoryRefreshResult{Success: false, Count: 0, Error: err.Error()}
		}

		log.Info("Generated question batch",
			zap.String("tier", outcome.Tier),
			zap.Int("count", len(outcome.Questions)),
		)
		questions = append(questions, outcome.Questions...)
		generated += len(outcome.Questions)
		if len(outcome.Questions) == 0 {
			break
		}
	}

	if len(questions) == 0 {
		return domain.CategoryRefreshResult{Success: false, Count: 0, Error: "no questions generated"}
	}

	bank := &domain.QuestionBank{
		Category:    category,
		Questions:   questions,
		GeneratedAt: s.now(),
	}
	if err := s.bankRepo.UpsertBank(ctx, bank); err != nil {
		log.Error("Failed to store refreshed bank", zap.Error(err))
		return domain.CategoryRefreshResult{Success: false, Count: 0, Error: err.Error()}
	}

	return domain.CategoryRefreshResult{Success: true, Count: len(questions)}
}

// loadCategoryContext fetches up to contextChunkLimit chunks from the
// lessons mapped to the category. Categories without a mapped course
// return nothing.
func (s *QuestionBankService) loadCategoryContext(ctx context.Context, category domain.Category) ([]domain.ContentChunk, error) {
	lessonIDs := s.cfg.CategoryLessons[string(category)]
	if len(lessonIDs) == 0 {
		return nil, nil
	}

	chunks, err := s.chunkRepo.GetChunks(ctx, domain.ChunkScope{LessonIDs: lessonIDs})
	if err != nil {
		return nil, err
	}
	if len(chunks) > contextChunkLimit {
		chunks = chunks[:contextChunkLimit]
	}
	return chunks, nil
}

// QuestionsForQuiz returns usable questions for a category. A stale bank
// is still served immediately; staleness only flags it for background
// regeneration (the caller decides whether to kick one off). When no
// bank exists at all, the static fallback set is used.
func (s *QuestionBankService) QuestionsForQuiz(ctx context.Context, category domain.Category) ([]domain.DiagnosticQuestion, bool, error) {
	bank, err := s.bankRepo.GetBank(ctx, category)
	if err != nil {
		return nil, false, err
	}
	if bank == nil || len(bank.Questions) == 0 {
		return StaticQuestionsForCategory(category), false, nil
	}

	stale := bank.IsStale(s.cfg.TTL, s.now())
	return bank.Questions, stale, nil
}

// RefreshCategoryAsync regenerates one category in the background. Used
// when a quiz read finds a stale bank; serving is never blocked on
// regeneration.
func (s *QuestionBankService) RefreshCategoryAsync(category domain.Category) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		result := s.refreshCategory(ctx, category)
		if !result.Success {
			s.logger.Warn("Background bank refresh failed",
				zap.String("category", string(category)),
				zap.String("error", result.Error),
			)
		}
	}()
}
