package main

import (
	"context"
	"fmt"
	"time"

	"academy-ai/internal/adapter/quizgen"
	"academy-ai/internal/config"
	"academy-ai/internal/database"
	"academy-ai/internal/domain"
	"academy-ai/internal/logger"
	"academy-ai/internal/repository"
	"academy-ai/internal/service"

	"go.uber.org/zap"
)

// Regenerates the diagnostic question bank for every category. Meant to
// run from cron so the 7-day staleness window rarely trips during
// interactive traffic.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		return
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		return
	}
	defer logger.Sync()
	l := logger.Get()

	l.Info("Bank refresh batch starting up...")

	db, err := database.NewSQLXDB(cfg.Database.DSN)
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		l.Fatal("Failed to apply migrations", zap.Error(err))
	}

	bankRepo := repository.NewSQLXQuestionBankRepository(db)
	chunkRepo := repository.NewSQLXChunkRepository(db)

	openaiGenerator, err := quizgen.NewOpenAIQuestionGenerator(
		cfg.LLM.OpenAIAPIKey, cfg.LLM.OpenAIModel, cfg.LLM.Timeout, l)
	if err != nil {
		l.Fatal("Failed to create OpenAI question generator", zap.Error(err))
	}
	generators := []domain.QuestionGenerator{openaiGenerator}
	if cfg.LLM.GeminiAPIKey != "" {
		geminiGenerator, err := quizgen.NewGoogleAIQuestionGenerator(
			context.Background(), cfg.LLM.GeminiAPIKey, cfg.LLM.GeminiModel, cfg.LLM.Timeout, l)
		if err != nil {
			l.Fatal("Failed to create Gemini question generator", zap.Error(err))
		}
		generators = append(generators, geminiGenerator)
	}

	bankService := service.NewQuestionBankService(bankRepo, chunkRepo, generators, cfg.Bank, l)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	report := bankService.RefreshAll(ctx)
	failed := 0
	for category, result := range report {
		if result.Success {
			l.Info("Category refreshed",
				zap.String("category", string(category)),
				zap.Int("count", result.Count),
			)
			continue
		}
		failed++
		l.Error("Category refresh failed",
			zap.String("category", string(category)),
			zap.String("error", result.Error),
		)
	}

	if failed > 0 {
		l.Warn("Bank refresh finished with failures", zap.Int("failed", failed))
		return
	}
	l.Info("Bank refresh finished")
}
