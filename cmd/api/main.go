package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"academy-ai/internal/adapter"
	"academy-ai/internal/adapter/embedding"
	"academy-ai/internal/adapter/quizgen"
	"academy-ai/internal/adapter/ratelimit"
	"academy-ai/internal/cache"
	"academy-ai/internal/config"
	"academy-ai/internal/database"
	"academy-ai/internal/domain"
	"academy-ai/internal/handler"
	"academy-ai/internal/logger"
	"academy-ai/internal/middleware"
	"academy-ai/internal/repository"
	"academy-ai/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to database and apply migrations
	db, err := database.NewSQLXDB(cfg.Database.DSN)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		appLogger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	// Initialize Redis client and cache adapter
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	// Initialize embedding service
	embeddingService, err := embedding.NewOpenAIEmbeddingService(
		cfg.Embedding.APIKey,
		cfg.Embedding.Model,
		cfg.Embedding.Dimension,
		cacheAdapter,
		cfg.CacheTTLs.Embedding,
	)
	if err != nil {
		appLogger.Fatal("Failed to create embedding service", zap.Error(err))
	}
	appLogger.Info("OpenAI Embedding Service initialized", zap.String("model", cfg.Embedding.Model))

	// Chat/summary model
	chatModel, err := openai.New(
		openai.WithToken(cfg.LLM.OpenAIAPIKey),
		openai.WithModel(cfg.LLM.OpenAIModel),
	)
	if err != nil {
		appLogger.Fatal("Failed to create chat model", zap.Error(err))
	}

	// Question generators, primary first. Gemini is optional: without an
	// API key the chain is OpenAI then static questions.
	openaiGenerator, err := quizgen.NewOpenAIQuestionGenerator(
		cfg.LLM.OpenAIAPIKey, cfg.LLM.OpenAIModel, cfg.LLM.Timeout, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create OpenAI question generator", zap.Error(err))
	}
	generators := []domain.QuestionGenerator{openaiGenerator}
	if cfg.LLM.GeminiAPIKey != "" {
		geminiGenerator, err := quizgen.NewGoogleAIQuestionGenerator(
			context.Background(), cfg.LLM.GeminiAPIKey, cfg.LLM.GeminiModel, cfg.LLM.Timeout, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to create Gemini question generator", zap.Error(err))
		}
		generators = append(generators, geminiGenerator)
	}

	// Initialize repositories
	chunkRepository := repository.NewSQLXChunkRepository(db)
	bankRepository := repository.NewSQLXQuestionBankRepository(db)
	sessionStore := repository.NewMemorySessionStore()

	// Initialize services
	retriever := service.NewRetrievalService(embeddingService, chunkRepository, appLogger)
	generationService := service.NewGenerationService(
		retriever,
		chatModel,
		cfg.LLM.OpenAIModel,
		cacheAdapter,
		cfg.CacheTTLs.Summary,
		cfg.LLM.Timeout,
		appLogger,
	)
	bankService := service.NewQuestionBankService(bankRepository, chunkRepository, generators, cfg.Bank, appLogger)
	diagnosticService := service.NewDiagnosticService(sessionStore, bankService, cfg.Bank.CategoryLessons, appLogger)

	rateLimitStore := ratelimit.NewRedisStore(redisClient)

	// Initialize handlers
	aiHandler := handler.NewAIHandler(embeddingService, retriever, generationService)
	diagnosticHandler := handler.NewDiagnosticHandler(diagnosticService)
	bankHandler := handler.NewBankHandler(bankService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())

	protected := middleware.Protected(cfg.JWTSecret)
	chatLimit := middleware.RateLimit(rateLimitStore, "chat", cfg.RateLimit.ChatMaxRequests, cfg.RateLimit.ChatWindow)
	summaryLimit := middleware.RateLimit(rateLimitStore, "summary-generation", cfg.RateLimit.SummaryMaxRequests, cfg.RateLimit.SummaryWindow)

	apiGroup := app.Group("/api")

	aiGroup := apiGroup.Group("/ai", protected)
	aiGroup.Post("/embed", aiHandler.Embed)
	aiGroup.Post("/search", aiHandler.Search)

	lessonGroup := apiGroup.Group("/lessons", protected)
	lessonGroup.Get("/:lessonId/summary", summaryLimit, aiHandler.Summarize)
	lessonGroup.Post("/:lessonId/chat", chatLimit, aiHandler.Chat)

	diagnosticGroup := apiGroup.Group("/diagnostic/sessions", protected)
	diagnosticGroup.Post("/", diagnosticHandler.StartSession)
	diagnosticGroup.Get("/:sessionId", diagnosticHandler.GetSessionState)
	diagnosticGroup.Post("/:sessionId/answers", diagnosticHandler.SubmitAnswer)
	diagnosticGroup.Get("/:sessionId/results", diagnosticHandler.GetResults)

	adminGroup := apiGroup.Group("/admin", protected)
	adminGroup.Post("/question-bank/refresh", bankHandler.RefreshAll)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
