package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"academy-ai/internal/adapter"
	"academy-ai/internal/adapter/embedding"
	"academy-ai/internal/cache"
	"academy-ai/internal/config"
	"academy-ai/internal/database"
	"academy-ai/internal/domain"
	"academy-ai/internal/logger"
	"academy-ai/internal/repository"
	"academy-ai/internal/util"

	"go.uber.org/zap"
)

// transcriptChunk is one entry of the ingest file: a lesson transcript
// fragment with its time range. Embeddings are computed here, not
// supplied by the file.
type transcriptChunk struct {
	LessonID     string `json:"lessonId"`
	Text         string `json:"text"`
	StartSeconds int    `json:"startSeconds"`
	EndSeconds   int    `json:"endSeconds"`
}

// embedBatchSize keeps one provider call well under request size limits.
const embedBatchSize = 50

func main() {
	inputPath := flag.String("input", "chunks.json", "path to the transcript chunk JSON file")
	flag.Parse()

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

	raw, err := os.ReadFile(*inputPath)
	if err != nil {
		l.Fatal("Failed to read input file", zap.String("path", *inputPath), zap.Error(err))
	}
	var entries []transcriptChunk
	if err := json.Unmarshal(raw, &entries); err != nil {
		l.Fatal("Failed to parse input file", zap.Error(err))
	}
	if len(entries) == 0 {
		l.Info("Nothing to ingest")
		return
	}

	db, err := database.NewSQLXDB(cfg.Database.DSN)
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		l.Fatal("Failed to apply migrations", zap.Error(err))
	}

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		l.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	embedder, err := embedding.NewOpenAIEmbeddingService(
		cfg.Embedding.APIKey,
		cfg.Embedding.Model,
		cfg.Embedding.Dimension,
		cacheAdapter,
		cfg.CacheTTLs.Embedding,
	)
	if err != nil {
		l.Fatal("Failed to create embedding service", zap.Error(err))
	}

	chunkRepo := repository.NewSQLXChunkRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	total := 0
	for start := 0; start < len(entries); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(entries) {
			end = len(entries)
		}
		batch := entries[start:end]

		texts := make([]string, 0, len(batch))
		for _, e := range batch {
			texts = append(texts, e.Text)
		}
		vectors, err := embedder.EmbedBatch(ctx, texts)
		if err != nil {
			l.Fatal("Failed to embed batch", zap.Int("offset", start), zap.Error(err))
		}
		if len(vectors) != len(batch) {
			// Blank texts are dropped by the embedder; ingest input must
			// not contain them.
			l.Fatal("Embedding count mismatch, input contains blank texts",
				zap.Int("want", len(batch)), zap.Int("got", len(vectors)))
		}

		chunks := make([]domain.ContentChunk, 0, len(batch))
		for i, e := range batch {
			chunks = append(chunks, domain.ContentChunk{
				ID:           util.NewULID(),
				LessonID:     e.LessonID,
				Text:         e.Text,
				StartSeconds: e.StartSeconds,
				EndSeconds:   e.EndSeconds,
				Embedding:    vectors[i],
			})
		}
		if err := chunkRepo.InsertChunks(ctx, chunks); err != nil {
			l.Fatal("Failed to insert chunks", zap.Error(err))
		}
		total += len(chunks)
		l.Info("Ingested batch", zap.Int("count", len(chunks)), zap.Int("total", total))
	}

	l.Info("Ingest complete", zap.Int("chunks", total))
}
