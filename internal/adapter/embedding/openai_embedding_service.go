package embedding

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"strings"
	"time"

	"academy-ai/internal/cache"
	"academy-ai/internal/domain"

	"github.com/tmc/langchaingo/embeddings"
	openaiLLM "github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/sync/singleflight"
)

// OpenAIEmbeddingService implements the domain.EmbeddingService interface
// using OpenAI via langchaingo. Single-text embeddings are cached in Redis
// keyed by content hash; concurrent misses for the same text collapse into
// one provider call through singleflight.
type OpenAIEmbeddingService struct {
	embedder  embeddings.Embedder
	cache     domain.Cache
	dimension int
	cacheTTL  time.Duration
	sfGroup   singleflight.Group
}

// NewOpenAIEmbeddingService creates a new OpenAIEmbeddingService.
func NewOpenAIEmbeddingService(apiKey, modelName string, dimension int, cacheClient domain.Cache, cacheTTL time.Duration) (*OpenAIEmbeddingService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key cannot be empty")
	}
	if modelName == "" {
		modelName = "text-embedding-ada-002"
	}
	if dimension <= 0 {
		return nil, fmt.Errorf("embedding dimension must be positive, got %d", dimension)
	}

	llm, err := openaiLLM.New(
		openaiLLM.WithToken(apiKey),
		openaiLLM.WithEmbeddingModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client for embedder: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder from OpenAI LLM: %w", err)
	}

	return &OpenAIEmbeddingService{
		embedder:  embedder,
		cache:     cacheClient,
		dimension: dimension,
		cacheTTL:  cacheTTL,
	}, nil
}

// Embed creates an embedding for the given text.
func (s *OpenAIEmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewEmptyInputError("input text cannot be empty for embedding")
	}

	cacheKey := cache.GenerateCacheKey("embedding", "openai", cache.HashText(text))

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			var vector []float32
			decoder := gob.NewDecoder(bytes.NewReader([]byte(cached)))
			if errDecode := decoder.Decode(&vector); errDecode == nil && len(vector) == s.dimension {
				return vector, nil
			}
			// Undecodable or wrong-sized cache entries fall through to a
			// fresh provider call.
		}
	}

	res, err, _ := s.sfGroup.Do(cacheKey, func() (interface{}, error) {
		vector, fetchErr := s.embedder.EmbedQuery(ctx, text)
		if fetchErr != nil {
			return nil, domain.NewGenerationFailureError(fmt.Errorf("openai embedding request: %w", fetchErr))
		}
		if len(vector) != s.dimension {
			return nil, domain.NewDimensionMismatchError(s.dimension, len(vector))
		}

		if s.cache != nil {
			var buffer bytes.Buffer
			if errEncode := gob.NewEncoder(&buffer).Encode(vector); errEncode == nil {
				_ = s.cache.Set(ctx, cacheKey, buffer.String(), s.cacheTTL)
			}
		}
		return vector, nil
	})
	if err != nil {
		return nil, err
	}

	vector, ok := res.([]float32)
	if !ok {
		return nil, domain.NewInternalError(fmt.Sprintf("unexpected type from singleflight: %T", res), nil)
	}
	return vector, nil
}

// EmbedBatch embeds many texts in a single provider call. Blank entries are
// silently dropped before sending, so the result does not align
// positionally with a blank-containing input.
func (s *OpenAIEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	filtered := make([]string, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) == 0 {
		return nil, domain.NewEmptyInputError("no non-blank texts to embed")
	}

	vectors, err := s.embedder.EmbedDocuments(ctx, filtered)
	if err != nil {
		return nil, domain.NewGenerationFailureError(fmt.Errorf("openai batch embedding request: %w", err))
	}

	for _, v := range vectors {
		if len(v) != s.dimension {
			return nil, domain.NewDimensionMismatchError(s.dimension, len(v))
		}
	}
	return vectors, nil
}

var _ domain.EmbeddingService = (*OpenAIEmbeddingService)(nil)
