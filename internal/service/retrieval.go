package service

import (
	"context"
	"errors"
	"sort"

	"academy-ai/internal/domain"
	"academy-ai/internal/util"

	"go.uber.org/zap"
)

// retrievalService implements domain.ChunkRetriever: it embeds the query,
// scores scoped chunks by cosine similarity and returns the top matches.
// The scope filter is pushed down to the repository query.
type retrievalService struct {
	embeddingService domain.EmbeddingService
	chunkRepo        domain.ChunkRepository
	logger           *zap.Logger
}

// NewRetrievalService creates a new instance of retrievalService.
func NewRetrievalService(
	embeddingService domain.EmbeddingService,
	chunkRepo domain.ChunkRepository,
	logger *zap.Logger,
) domain.ChunkRetriever {
	return &retrievalService{
		embeddingService: embeddingService,
		chunkRepo:        chunkRepo,
		logger:           logger,
	}
}

// Search implements domain.ChunkRetriever. Store or embedding failures
// surface as RETRIEVAL_FAILURE so callers can tell "no results" from
// "search failed".
func (s *retrievalService) Search(ctx context.Context, query string, topK int, minSimilarity float64, scope domain.ChunkScope) ([]domain.ChunkMatch, error) {
	queryEmbedding, err := s.embeddingService.Embed(ctx, query)
	if err != nil {
		// EMPTY_INPUT and DIMENSION_MISMATCH keep their kind; only
		// provider trouble becomes a retrieval failure.
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) && domainErr.Code != domain.CodeGenerationFailure {
			return nil, err
		}
		return nil, domain.NewRetrievalFailureError(err)
	}

	chunks, err := s.chunkRepo.GetChunks(ctx, scope)
	if err != nil {
		return nil, domain.NewRetrievalFailureError(err)
	}

	matches := make([]domain.ChunkMatch, 0, len(chunks))
	for _, chunk := range chunks {
		if len(chunk.Embedding) == 0 {
			s.logger.Warn("Skipping chunk with missing embedding", zap.String("chunk_id", chunk.ID))
			continue
		}
		similarity, err := util.CosineSimilarity(queryEmbedding, chunk.Embedding)
		if err != nil {
			return nil, domain.NewRetrievalFailureError(err)
		}
		if similarity >= minSimilarity {
			matches = append(matches, domain.ChunkMatch{Chunk: chunk, Similarity: similarity})
		}
	}

	// Sort by similarity descending; ties break on chunk ID so results
	// are deterministic for a fixed data snapshot.
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].Chunk.ID < matches[j].Chunk.ID
	})

	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// GetAllChunks implements domain.ChunkRetriever: an exact-membership
// result set in time-offset order, not a ranked one.
func (s *retrievalService) GetAllChunks(ctx context.Context, scope domain.ChunkScope) ([]domain.ChunkMatch, error) {
	chunks, err := s.chunkRepo.GetChunks(ctx, scope)
	if err != nil {
		return nil, domain.NewRetrievalFailureError(err)
	}

	matches := make([]domain.ChunkMatch, 0, len(chunks))
	for _, chunk := range chunks {
		matches = append(matches, domain.ChunkMatch{Chunk: chunk, Similarity: 1.0})
	}
	return matches, nil
}
