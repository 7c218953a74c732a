package domain

import "context"

// ContentChunk is a time-bounded slice of a lesson transcript stored with
// its embedding. Chunks are immutable once ingested; ingestion is owned by
// the content pipeline, not this service.
type ContentChunk struct {
	ID           string
	LessonID     string
	Text         string
	StartSeconds int
	EndSeconds   int
	Embedding    []float32
}

// ChunkMatch is a retrieved chunk with its similarity to the query.
// The exact-membership path (all chunks of a lesson) fixes Similarity at 1.0.
type ChunkMatch struct {
	Chunk      ContentChunk
	Similarity float64
}

// Citation resolves a bracketed [i] reference in generated text back to a
// source span. Index i maps positionally: [1] -> citations[0].
type Citation struct {
	ChunkID      string `json:"chunkId"`
	StartSeconds int    `json:"startSeconds"`
	EndSeconds   int    `json:"endSeconds"`
	Preview      string `json:"preview"`
}

// ChunkScope restricts retrieval to a subset of the corpus. The filter is
// pushed down to the store query, not applied client-side.
type ChunkScope struct {
	// LessonID restricts to a single lesson when non-empty.
	LessonID string
	// LessonIDs restricts to a set of lessons (category scopes). Empty
	// together with LessonID means the whole corpus.
	LessonIDs []string
}

// EmbeddingService turns text into fixed-length vectors via an external
// model provider.
type EmbeddingService interface {
	// Embed returns the vector for a single text. Empty or
	// whitespace-only input fails with EMPTY_INPUT before any provider
	// call; a vector of unexpected length fails with DIMENSION_MISMATCH.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch embeds many texts in one provider call. Blank entries
	// are silently dropped before sending, so the result is not
	// guaranteed to align positionally with a blank-containing input.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// ChunkRepository is the persistence port for content chunks.
type ChunkRepository interface {
	// GetChunks returns chunks within scope ordered by start offset.
	GetChunks(ctx context.Context, scope ChunkScope) ([]ContentChunk, error)
}

// ChunkRetriever answers similarity queries over the chunk corpus.
type ChunkRetriever interface {
	// Search embeds the query and returns at most topK matches with
	// similarity >= minSimilarity, sorted by similarity descending.
	// Underlying store failures surface as RETRIEVAL_FAILURE; an empty
	// result list always means "nothing matched".
	Search(ctx context.Context, query string, topK int, minSimilarity float64, scope ChunkScope) ([]ChunkMatch, error)

	// GetAllChunks returns every chunk in scope ordered by start offset
	// with similarity fixed at 1.0.
	GetAllChunks(ctx context.Context, scope ChunkScope) ([]ChunkMatch, error)
}
