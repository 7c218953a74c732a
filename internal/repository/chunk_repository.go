package repository

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"

	"academy-ai/internal/domain"

	"github.com/jmoiron/sqlx"
)

// chunkModel maps a content_chunks row. Embeddings are stored as gob
// blobs; the table is written by the ingestion pipeline and read-only
// from this service's point of view.
type chunkModel struct {
	ID           string `db:"id"`
	LessonID     string `db:"lesson_id"`
	ChunkText    string `db:"chunk_text"`
	StartSeconds int    `db:"start_seconds"`
	EndSeconds   int    `db:"end_seconds"`
	Embedding    []byte `db:"embedding"`
}

// SQLXChunkRepository implements domain.ChunkRepository over sqlx.
type SQLXChunkRepository struct {
	db *sqlx.DB
}

// NewSQLXChunkRepository creates a new chunk repository.
func NewSQLXChunkRepository(db *sqlx.DB) *SQLXChunkRepository {
	return &SQLXChunkRepository{db: db}
}

// GetChunks returns chunks within scope ordered by start offset. The
// scope filter is pushed into the SQL query, never applied client-side.
func (r *SQLXChunkRepository) GetChunks(ctx context.Context, scope domain.ChunkScope) ([]domain.ContentChunk, error) {
	query := `SELECT id, lesson_id, chunk_text, start_seconds, end_seconds, embedding FROM content_chunks`
	var args []interface{}

	switch {
	case scope.LessonID != "":
		query += ` WHERE lesson_id = ?`
		args = append(args, scope.LessonID)
	case len(scope.LessonIDs) > 0:
		var err error
		query, args, err = sqlx.In(query+` WHERE lesson_id IN (?)`, scope.LessonIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to build scope query: %w", err)
		}
	}
	query += ` ORDER BY lesson_id, start_seconds`

	var models []chunkModel
	if err := r.db.SelectContext(ctx, &models, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to query content chunks: %w", err)
	}

	chunks := make([]domain.ContentChunk, 0, len(models))
	for _, m := range models {
		var embedding []float32
		decoder := gob.NewDecoder(bytes.NewReader(m.Embedding))
		if err := decoder.Decode(&embedding); err != nil {
			return nil, fmt.Errorf("failed to decode embedding for chunk %s: %w", m.ID, err)
		}
		chunks = append(chunks, domain.ContentChunk{
			ID:           m.ID,
			LessonID:     m.LessonID,
			Text:         m.ChunkText,
			StartSeconds: m.StartSeconds,
			EndSeconds:   m.EndSeconds,
			Embedding:    embedding,
		})
	}
	return chunks, nil
}

// InsertChunks writes a batch of chunks in one transaction. Existing
// rows with the same id are replaced, so re-ingesting a lesson is safe.
func (r *SQLXChunkRepository) InsertChunks(ctx context.Context, chunks []domain.ContentChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `INSERT OR REPLACE INTO content_chunks
		(id, lesson_id, chunk_text, start_seconds, end_seconds, embedding)
		VALUES (?, ?, ?, ?, ?, ?)`

	for _, chunk := range chunks {
		encoded, err := EncodeEmbedding(chunk.Embedding)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query,
			chunk.ID, chunk.LessonID, chunk.Text,
			chunk.StartSeconds, chunk.EndSeconds, encoded,
		); err != nil {
			return fmt.Errorf("failed to insert chunk %s: %w", chunk.ID, err)
		}
	}
	return tx.Commit()
}

// EncodeEmbedding gob-encodes a vector for storage. Shared with the
// ingestion tooling so both sides agree on the wire format.
func EncodeEmbedding(vector []float32) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(vector); err != nil {
		return nil, fmt.Errorf("failed to encode embedding: %w", err)
	}
	return buf.Bytes(), nil
}

var _ domain.ChunkRepository = (*SQLXChunkRepository)(nil)
