package repository

import (
	"context"
	"regexp"
	"testing"

	"academy-ai/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEncode(t *testing.T, vector []float32) []byte {
	t.Helper()
	encoded, err := EncodeEmbedding(vector)
	require.NoError(t, err)
	return encoded
}

func TestGetChunksByLesson(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewSQLXChunkRepository(db)

	rows := sqlmock.NewRows([]string{"id", "lesson_id", "chunk_text", "start_seconds", "end_seconds", "embedding"}).
		AddRow("c1", "l1", "first", 0, 30, mustEncode(t, []float32{0.1, 0.2})).
		AddRow("c2", "l1", "second", 30, 60, mustEncode(t, []float32{0.3, 0.4}))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, lesson_id, chunk_text, start_seconds, end_seconds, embedding FROM content_chunks WHERE lesson_id = ? ORDER BY lesson_id, start_seconds`)).
		WithArgs("l1").
		WillReturnRows(rows)

	chunks, err := repo.GetChunks(context.Background(), domain.ChunkScope{LessonID: "l1"})
	require.NoError(t, err)

	require.Len(t, chunks, 2)
	assert.Equal(t, "c1", chunks[0].ID)
	assert.Equal(t, []float32{0.1, 0.2}, chunks[0].Embedding)
	assert.Equal(t, 30, chunks[1].StartSeconds)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetChunksByLessonList(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewSQLXChunkRepository(db)

	rows := sqlmock.NewRows([]string{"id", "lesson_id", "chunk_text", "start_seconds", "end_seconds", "embedding"}).
		AddRow("c1", "l1", "first", 0, 30, mustEncode(t, []float32{1}))

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE lesson_id IN (?, ?)`)).
		WithArgs("l1", "l2").
		WillReturnRows(rows)

	chunks, err := repo.GetChunks(context.Background(), domain.ChunkScope{LessonIDs: []string{"l1", "l2"}})
	require.NoError(t, err)
	assert.Len(t, chunks, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetChunksCorruptEmbedding(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewSQLXChunkRepository(db)

	rows := sqlmock.NewRows([]string{"id", "lesson_id", "chunk_text", "start_seconds", "end_seconds", "embedding"}).
		AddRow("c1", "l1", "first", 0, 30, []byte("not gob"))

	mock.ExpectQuery(regexp.QuoteMeta(`FROM content_chunks`)).
		WillReturnRows(rows)

	_, err := repo.GetChunks(context.Background(), domain.ChunkScope{})
	assert.Error(t, err)
}

func TestInsertChunksWritesBatchTransactionally(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewSQLXChunkRepository(db)

	chunks := []domain.ContentChunk{
		{ID: "c1", LessonID: "l1", Text: "first", StartSeconds: 0, EndSeconds: 30, Embedding: []float32{1}},
		{ID: "c2", LessonID: "l1", Text: "second", StartSeconds: 30, EndSeconds: 60, Embedding: []float32{2}},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT OR REPLACE INTO content_chunks`)).
		WithArgs("c1", "l1", "first", 0, 30, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT OR REPLACE INTO content_chunks`)).
		WithArgs("c2", "l1", "second", 30, 60, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.InsertChunks(context.Background(), chunks)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertChunksEmptyBatchIsNoOp(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewSQLXChunkRepository(db)

	require.NoError(t, repo.InsertChunks(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
