package dto

import "academy-ai/internal/domain"

// EmbedRequest asks for the vector of a single text.
type EmbedRequest struct {
	Text string `json:"text"`
}

// EmbedResponse carries the full-length vector.
type EmbedResponse struct {
	Vector    []float32 `json:"vector"`
	Dimension int       `json:"dimension"`
}

// SearchRequest is a ranked similarity query over lesson chunks.
type SearchRequest struct {
	Query     string  `json:"query"`
	LessonID  string  `json:"lessonId,omitempty"`
	Limit     int     `json:"limit,omitempty"`     // <= 20, default 5
	Threshold float64 `json:"threshold,omitempty"` // [0,1], default 0.5
}

// ChunkMatchView is one search hit.
type ChunkMatchView struct {
	ChunkID      string  `json:"chunkId"`
	LessonID     string  `json:"lessonId"`
	Text         string  `json:"text"`
	StartSeconds int     `json:"startSeconds"`
	EndSeconds   int     `json:"endSeconds"`
	Similarity   float64 `json:"similarity"`
}

// SearchResponse lists hits sorted by similarity descending.
type SearchResponse struct {
	Matches []ChunkMatchView `json:"matches"`
}

// SummaryResponse is a cited lesson summary.
type SummaryResponse struct {
	Text      string            `json:"text"`
	Citations []domain.Citation `json:"citations"`
	FromCache bool              `json:"fromCache"`
}

// ChatRequest is one learner turn against a lesson.
type ChatRequest struct {
	Message string            `json:"message"`
	History []domain.ChatTurn `json:"history,omitempty"`
}

// ChatResponse is the grounded answer with its citations.
type ChatResponse struct {
	Text      string            `json:"text"`
	Citations []domain.Citation `json:"citations"`
	ModelUsed string            `json:"modelUsed"`
}

// RefreshBankResponse reports each category's refresh outcome so partial
// success is distinguishable from total failure.
type RefreshBankResponse struct {
	Categories map[string]domain.CategoryRefreshResult `json:"categories"`
}

// NewChunkMatchView converts a domain match.
func NewChunkMatchView(m domain.ChunkMatch) ChunkMatchView {
	return ChunkMatchView{
		ChunkID:      m.Chunk.ID,
		LessonID:     m.Chunk.LessonID,
		Text:         m.Chunk.Text,
		StartSeconds: m.Chunk.StartSeconds,
		EndSeconds:   m.Chunk.EndSeconds,
		Similarity:   m.Similarity,
	}
}
