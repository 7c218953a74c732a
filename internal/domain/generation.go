package domain

import "context"

// ChatTurn is one prior exchange in a lesson chat.
type ChatTurn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// GenerationResult is grounded prose plus the citations its bracketed
// [i] references resolve to, positionally ([1] -> Citations[0]).
type GenerationResult struct {
	Text      string     `json:"text"`
	Citations []Citation `json:"citations"`
	ModelUsed string     `json:"modelUsed"`
	FromCache bool       `json:"fromCache"`
}

// GenerationService answers learner questions and summarizes lesson
// transcripts with verifiable citations. Provider failures surface as
// GENERATION_FAILURE with no retry at this layer; retry and fallback
// policy lives in the question bank manager only.
type GenerationService interface {
	// Summarize builds a structured summary of one lesson from all of
	// its chunks. A lesson with no chunks yields a fixed no-content
	// message with empty citations, not an error.
	Summarize(ctx context.Context, lessonID string, forceRefresh bool) (*GenerationResult, error)

	// Chat answers a learner question from context retrieved within the
	// lesson, using at most the last 10 history turns.
	Chat(ctx context.Context, lessonID, message string, history []ChatTurn) (*GenerationResult, error)
}
