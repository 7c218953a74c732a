package domain

import (
	"context"
	"time"
)

// RedactedIndex is the sentinel exposed instead of CorrectOptionIndex
// while a question is still unanswered.
const RedactedIndex = -1

// Answer records one submitted answer, append-only and in question order.
type Answer struct {
	QuestionID    string `json:"questionId"`
	SelectedIndex int    `json:"selectedIndex"`
	IsCorrect     bool   `json:"isCorrect"`
}

// DiagnosticSession is a running quiz. Mutated only by answer submission;
// read-only once Cursor reaches the question count.
//
// Sessions live in the configured SessionStore. The in-memory store does
// not survive a process restart; a restart loses in-flight quizzes.
type DiagnosticSession struct {
	ID          string
	OwnerUserID string
	Questions   []DiagnosticQuestion
	Answers     []Answer
	Cursor      int
	StartedAt   time.Time
}

// IsComplete reports whether every question has been answered.
func (s *DiagnosticSession) IsComplete() bool {
	return s.Cursor >= len(s.Questions)
}

// CurrentQuestion returns the question at the cursor, or nil once the
// session is complete.
func (s *DiagnosticSession) CurrentQuestion() *DiagnosticQuestion {
	if s.IsComplete() {
		return nil
	}
	q := s.Questions[s.Cursor]
	return &q
}

// Redacted returns a copy of q safe to expose before it is answered:
// the correct index is replaced with RedactedIndex and the explanation
// is stripped. This is a hard contract, not an optimization — leaking
// either would let a client self-score.
func Redacted(q DiagnosticQuestion) DiagnosticQuestion {
	q.CorrectOptionIndex = RedactedIndex
	q.Explanation = ""
	return q
}

// SessionStore is the keyed store for diagnostic sessions. The in-memory
// implementation serves single-instance deployments; multi-instance
// setups must back this with a shared store or sessions desynchronize.
type SessionStore interface {
	// Get returns the session or SESSION_NOT_FOUND.
	Get(ctx context.Context, sessionID string) (*DiagnosticSession, error)

	// Put stores or replaces the session.
	Put(ctx context.Context, session *DiagnosticSession) error

	// Update applies fn to the session under per-session serialization,
	// persisting the result. Concurrent submissions for the same
	// session are therefore processed one at a time.
	Update(ctx context.Context, sessionID string, fn func(*DiagnosticSession) error) (*DiagnosticSession, error)
}
