package domain

import (
	"context"
	"time"
)

// Category is one of the five fixed skill categories used for both chunk
// scoping and quiz scoring.
type Category string

const (
	CategoryAnalytics   Category = "ANALYTICS"
	CategorySEO         Category = "SEO"
	CategoryAdvertising Category = "ADVERTISING"
	CategoryEconomics   Category = "ECONOMICS"
	CategoryLogistics   Category = "LOGISTICS"
)

// AllCategories lists the categories in their canonical order. The order is
// load-bearing: gap ties are broken by it.
var AllCategories = []Category{
	CategoryAnalytics,
	CategorySEO,
	CategoryAdvertising,
	CategoryEconomics,
	CategoryLogistics,
}

// IsValidCategory reports whether c is one of the five known categories.
func IsValidCategory(c Category) bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// OptionCount is the fixed number of answer options per question.
const OptionCount = 4

// DiagnosticQuestion is a single multiple-choice question. Immutable once
// created, whether model-generated or from the static fallback set.
type DiagnosticQuestion struct {
	ID                 string   `json:"id"`
	Category           Category `json:"category"`
	Difficulty         string   `json:"difficulty"`
	Prompt             string   `json:"prompt"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correctOptionIndex"`
	Explanation        string   `json:"explanation"`
}

// Validate enforces the question invariants: exactly 4 options and a
// correct index within them.
func (q *DiagnosticQuestion) Validate() error {
	if q.Prompt == "" {
		return NewInvalidInputError("question prompt is required")
	}
	if len(q.Options) != OptionCount {
		return NewInvalidInputError("question must have exactly 4 options")
	}
	if q.CorrectOptionIndex < 0 || q.CorrectOptionIndex >= OptionCount {
		return NewInvalidInputError("correct option index out of range")
	}
	if !IsValidCategory(q.Category) {
		return NewInvalidInputError("unknown question category")
	}
	return nil
}

// QuestionBank is the cached question set for one category. An entry is
// stale once now - GeneratedAt exceeds the configured TTL; stale entries
// stay servable until replaced.
type QuestionBank struct {
	Category    Category
	Questions   []DiagnosticQuestion
	GeneratedAt time.Time
}

// IsStale reports whether the entry is eligible for regeneration.
func (b *QuestionBank) IsStale(ttl time.Duration, now time.Time) bool {
	return now.Sub(b.GeneratedAt) > ttl
}

// QuestionGenerator is one tier of the generation fallback chain.
type QuestionGenerator interface {
	// Name identifies the tier in logs and refresh reports.
	Name() string

	// GenerateQuestions produces count questions for a category, given
	// optional retrieved context chunks. Malformed model output fails
	// with SCHEMA_VALIDATION_FAILURE; it is never coerced into shape.
	GenerateQuestions(ctx context.Context, category Category, contextChunks []ContentChunk, count int) ([]DiagnosticQuestion, error)
}

// QuestionBankRepository is the persistence port for question banks.
type QuestionBankRepository interface {
	// GetBank returns the bank entry for a category, or nil when none
	// has been generated yet.
	GetBank(ctx context.Context, category Category) (*QuestionBank, error)

	// UpsertBank replaces the entry for bank.Category transactionally.
	// It must refuse to overwrite a non-empty bank with an empty
	// question list.
	UpsertBank(ctx context.Context, bank *QuestionBank) error
}

// CategoryRefreshResult reports one category's outcome within a bank
// refresh. Failures are per-category and never abort the overall refresh.
type CategoryRefreshResult struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Error   string `json:"error,omitempty"`
}
