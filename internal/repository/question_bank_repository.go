package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"academy-ai/internal/domain"

	"github.com/jmoiron/sqlx"
)

// questionBankModel maps a question_banks row. Questions are stored as a
// JSON blob; the row is the unit of replacement.
type questionBankModel struct {
	Category    string    `db:"category"`
	Questions   string    `db:"questions"`
	GeneratedAt time.Time `db:"generated_at"`
}

// SQLXQuestionBankRepository implements domain.QuestionBankRepository over sqlx.
type SQLXQuestionBankRepository struct {
	db *sqlx.DB
}

// NewSQLXQuestionBankRepository creates a new question bank repository.
func NewSQLXQuestionBankRepository(db *sqlx.DB) *SQLXQuestionBankRepository {
	return &SQLXQuestionBankRepository{db: db}
}

// GetBank returns the bank entry for a category, or nil when none exists.
func (r *SQLXQuestionBankRepository) GetBank(ctx context.Context, category domain.Category) (*domain.QuestionBank, error) {
	var model questionBankModel
	err := r.db.GetContext(ctx, &model,
		r.db.Rebind(`SELECT category, questions, generated_at FROM question_banks WHERE category = ?`),
		string(category))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query question bank for %s: %w", category, err)
	}

	var questions []domain.DiagnosticQuestion
	if err := json.Unmarshal([]byte(model.Questions), &questions); err != nil {
		return nil, fmt.Errorf("failed to decode question bank for %s: %w", category, err)
	}

	return &domain.QuestionBank{
		Category:    domain.Category(model.Category),
		Questions:   questions,
		GeneratedAt: model.GeneratedAt,
	}, nil
}

// UpsertBank transactionally replaces the entry for bank.Category. A
// failed generation must never wipe a good bank, so an empty question
// list is rejected outright.
func (r *SQLXQuestionBankRepository) UpsertBank(ctx context.Context, bank *domain.QuestionBank) error {
	if len(bank.Questions) == 0 {
		return domain.NewInvalidInputError("refusing to store an empty question bank")
	}
	for i := range bank.Questions {
		if err := bank.Questions[i].Validate(); err != nil {
			return err
		}
	}

	payload, err := json.Marshal(bank.Questions)
	if err != nil {
		return fmt.Errorf("failed to encode questions for %s: %w", bank.Category, err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, tx.Rebind(
		`INSERT INTO question_banks (category, questions, generated_at) VALUES (?, ?, ?)
		 ON CONFLICT(category) DO UPDATE SET questions = excluded.questions, generated_at = excluded.generated_at`),
		string(bank.Category), string(payload), bank.GeneratedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert question bank for %s: %w", bank.Category, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit question bank for %s: %w", bank.Category, err)
	}
	return nil
}

var _ domain.QuestionBankRepository = (*SQLXQuestionBankRepository)(nil)
