package service

import (
	"context"
	"errors"

	"academy-ai/internal/domain"
)

// tierError records which fallback tier failed and why.
type tierError struct {
	Tier string
	Err  error
}

// fallbackOutcome is the tagged result of walking a fallback chain:
// either a value from the first tier that succeeded, or the errors of
// every tier tried.
type fallbackOutcome struct {
	Questions []domain.DiagnosticQuestion
	Tier      string
	Errors    []tierError
}

// Exhausted reports whether no tier succeeded.
func (o fallbackOutcome) Exhausted() bool {
	return o.Tier == ""
}

// ExhaustedError joins the per-tier errors for reporting.
func (o fallbackOutcome) ExhaustedError() error {
	errs := make([]error, 0, len(o.Errors))
	for _, te := range o.Errors {
		errs = append(errs, te.Err)
	}
	return errors.Join(errs...)
}

// tryInOrder evaluates generators in order and returns on the first
// success. Modeling the chain as data instead of nested error handling
// keeps the "no silent downgrade" rule testable: a failed chain reports
// every tier's error rather than substituting stale or mock output.
func tryInOrder(
	ctx context.Context,
	generators []domain.QuestionGenerator,
	category domain.Category,
	contextChunks []domain.ContentChunk,
	count int,
) fallbackOutcome {
	outcome := fallbackOutcome{}
	for _, gen := range generators {
		questions, err := gen.GenerateQuestions(ctx, category, contextChunks, count)
		if err != nil {
			outcome.Errors = append(outcome.Errors, tierError{Tier: gen.Name(), Err: err})
			continue
		}
		outcome.Questions = questions
		outcome.Tier = gen.Name()
		return outcome
	}
	return outcome
}
