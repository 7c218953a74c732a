package service

import (
	"context"
	"errors"
	"testing"

	"academy-ai/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryInOrderStopsAtFirstSuccess(t *testing.T) {
	first := &stubGenerator{name: "openai"}
	second := &stubGenerator{name: "gemini"}

	outcome := tryInOrder(context.Background(), []domain.QuestionGenerator{first, second}, domain.CategorySEO, nil, 3)

	assert.False(t, outcome.Exhausted())
	assert.Equal(t, "openai", outcome.Tier)
	assert.Len(t, outcome.Questions, 3)
	assert.Equal(t, 0, second.calls)
	assert.Empty(t, outcome.Errors)
}

func TestTryInOrderCollectsAllTierErrors(t *testing.T) {
	first := &stubGenerator{name: "openai", err: errors.New("timeout")}
	second := &stubGenerator{name: "gemini", err: errors.New("bad schema")}

	outcome := tryInOrder(context.Background(), []domain.QuestionGenerator{first, second}, domain.CategorySEO, nil, 3)

	assert.True(t, outcome.Exhausted())
	require.Len(t, outcome.Errors, 2)
	assert.Equal(t, "openai", outcome.Errors[0].Tier)
	assert.Equal(t, "gemini", outcome.Errors[1].Tier)

	joined := outcome.ExhaustedError()
	assert.ErrorContains(t, joined, "timeout")
	assert.ErrorContains(t, joined, "bad schema")
}

func TestTryInOrderEmptyChain(t *testing.T) {
	outcome := tryInOrder(context.Background(), nil, domain.CategorySEO, nil, 3)
	assert.True(t, outcome.Exhausted())
}
