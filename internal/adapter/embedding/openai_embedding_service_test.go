package embedding

import (
	"context"
	"errors"
	"testing"
	"time"

	"academy-ai/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDim = 8

// stubEmbedder implements embeddings.Embedder for tests.
type stubEmbedder struct {
	dim       int
	err       error
	calls     int
	lastBatch []string
}

func (s *stubEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return make([]float32, s.dim), nil
}

func (s *stubEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	s.calls++
	s.lastBatch = texts
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, s.dim)
	}
	return out, nil
}

func newTestService(stub *stubEmbedder) *OpenAIEmbeddingService {
	return &OpenAIEmbeddingService{
		embedder:  stub,
		dimension: testDim,
		cacheTTL:  time.Hour,
	}
}

func TestEmbed_EmptyInput(t *testing.T) {
	svc := newTestService(&stubEmbedder{dim: testDim})

	for _, input := range []string{"", "   ", "\n\t"} {
		_, err := svc.Embed(context.Background(), input)
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeEmptyInput, domainErr.Code)
	}

	// The provider must never be called for rejected input.
	assert.Zero(t, svc.embedder.(*stubEmbedder).calls)
}

func TestEmbed_ReturnsFullLengthVector(t *testing.T) {
	svc := newTestService(&stubEmbedder{dim: testDim})

	vec, err := svc.Embed(context.Background(), "unit economics of FBO delivery")
	require.NoError(t, err)
	assert.Len(t, vec, testDim)
}

func TestEmbed_DimensionMismatch(t *testing.T) {
	svc := newTestService(&stubEmbedder{dim: testDim - 1})

	_, err := svc.Embed(context.Background(), "some text")
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeDimensionMismatch, domainErr.Code)
}

func TestEmbed_ProviderFailure(t *testing.T) {
	svc := newTestService(&stubEmbedder{dim: testDim, err: errors.New("provider down")})

	_, err := svc.Embed(context.Background(), "some text")
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeGenerationFailure, domainErr.Code)
}

func TestEmbedBatch_DropsBlankEntries(t *testing.T) {
	stub := &stubEmbedder{dim: testDim}
	svc := newTestService(stub)

	vectors, err := svc.EmbedBatch(context.Background(), []string{"first", "  ", "second", ""})
	require.NoError(t, err)
	assert.Len(t, vectors, 2)
	assert.Equal(t, []string{"first", "second"}, stub.lastBatch)
	// Everything goes out in one provider call.
	assert.Equal(t, 1, stub.calls)
}

func TestEmbedBatch_AllBlank(t *testing.T) {
	stub := &stubEmbedder{dim: testDim}
	svc := newTestService(stub)

	_, err := svc.EmbedBatch(context.Background(), []string{"", "   "})
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeEmptyInput, domainErr.Code)
	assert.Zero(t, stub.calls)
}

func TestEmbedBatch_DimensionMismatch(t *testing.T) {
	svc := newTestService(&stubEmbedder{dim: testDim + 3})

	_, err := svc.EmbedBatch(context.Background(), []string{"a", "b"})
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeDimensionMismatch, domainErr.Code)
}
