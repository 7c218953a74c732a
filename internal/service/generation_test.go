package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"academy-ai/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// --- Mocks ---

type stubModel struct {
	response string
	err      error
	calls    int
	lastMsgs []llms.MessageContent
}

func (m *stubModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.calls++
	m.lastMsgs = messages
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.response}}}, nil
}

func (m *stubModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return m.response, m.err
}

type stubRetriever struct {
	matches []domain.ChunkMatch
	err     error
}

func (r *stubRetriever) Search(ctx context.Context, query string, topK int, minSimilarity float64, scope domain.ChunkScope) ([]domain.ChunkMatch, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.matches, nil
}

func (r *stubRetriever) GetAllChunks(ctx context.Context, scope domain.ChunkScope) ([]domain.ChunkMatch, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.matches, nil
}

type memoryCache struct {
	mu    sync.Mutex
	items map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string]string)}
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.items[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return value, nil
}

func (c *memoryCache) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func (c *memoryCache) Ping(ctx context.Context) error { return nil }

func lessonMatches() []domain.ChunkMatch {
	return []domain.ChunkMatch{
		{Chunk: domain.ContentChunk{ID: "c1", LessonID: "l1", Text: "First fragment.", StartSeconds: 0, EndSeconds: 45}, Similarity: 0.9},
		{Chunk: domain.ContentChunk{ID: "c2", LessonID: "l1", Text: "Second fragment.", StartSeconds: 45, EndSeconds: 90}, Similarity: 0.8},
	}
}

func newTestGenerationService(retriever domain.ChunkRetriever, model llms.Model, cacheClient domain.Cache) domain.GenerationService {
	return NewGenerationService(retriever, model, "gpt-4o-mini", cacheClient, time.Hour, 5*time.Second, zap.NewNop())
}

// --- Tests ---

func TestSummarizeAttachesPositionalCitations(t *testing.T) {
	model := &stubModel{response: "Key ideas [1] and takeaways [2]."}
	svc := newTestGenerationService(&stubRetriever{matches: lessonMatches()}, model, nil)

	result, err := svc.Summarize(context.Background(), "l1", false)
	require.NoError(t, err)

	assert.Equal(t, "Key ideas [1] and takeaways [2].", result.Text)
	require.Len(t, result.Citations, 2)
	// [1] resolves to the first chunk, [2] to the second.
	assert.Equal(t, "c1", result.Citations[0].ChunkID)
	assert.Equal(t, "c2", result.Citations[1].ChunkID)
	assert.Equal(t, 45, result.Citations[1].StartSeconds)
	assert.Equal(t, "gpt-4o-mini", result.ModelUsed)
	assert.False(t, result.FromCache)
}

func TestSummarizeNoContent(t *testing.T) {
	model := &stubModel{response: "unused"}
	svc := newTestGenerationService(&stubRetriever{}, model, nil)

	result, err := svc.Summarize(context.Background(), "l-empty", false)
	require.NoError(t, err)

	assert.Equal(t, NoContentMessage, result.Text)
	assert.Empty(t, result.Citations)
	assert.Equal(t, 0, model.calls, "no model call for a lesson without transcript")
}

func TestSummarizeCacheHit(t *testing.T) {
	model := &stubModel{response: "Summary [1]."}
	cacheClient := newMemoryCache()
	svc := newTestGenerationService(&stubRetriever{matches: lessonMatches()}, model, cacheClient)

	first, err := svc.Summarize(context.Background(), "l1", false)
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := svc.Summarize(context.Background(), "l1", false)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, first.Citations, second.Citations)
	assert.Equal(t, 1, model.calls)
}

func TestSummarizeForceRefreshBypassesCache(t *testing.T) {
	model := &stubModel{response: "Summary [1]."}
	cacheClient := newMemoryCache()
	svc := newTestGenerationService(&stubRetriever{matches: lessonMatches()}, model, cacheClient)

	_, err := svc.Summarize(context.Background(), "l1", false)
	require.NoError(t, err)

	result, err := svc.Summarize(context.Background(), "l1", true)
	require.NoError(t, err)
	assert.False(t, result.FromCache)
	assert.Equal(t, 2, model.calls)
}

func TestSummarizeEmptyLessonID(t *testing.T) {
	svc := newTestGenerationService(&stubRetriever{}, &stubModel{}, nil)

	_, err := svc.Summarize(context.Background(), "  ", false)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeInvalidInput, domainErr.Code)
}

func TestChatRejectsEmptyAndOversizedMessages(t *testing.T) {
	svc := newTestGenerationService(&stubRetriever{}, &stubModel{}, nil)

	_, err := svc.Chat(context.Background(), "l1", "   ", nil)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeEmptyInput, domainErr.Code)

	_, err = svc.Chat(context.Background(), "l1", strings.Repeat("x", maxChatMessageLen+1), nil)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeInvalidInput, domainErr.Code)
}

func TestChatCitesMatchedChunksOnly(t *testing.T) {
	model := &stubModel{response: "Answer grounded in [1]."}
	svc := newTestGenerationService(&stubRetriever{matches: lessonMatches()[:1]}, model, nil)

	result, err := svc.Chat(context.Background(), "l1", "how do dashboards work?", nil)
	require.NoError(t, err)

	require.Len(t, result.Citations, 1)
	assert.Equal(t, "c1", result.Citations[0].ChunkID)
}

func TestChatWithNoMatchesStillAnswers(t *testing.T) {
	model := &stubModel{response: "I cannot find that in this lesson."}
	svc := newTestGenerationService(&stubRetriever{}, model, nil)

	result, err := svc.Chat(context.Background(), "l1", "unrelated question", nil)
	require.NoError(t, err)

	assert.Empty(t, result.Citations)
	// The system prompt tells the model there is no context instead of
	// failing the request.
	require.NotEmpty(t, model.lastMsgs)
	systemText := fmt.Sprintf("%v", model.lastMsgs[0].Parts)
	assert.Contains(t, systemText, noContextMarker)
}

func TestChatTrimsHistory(t *testing.T) {
	model := &stubModel{response: "ok"}
	svc := newTestGenerationService(&stubRetriever{matches: lessonMatches()}, model, nil)

	history := make([]domain.ChatTurn, 0, 14)
	for i := 0; i < 14; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		history = append(history, domain.ChatTurn{Role: role, Content: fmt.Sprintf("turn %d", i)})
	}

	_, err := svc.Chat(context.Background(), "l1", "latest question", history)
	require.NoError(t, err)

	// system + 10 most recent turns + current message
	require.Len(t, model.lastMsgs, 12)
	firstTurn := fmt.Sprintf("%v", model.lastMsgs[1].Parts)
	assert.Contains(t, firstTurn, "turn 4")
}

func TestChatWrapsModelFailure(t *testing.T) {
	model := &stubModel{err: errors.New("provider down")}
	svc := newTestGenerationService(&stubRetriever{matches: lessonMatches()}, model, nil)

	_, err := svc.Chat(context.Background(), "l1", "question", nil)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeGenerationFailure, domainErr.Code)
}

func TestGenerateRejectsEmptyModelResponse(t *testing.T) {
	model := &stubModel{response: "   "}
	svc := newTestGenerationService(&stubRetriever{matches: lessonMatches()}, model, nil)

	_, err := svc.Chat(context.Background(), "l1", "question", nil)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeGenerationFailure, domainErr.Code)
}

func TestBuildContextBlockFormatsOffsets(t *testing.T) {
	block, citations := buildContextBlock(lessonMatches())

	assert.Contains(t, block, "[1] (00:00-00:45) First fragment.")
	assert.Contains(t, block, "[2] (00:45-01:30) Second fragment.")
	require.Len(t, citations, 2)
	assert.Equal(t, "First fragment.", citations[0].Preview)
}

func TestTruncatePreservesRunes(t *testing.T) {
	long := strings.Repeat("я", citationPreviewLimit+50)
	out := truncate(long, citationPreviewLimit)
	assert.Equal(t, citationPreviewLimit, len([]rune(out)))
	assert.True(t, strings.HasPrefix(long, out))
}
