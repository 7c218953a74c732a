package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"academy-ai/internal/domain"
	"academy-ai/internal/dto"
	"academy-ai/internal/handler"
	"academy-ai/internal/middleware"
	"academy-ai/internal/repository"
	"academy-ai/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticSource struct{}

func (staticSource) QuestionsForQuiz(ctx context.Context, category domain.Category) ([]domain.DiagnosticQuestion, bool, error) {
	return service.StaticQuestionsForCategory(category), false, nil
}

func (staticSource) RefreshCategoryAsync(category domain.Category) {}

func newDiagnosticApp(userID string) *fiber.App {
	store := repository.NewMemorySessionStore()
	svc := service.NewDiagnosticService(store, staticSource{}, nil, zap.NewNop())
	h := handler.NewDiagnosticHandler(svc)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Use(func(c *fiber.Ctx) error {
		if userID != "" {
			c.Locals(middleware.UserIDKey, userID)
		}
		return c.Next()
	})
	group := app.Group("/api/diagnostic/sessions")
	group.Post("/", h.StartSession)
	group.Get("/:sessionId", h.GetSessionState)
	group.Post("/:sessionId/answers", h.SubmitAnswer)
	group.Get("/:sessionId/results", h.GetResults)
	return app
}

func TestDiagnosticFlowOverHTTP(t *testing.T) {
	app := newDiagnosticApp("user-1")

	// Start a session.
	resp, err := app.Test(httptest.NewRequest("POST", "/api/diagnostic/sessions/", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var started dto.StartSessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&started))
	assert.Equal(t, 15, started.TotalQuestions)
	require.NotEmpty(t, started.SessionID)

	base := "/api/diagnostic/sessions/" + started.SessionID

	// Results are refused while incomplete.
	resp, err = app.Test(httptest.NewRequest("GET", base+"/results", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Answer every question with option 0.
	for i := 0; i < started.TotalQuestions; i++ {
		resp, err = app.Test(httptest.NewRequest("GET", base, nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var state dto.SessionStateResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
		require.NotNil(t, state.CurrentQuestion)

		payload, err := json.Marshal(dto.SubmitAnswerRequest{
			QuestionID:    state.CurrentQuestion.ID,
			SelectedIndex: 0,
		})
		require.NoError(t, err)
		req := httptest.NewRequest("POST", base+"/answers", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		resp, err = app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode, fmt.Sprintf("answer %d", i))
	}

	// Extra submission conflicts.
	payload, err := json.Marshal(dto.SubmitAnswerRequest{QuestionID: "whatever", SelectedIndex: 0})
	require.NoError(t, err)
	req := httptest.NewRequest("POST", base+"/answers", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Results are now available and bounded.
	resp, err = app.Test(httptest.NewRequest("GET", base+"/results", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var results dto.ResultsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&results))
	assert.Len(t, results.SkillProfile, 5)
	assert.Len(t, results.Gaps, 5)
	assert.LessOrEqual(t, len(results.RecommendedRefs), 5)
	for _, score := range results.SkillProfile {
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	}
}

func TestStartSessionWithoutPrincipal(t *testing.T) {
	app := newDiagnosticApp("")

	resp, err := app.Test(httptest.NewRequest("POST", "/api/diagnostic/sessions/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGetUnknownSessionOverHTTP(t *testing.T) {
	app := newDiagnosticApp("user-1")

	resp, err := app.Test(httptest.NewRequest("GET", "/api/diagnostic/sessions/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
