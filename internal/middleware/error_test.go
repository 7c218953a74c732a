package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"academy-ai/internal/domain"
	"academy-ai/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appReturning(err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Get("/fail", func(c *fiber.Ctx) error { return err })
	return app
}

func TestErrorHandlerStatusMapping(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "empty input",
			err:            domain.NewEmptyInputError("text cannot be empty"),
			expectedStatus: fiber.StatusBadRequest,
			expectedCode:   string(domain.CodeEmptyInput),
		},
		{
			name:           "session not found",
			err:            domain.NewSessionNotFoundError("s1"),
			expectedStatus: fiber.StatusNotFound,
			expectedCode:   string(domain.CodeSessionNotFound),
		},
		{
			name:           "session complete",
			err:            domain.NewSessionCompleteError("s1"),
			expectedStatus: fiber.StatusConflict,
			expectedCode:   string(domain.CodeSessionComplete),
		},
		{
			name:           "unauthenticated",
			err:            domain.NewUnauthenticatedError(),
			expectedStatus: fiber.StatusUnauthorized,
			expectedCode:   string(domain.CodeUnauthenticated),
		},
		{
			name:           "generation failure",
			err:            domain.NewGenerationFailureError(errors.New("provider down")),
			expectedStatus: fiber.StatusServiceUnavailable,
			expectedCode:   string(domain.CodeGenerationFailure),
		},
		{
			name:           "schema validation failure",
			err:            domain.NewSchemaValidationError("bad output", nil),
			expectedStatus: fiber.StatusBadGateway,
			expectedCode:   string(domain.CodeSchemaValidationFailure),
		},
		{
			name:           "dimension mismatch",
			err:            domain.NewDimensionMismatchError(1536, 768),
			expectedStatus: fiber.StatusBadRequest,
			expectedCode:   string(domain.CodeDimensionMismatch),
		},
		{
			name:           "unknown error",
			err:            errors.New("boom"),
			expectedStatus: fiber.StatusInternalServerError,
			expectedCode:   string(domain.CodeInternal),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := appReturning(tt.err)

			resp, err := app.Test(httptest.NewRequest("GET", "/fail", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			var body middleware.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.expectedCode, body.Code)
			assert.Equal(t, tt.expectedStatus, body.Status)
		})
	}
}

func TestErrorHandlerPassesFiberErrors(t *testing.T) {
	app := appReturning(fiber.ErrNotFound)

	resp, err := app.Test(httptest.NewRequest("GET", "/fail", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
