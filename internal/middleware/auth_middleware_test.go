package middleware_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"academy-ai/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, userID string, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"uid": userID,
		"exp": time.Now().Add(expiresIn).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newProtectedApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected", middleware.Protected(testSecret), func(c *fiber.Ctx) error {
		return c.SendString(middleware.UserIDFromCtx(c))
	})
	return app
}

func TestProtected(t *testing.T) {
	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedUserID string
	}{
		{
			name:           "Valid token",
			authHeader:     "Bearer " + signToken(t, testSecret, "user-42", time.Hour),
			expectedStatus: fiber.StatusOK,
			expectedUserID: "user-42",
		},
		{
			name:           "Missing header",
			authHeader:     "",
			expectedStatus: fiber.StatusUnauthorized,
		},
		{
			name:           "Wrong scheme",
			authHeader:     "Basic abc123",
			expectedStatus: fiber.StatusUnauthorized,
		},
		{
			name:           "Wrong signing key",
			authHeader:     "Bearer " + signToken(t, "other-secret", "user-42", time.Hour),
			expectedStatus: fiber.StatusUnauthorized,
		},
		{
			name:           "Expired token",
			authHeader:     "Bearer " + signToken(t, testSecret, "user-42", -time.Hour),
			expectedStatus: fiber.StatusUnauthorized,
		},
		{
			name:           "Token without subject",
			authHeader:     "Bearer " + signToken(t, testSecret, "", time.Hour),
			expectedStatus: fiber.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newProtectedApp()
			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedUserID != "" {
				body := make([]byte, resp.ContentLength)
				_, _ = resp.Body.Read(body)
				assert.Equal(t, tt.expectedUserID, string(body))
			}
		})
	}
}
