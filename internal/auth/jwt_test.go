package auth

import (
	"net/http/httptest"
	"testing"

	"hundi-backend/internal/config"
	"hundi-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testConfig() *config.Config {
	return &config.Config{JWTSecret: testSecret}
}

func TestGenerateTokenRoundTrip(t *testing.T) {
	user := &models.User{ID: 7, Email: "collector@example.com", Role: models.RoleUser}

	tokenStr, err := GenerateToken(testSecret, user)
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)

	token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(*JWTCustomClaims)
	require.True(t, ok)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "collector@example.com", claims.Email)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestGenerateTokenRejectedWithWrongSecret(t *testing.T) {
	user := &models.User{ID: 1, Email: "a@b.c", Role: models.RoleAdmin}

	tokenStr, err := GenerateToken(testSecret, user)
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte("another-secret-that-is-long-enough"), nil
	})
	assert.Error(t, err)
}

func middlewareTestApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"success": false, "message": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false})
		},
	})
	app.Get("/protected", JWTMiddleware(cfg), func(c *fiber.Ctx) error {
		userID, err := CurrentUserID(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"user_id": userID})
	})
	app.Get("/admin-only", JWTMiddleware(cfg), RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestJWTMiddleware(t *testing.T) {
	cfg := testConfig()
	app := middlewareTestApp(cfg)

	adminToken, err := GenerateToken(testSecret, &models.User{ID: 1, Email: "admin@x.y", Role: models.RoleAdmin})
	require.NoError(t, err)
	userToken, err := GenerateToken(testSecret, &models.User{ID: 2, Email: "user@x.y", Role: models.RoleUser})
	require.NoError(t, err)

	tests := []struct {
		name       string
		path       string
		authHeader string
		wantStatus int
	}{
		{"missing header", "/protected", "", fiber.StatusUnauthorized},
		{"wrong scheme", "/protected", "Basic abc", fiber.StatusUnauthorized},
		{"garbage token", "/protected", "Bearer not.a.jwt", fiber.StatusUnauthorized},
		{"valid token", "/protected", "Bearer " + userToken, fiber.StatusOK},
		{"user blocked from admin route", "/admin-only", "Bearer " + userToken, fiber.StatusForbidden},
		{"admin allowed on admin route", "/admin-only", "Bearer " + adminToken, fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
