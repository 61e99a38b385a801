package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"summit-scheduler/core/constants"
	"summit-scheduler/core/entity"
	"summit-scheduler/core/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newServer(mw *Middleware) *echo.Echo {
	e := echo.New()
	g := e.Group("/private", mw.AuthMiddleware())
	g.GET("/me", func(c echo.Context) error {
		claims := c.Get(constants.ContextTokenData).(*utils.TokenClaims)
		return c.String(http.StatusOK, claims.UserID.String())
	})
	g.GET("/organizer", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, mw.RequireRole(entity.RoleOrganizer))
	return e
}

func do(e *echo.Echo, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	e := newServer(NewMiddleware(testSecret))
	userID := uuid.New()

	valid, err := utils.GenerateToken(testSecret, userID, entity.RoleModerator, time.Hour)
	require.NoError(t, err)
	expired, err := utils.GenerateToken(testSecret, userID, entity.RoleModerator, -time.Hour)
	require.NoError(t, err)
	foreign, err := utils.GenerateToken("other", userID, entity.RoleModerator, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantBody string
	}{
		{name: "missing header", header: "", wantCode: http.StatusUnauthorized, wantBody: "MISSING_AUTHORIZATION_HEADER"},
		{name: "not bearer", header: "Basic abc", wantCode: http.StatusUnauthorized, wantBody: "INVALID_TOKEN_FORMAT"},
		{name: "expired", header: "Bearer " + expired, wantCode: http.StatusUnauthorized, wantBody: "TOKEN_EXPIRED"},
		{name: "wrong secret", header: "Bearer " + foreign, wantCode: http.StatusUnauthorized, wantBody: "UNAUTHORIZED"},
		{name: "valid", header: "Bearer " + valid, wantCode: http.StatusOK, wantBody: userID.String()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, "/private/me", tt.header)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestRequireRole(t *testing.T) {
	e := newServer(NewMiddleware(testSecret))

	organizer, err := utils.GenerateToken(testSecret, uuid.New(), entity.RoleOrganizer, time.Hour)
	require.NoError(t, err)
	moderator, err := utils.GenerateToken(testSecret, uuid.New(), entity.RoleModerator, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, do(e, "/private/organizer", "Bearer "+organizer).Code)

	rec := do(e, "/private/organizer", "Bearer "+moderator)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "FORBIDDEN")
}
