package integration

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"codeGrindAPI/middleware"
)

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	called := false
	handler := middleware.ClerkAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/user", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, called, "handler must not run without auth")
}

func TestAuthMiddlewareRejectsMalformedHeader(t *testing.T) {
	handler := middleware.ClerkAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/user", nil)
	req.Header.Set("Authorization", "Token abc123")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthMiddlewareRejectsInvalidToken(t *testing.T) {
	handler := middleware.ClerkAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/user", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-jwt")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGetClerkIDMissingFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/user", nil)
	_, ok := middleware.GetClerkID(req.Context())
	assert.False(t, ok)
}
