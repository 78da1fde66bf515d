package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/shopfront/internal/auth"
)

func newTestTokenService() *auth.TokenService {
	return auth.NewTokenService("test-secret-key-for-testing-purposes", 15*time.Minute)
}

// ============================================
// ExtractToken Tests
// ============================================

func TestExtractToken_FromCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/cart", nil)
	r.AddCookie(&http.Cookie{Name: "session_token", Value: "cookie-token"})

	assert.Equal(t, "cookie-token", ExtractToken(r))
}

func TestExtractToken_FromBearerHeader(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/cart", nil)
	r.Header.Set("Authorization", "Bearer header-token")

	assert.Equal(t, "header-token", ExtractToken(r))
}

func TestExtractToken_CookieWinsOverHeader(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/cart", nil)
	r.AddCookie(&http.Cookie{Name: "session_token", Value: "cookie-token"})
	r.Header.Set("Authorization", "Bearer header-token")

	assert.Equal(t, "cookie-token", ExtractToken(r))
}

func TestExtractToken_Missing(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/cart", nil)

	assert.Empty(t, ExtractToken(r))
}

func TestExtractToken_MalformedAuthHeader(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/cart", nil)
	r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	assert.Empty(t, ExtractToken(r))
}

// ============================================
// RequireSession Tests
// ============================================

func TestRequireSession_ValidToken(t *testing.T) {
	tokens := newTestTokenService()
	token, _, err := tokens.Generate("aluno", "Aluno")
	require.NoError(t, err)

	var gotUsername string
	handler := RequireSession(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUsername = GetUsername(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest(http.MethodGet, "/cart", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "aluno", gotUsername)
}

func TestRequireSession_MissingToken(t *testing.T) {
	tokens := newTestTokenService()

	handler := RequireSession(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	r := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"unauthorized"}`, w.Body.String())
}

func TestRequireSession_InvalidToken(t *testing.T) {
	tokens := newTestTokenService()

	handler := RequireSession(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	r := httptest.NewRequest(http.MethodGet, "/cart", nil)
	r.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid token"}`, w.Body.String())
}

func TestRequireSession_ExpiredToken(t *testing.T) {
	expired := auth.NewTokenService("test-secret-key-for-testing-purposes", -1*time.Minute)
	token, _, err := expired.Generate("aluno", "Aluno")
	require.NoError(t, err)

	tokens := newTestTokenService()
	handler := RequireSession(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	r := httptest.NewRequest(http.MethodGet, "/cart", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// ============================================
// Context Helper Tests
// ============================================

func TestGetClaims_EmptyContext(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/cart", nil)

	_, ok := GetClaims(r.Context())
	assert.False(t, ok)
	assert.Empty(t, GetUsername(r.Context()))
}
