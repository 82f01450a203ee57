package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Mohammademon02/income-tracking-api/internal/config"
	"github.com/Mohammademon02/income-tracking-api/internal/service/secretary/v1/secretary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenHandle(t *testing.T) {
	t.Parallel()

	cfg := &config.SecretConfig{SecretKey: "test_secret_key"}
	secretaryService, err := secretary.NewSecretaryService(cfg)
	require.NoError(t, err)
	tokenHandler, err := NewTokenHandler(secretaryService, cfg)
	require.NoError(t, err)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	wrapped := tokenHandler.TokenHandle(next)

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/user/balance", nil)
		wrapped.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
	})

	t.Run("garbage token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/user/balance", nil)
		r.Header.Set("Authorization", "Bearer not-a-token")
		wrapped.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		accessToken, _, err := secretaryService.NewToken()
		require.NoError(t, err)
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/user/balance", nil)
		r.Header.Set("Authorization", "Bearer "+accessToken)
		wrapped.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
