package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMux(checks map[string]Check) *http.ServeMux {
	mux := http.NewServeMux()
	NewHealthHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), checks).RegisterRoutes(mux)
	return mux
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestMux(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "seqscore", resp.Service)
}

func TestReadyz(t *testing.T) {
	ok := func(context.Context) error { return nil }

	t.Run("all checks pass", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newTestMux(map[string]Check{"artifact": ok, "database": ok}).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp ReadinessResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "ready", resp.Status)
		assert.Equal(t, map[string]string{"artifact": "ok", "database": "ok"}, resp.Checks)
	})

	t.Run("failing check", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newTestMux(map[string]Check{
			"artifact": func(context.Context) error { return errors.New("artifact not found") },
			"database": ok,
		}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var resp ReadinessResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "not_ready", resp.Status)
		assert.Equal(t, "artifact not found", resp.Checks["artifact"])
		assert.Equal(t, "ok", resp.Checks["database"])
	})

	t.Run("method not allowed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newTestMux(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/readyz", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
