package shared

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	RespondWithJSON(rec, req, http.StatusCreated, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"hello":"world"}`, rec.Body.String())
}

func TestRespondWithError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithTraceID(req.Context(), "trace-1"))
	rec := httptest.NewRecorder()

	RespondWithError(rec, req, http.StatusBadRequest, "Invalid request format")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Invalid request format", body["error"])
	assert.Equal(t, "trace-1", body["trace_id"])
	assert.NotContains(t, body, "Code")
}

func TestRespondWithErrorAndLog_RedactsAndLevels(t *testing.T) {
	buf, l := logger.NewTestLogger(t)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req = req.WithContext(logger.WithLogger(req.Context(), l))
	rec := httptest.NewRecorder()

	cause := errors.New("dial postgres://admin:hunter2@db:5432/tasks failed")
	RespondWithErrorAndLog(rec, req, http.StatusInternalServerError, "An unexpected error occurred", cause)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hunter2")
	assert.NotContains(t, rec.Body.String(), "postgres://")

	assert.True(t, buf.HasMessage(slog.LevelError, "API error response"))
	assert.False(t, strings.Contains(buf.String(), "hunter2"), "password must be redacted from logs")
}
