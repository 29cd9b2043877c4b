package shared

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/postdesk/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		data         interface{}
		expectedBody string
	}{
		{
			name:         "successful response",
			status:       http.StatusOK,
			data:         map[string]interface{}{"message": "success", "data": 123},
			expectedBody: `{"message":"success","data":123}`,
		},
		{
			name:         "empty list",
			status:       http.StatusOK,
			data:         []string{},
			expectedBody: `[]`,
		},
		{
			name:         "created",
			status:       http.StatusCreated,
			data:         map[string]string{"id": "p1"},
			expectedBody: `{"id":"p1"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			w := httptest.NewRecorder()

			RespondWithJSON(w, req, tc.status, tc.data)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, tc.expectedBody, w.Body.String())
		})
	}
}

func TestRespondWithErrorIsPlainText(t *testing.T) {
	ctx := SetTraceID(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/posts/x", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusNotFound, "No post with the ID found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No post with the ID found", w.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, GetTraceID(ctx), w.Header().Get(TraceIDHeader))
}

func TestRespondWithNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithNoContent(w)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestRespondWithErrorAndLogLevels(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		err       error
		wantLevel string
	}{
		{
			name:      "server error logged at error",
			status:    http.StatusInternalServerError,
			err:       errors.New("dial tcp: connection refused"),
			wantLevel: "ERROR",
		},
		{
			name:      "client error logged at debug",
			status:    http.StatusUnauthorized,
			err:       errors.New("no session"),
			wantLevel: "DEBUG",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf, log := logger.SetupTestLogger(t)

			ctx := logger.WithLogger(SetTraceID(context.Background()), log)
			req := httptest.NewRequest(http.MethodPost, "/posts", nil).WithContext(ctx)
			w := httptest.NewRecorder()

			RespondWithErrorAndLog(w, req, tc.status, "message", tc.err)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, "message", w.Body.String())

			entries, err := buf.GetLogEntries()
			require.NoError(t, err)

			var found bool
			for _, entry := range entries {
				if entry["msg"] == "API error response" {
					found = true
					assert.Equal(t, tc.wantLevel, entry["level"])
					assert.Equal(t, GetTraceID(ctx), entry["trace_id"])
					assert.Equal(t, float64(tc.status), entry["status_code"])
				}
			}
			assert.True(t, found, "expected an API error response log entry")
		})
	}
}

func TestRespondWithErrorAndLogRedactsSecrets(t *testing.T) {
	buf, log := logger.SetupTestLogger(t)

	ctx := logger.WithLogger(context.Background(), log)
	req := httptest.NewRequest(http.MethodGet, "/posts", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	err := errors.New("failed to connect to postgres://admin:hunter2@db:5432/posts")
	RespondWithErrorAndLog(w, req, http.StatusInternalServerError, "boom", err)

	assert.NotContains(t, buf.String(), "hunter2")
}
