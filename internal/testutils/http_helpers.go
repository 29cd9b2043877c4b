package testutils

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// RequestOption is a function that configures an HTTP request.
type RequestOption func(*http.Request)

// WithHeader adds a header to the request.
func WithHeader(key, value string) RequestOption {
	return func(req *http.Request) {
		req.Header.Set(key, value)
	}
}

// WithBearer sends token in the Authorization header. An empty token is a no-op.
func WithBearer(token string) RequestOption {
	return func(req *http.Request) {
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
}

// WithSessionCookie sends token in the test session cookie. An empty token is a no-op.
func WithSessionCookie(token string) RequestOption {
	return func(req *http.Request) {
		if token != "" {
			req.AddCookie(&http.Cookie{Name: TestSessionCookie, Value: token})
		}
	}
}

// ExecuteRequest serves a request against handler and returns the recorded
// response. A non-empty body is sent as JSON.
func ExecuteRequest(
	t *testing.T,
	handler http.Handler,
	method string,
	path string,
	body string,
	options ...RequestOption,
) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	for _, option := range options {
		option(req)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// DecodeJSON unmarshals the recorded body into v, failing the test on error.
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), "Failed to decode response: %s", rec.Body.String())
}

// DecodeObject decodes the recorded body as a JSON object.
func DecodeObject(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	DecodeJSON(t, rec, &out)
	return out
}
