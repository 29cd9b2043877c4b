package api

import (
	"net/http"

	"github.com/phrazzld/postdesk/internal/store"
)

// NotFoundMessage is the body of every 404 response for a post.
const NotFoundMessage = "No post with the ID found"

// MapErrorToStatusCode maps store and payload errors to HTTP status codes.
// Absence is the only failure with a dedicated code; every other failure,
// including malformed payloads, is an internal error. Authorization is
// decided by middleware before a handler runs.
func MapErrorToStatusCode(err error) int {
	if store.IsNotFoundError(err) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// ErrorMessage returns the response body for err at status.
// Internal errors carry the raw error message.
func ErrorMessage(err error, status int) string {
	if status == http.StatusNotFound {
		return NotFoundMessage
	}
	if err == nil {
		return "An unexpected error occurred"
	}
	return err.Error()
}
