// Package testutils holds helpers shared by the HTTP-level tests: session
// tokens signed with a test-only secret and a small request builder around
// httptest.
package testutils
