package testutils

import (
	"context"
	"testing"

	"github.com/phrazzld/postdesk/internal/auth"
	"github.com/phrazzld/postdesk/internal/config"
	"github.com/phrazzld/postdesk/internal/domain"
	"github.com/stretchr/testify/require"
)

const (
	// TestSessionSecret is a dedicated test-only secret for signing session tokens.
	// This must never be used in production.
	TestSessionSecret = "test-session-secret-that-is-32-chars-long"

	// TestSessionCookie is the session cookie name used by the test config.
	TestSessionCookie = "session-token"
)

// AuthConfig returns the auth settings matching TestSessionSecret.
func AuthConfig() config.AuthConfig {
	return config.AuthConfig{
		SessionSecret:        TestSessionSecret,
		SessionCookie:        TestSessionCookie,
		TokenLifetimeMinutes: 60,
	}
}

// NewVerifier returns a verifier accepting tokens from SessionToken.
func NewVerifier(t *testing.T) *auth.JWTVerifier {
	t.Helper()
	verifier, err := auth.NewJWTVerifier(AuthConfig())
	require.NoError(t, err, "Failed to create token verifier")
	return verifier
}

// SessionToken mints a token for subject holding role.
func SessionToken(t *testing.T, subject string, role domain.Role) string {
	t.Helper()
	issuer, err := auth.NewIssuer(AuthConfig())
	require.NoError(t, err, "Failed to create token issuer")

	token, err := issuer.GenerateToken(context.Background(), auth.Session{Subject: subject, Role: role})
	require.NoError(t, err, "Failed to generate session token")
	return token
}

// AdminToken mints a token for an administrator.
func AdminToken(t *testing.T) string {
	t.Helper()
	return SessionToken(t, "test-admin", domain.RoleAdmin)
}

// UserToken mints a token for a regular user.
func UserToken(t *testing.T) string {
	t.Helper()
	return SessionToken(t, "test-user", domain.RoleUser)
}
