// Package auth verifies session tokens and decides what a verified session may do.
//
// Sessions are HS256-signed JWTs carrying a role claim. A JWTVerifier reads the
// token from the session cookie (falling back to an Authorization bearer header)
// and yields Claims; a Policy maps the claimed role to capabilities. An Issuer
// mints tokens with the same secret for tooling and tests.
package auth
