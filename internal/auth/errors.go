package auth

import "errors"

// Common token validation errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid session token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("session token has expired")

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf claim in the future)
	ErrTokenNotYetValid = errors.New("session token not yet valid")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("session token is missing")

	// ErrWeakSecret indicates the signing secret is too short
	ErrWeakSecret = errors.New("session secret must be at least 32 characters")
)
