package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/postdesk/internal/config"
	"github.com/phrazzld/postdesk/internal/platform/logger"
)

// minSecretLength matches the config validation rule for auth.session_secret.
const minSecretLength = 32

// defaultClockSkew is the leeway applied to exp, nbf and iat checks.
const defaultClockSkew = 30 * time.Second

// TokenVerifier extracts and validates the session credential carried by a request.
type TokenVerifier interface {
	// Verify returns the claims of a valid session token, or nil claims when the
	// request carries no token or an invalid one. The error is reserved for
	// failures that prevent a decision.
	Verify(r *http.Request) (*Claims, error)
}

// JWTVerifier validates HS256 session tokens signed with the shared secret.
type JWTVerifier struct {
	signingKey []byte
	cookieName string
	timeFunc   func() time.Time // Injectable for testing
	clockSkew  time.Duration
}

var _ TokenVerifier = (*JWTVerifier)(nil)

// NewJWTVerifier creates a verifier from the auth configuration.
func NewJWTVerifier(cfg config.AuthConfig) (*JWTVerifier, error) {
	if len(cfg.SessionSecret) < minSecretLength {
		return nil, ErrWeakSecret
	}
	if cfg.SessionCookie == "" {
		return nil, fmt.Errorf("session cookie name cannot be empty")
	}

	return &JWTVerifier{
		signingKey: []byte(cfg.SessionSecret),
		cookieName: cfg.SessionCookie,
		timeFunc:   time.Now,
		clockSkew:  defaultClockSkew,
	}, nil
}

// Verify implements TokenVerifier.
// The session cookie is preferred; an Authorization bearer header is accepted
// when no cookie is present.
func (v *JWTVerifier) Verify(r *http.Request) (*Claims, error) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	tokenString, err := v.extractToken(r)
	if err != nil {
		log.Debug("no session token on request", slog.String("error", err.Error()))
		return nil, nil
	}

	claims, err := v.ValidateToken(ctx, tokenString)
	if err != nil {
		log.Debug("session token rejected", slog.String("error", err.Error()))
		return nil, nil
	}

	return claims, nil
}

func (v *JWTVerifier) extractToken(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(v.cookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrMissingToken
	}

	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrInvalidToken
	}

	return strings.TrimSpace(token), nil
}

// ValidateToken validates a session token string and returns its claims.
func (v *JWTVerifier) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	log := logger.FromContext(ctx)

	now := v.timeFunc()
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.clockSkew),
		jwt.WithTimeFunc(func() time.Time {
			return now
		}),
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&sessionClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return v.signingKey, nil
		},
		parserOpts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("session token validation failed: token expired", "error", err)
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			log.Debug("session token validation failed: token not yet valid", "error", err)
			return nil, ErrTokenNotYetValid
		default:
			log.Debug("session token validation failed",
				"error", err,
				"error_type", fmt.Sprintf("%T", err))
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		log.Debug("session token validation failed: invalid claims")
		return nil, ErrInvalidToken
	}

	result := claims.toClaims()
	log.Debug("session token validated",
		"subject", result.Subject,
		"role", result.Role.String(),
		"token_id", result.ID)

	return result, nil
}
