package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/postdesk/internal/config"
	"github.com/phrazzld/postdesk/internal/domain"
	"github.com/phrazzld/postdesk/internal/platform/logger"
)

// Issuer mints session tokens signed with the shared secret.
type Issuer struct {
	signingKey    []byte
	tokenLifetime time.Duration
	timeFunc      func() time.Time // Injectable for testing
}

// NewIssuer creates an issuer from the auth configuration.
func NewIssuer(cfg config.AuthConfig) (*Issuer, error) {
	if len(cfg.SessionSecret) < minSecretLength {
		return nil, ErrWeakSecret
	}
	if cfg.TokenLifetimeMinutes <= 0 {
		return nil, fmt.Errorf("token lifetime must be positive, got %d minutes", cfg.TokenLifetimeMinutes)
	}

	return &Issuer{
		signingKey:    []byte(cfg.SessionSecret),
		tokenLifetime: time.Duration(cfg.TokenLifetimeMinutes) * time.Minute,
		timeFunc:      time.Now,
	}, nil
}

// Session describes the holder of a token to be issued.
type Session struct {
	Subject string
	Name    string
	Email   string
	Role    domain.Role
}

// GenerateToken creates a signed session token for s.
func (i *Issuer) GenerateToken(ctx context.Context, s Session) (string, error) {
	log := logger.FromContext(ctx)
	now := i.timeFunc()

	claims := sessionClaims{
		Role:  s.Role.String(),
		Name:  s.Name,
		Email: s.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.tokenLifetime)),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(i.signingKey)
	if err != nil {
		log.Error("failed to sign session token",
			"error", err,
			"subject", s.Subject,
			"signing_method", jwt.SigningMethodHS256.Name)
		return "", fmt.Errorf("failed to sign session token with HMAC-SHA256: %w", err)
	}

	return signedToken, nil
}
