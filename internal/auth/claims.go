package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/postdesk/internal/domain"
)

// Claims is the verified content of a session token.
type Claims struct {
	Subject   string
	Name      string
	Email     string
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}

// sessionClaims is the wire form of the token payload.
type sessionClaims struct {
	Role  string `json:"role"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

func (c *sessionClaims) toClaims() *Claims {
	claims := &Claims{
		Subject: c.Subject,
		Name:    c.Name,
		Email:   c.Email,
		Role:    domain.ParseRole(c.Role),
		ID:      c.ID,
	}
	if c.IssuedAt != nil {
		claims.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		claims.ExpiresAt = c.ExpiresAt.Time
	}
	return claims
}
