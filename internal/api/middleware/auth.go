package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/postdesk/internal/api/shared"
	"github.com/phrazzld/postdesk/internal/auth"
	"github.com/phrazzld/postdesk/internal/domain"
	"github.com/phrazzld/postdesk/internal/platform/logger"
)

// UnauthorizedMessage is the body of every 401 response.
const UnauthorizedMessage = "Unauthorized"

// AuthMiddleware gates routes on a verified session holding a capability.
type AuthMiddleware struct {
	verifier auth.TokenVerifier
	policy   auth.Policy
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(verifier auth.TokenVerifier, policy auth.Policy) *AuthMiddleware {
	if verifier == nil {
		panic("verifier cannot be nil")
	}
	if policy == nil {
		panic("policy cannot be nil")
	}
	return &AuthMiddleware{
		verifier: verifier,
		policy:   policy,
	}
}

// RequireCapability rejects requests whose session lacks capability with 401
// before the wrapped handler runs. Verified claims are added to the request
// context and to the request logger.
func (m *AuthMiddleware) RequireCapability(capability domain.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := m.verifier.Verify(r)
			if err != nil {
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, err.Error(), err)
				return
			}

			if !m.policy.Authorize(claims, capability) {
				err := fmt.Errorf("%w: session lacks %s", domain.ErrUnauthorized, capability)
				if claims == nil {
					err = fmt.Errorf("%w: no valid session", domain.ErrUnauthorized)
				}
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, UnauthorizedMessage, err)
				return
			}

			log := logger.FromContext(r.Context()).With(
				slog.String("subject", claims.Subject),
				slog.String("role", claims.Role.String()))
			ctx := shared.WithClaims(r.Context(), claims)
			ctx = logger.WithLogger(ctx, log)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
