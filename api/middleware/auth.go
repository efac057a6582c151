package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/vastralabs/vastra-backend/api/responses"
	pkgauth "github.com/vastralabs/vastra-backend/pkg/auth"
	apperrors "github.com/vastralabs/vastra-backend/pkg/errors"
	"github.com/vastralabs/vastra-backend/pkg/logger"
)

// TokenParser verifies a raw bearer token and returns its claims.
type TokenParser interface {
	Parse(raw string, kind pkgauth.TokenKind) (*pkgauth.Claims, error)
}

// SessionChecker confirms the token's session has not been revoked.
type SessionChecker interface {
	Validate(ctx context.Context, accessID string, userID uuid.UUID) error
}

// Auth validates a bearer token and seeds the request context with the claims.
func Auth(parser TokenParser, sessions SessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeUnauthorized, "missing credentials"))
				return
			}

			ctx, err := authenticate(r.Context(), parser, sessions, logg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth seeds the context with claims when a bearer token is present
// and lets anonymous requests straight through. Checkout and quote endpoints
// use it so guests can buy without an account.
func OptionalAuth(parser TokenParser, sessions SessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx, err := authenticate(r.Context(), parser, sessions, logg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(ctx context.Context, parser TokenParser, sessions SessionChecker, logg *logger.Logger, token string) (context.Context, error) {
	claims, err := parser.Parse(token, pkgauth.TokenKindAccess)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "missing session id")
	}

	if sessions != nil {
		if err := sessions.Validate(ctx, claims.ID, claims.UserID); err != nil {
			if apperrors.CodeOf(err) == apperrors.CodeUnauthorized {
				return nil, err
			}
			return nil, apperrors.Wrap(apperrors.CodeDependency, err, "validate session")
		}
	}

	ctx = WithUserID(ctx, claims.UserID.String())
	ctx = WithRole(ctx, string(claims.Role))

	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{
			"user_id":    claims.UserID.String(),
			"actor_role": string(claims.Role),
		})
	}
	return ctx, nil
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
