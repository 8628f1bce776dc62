package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/mohammedALrabeai/salon-sub001/internal/apperrors"
	"github.com/mohammedALrabeai/salon-sub001/internal/handlers"
	"github.com/mohammedALrabeai/salon-sub001/internal/handlers/render"
	"github.com/mohammedALrabeai/salon-sub001/internal/models"
)

const bearerScheme = "Bearer "

type authService interface {
	// Resolve access secret to its user and token
	// Failures are *apperrors.AuthError values
	Authenticate(ctx context.Context, secret string) (models.User, models.ApiToken, error)

	// Stamp last_used_at on the token, best effort
	TouchLastUsed(ctx context.Context, token models.ApiToken) error
}

// AuthMiddleware guards endpoints with bearer token authentication.
// On success the resolved user and token are bound to the request context
// and last_used_at is updated without blocking the response.
func AuthMiddleware(as authService, l logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			secret, ok := bearerSecret(r)
			if !ok {
				render.AuthError(w, apperrors.ErrTokenInvalid)
				return
			}

			user, token, err := as.Authenticate(r.Context(), secret)
			if err != nil {
				var authErr *apperrors.AuthError
				if errors.As(err, &authErr) {
					render.AuthError(w, authErr)
					return
				}

				l.Error("authentication failed unexpectedly", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			// Fire and forget: the write must survive the response, its
			// failure must not convert success into failure
			go func(ctx context.Context) {
				if err := as.TouchLastUsed(ctx, token); err != nil {
					l.Warn("failed to update token last_used_at",
						"token_id", token.ID.String(),
						"error", err.Error(),
					)
				}
			}(context.WithoutCancel(r.Context()))

			ctx := handlers.NewContextWithUser(r.Context(), user)
			ctx = handlers.NewContextWithToken(ctx, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerSecret extracts the secret from 'Authorization: Bearer <secret>'.
// Missing header or any other scheme is a failure.
func bearerSecret(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	secret, found := strings.CutPrefix(header, bearerScheme)
	if !found || secret == "" {
		return "", false
	}

	return secret, true
}
