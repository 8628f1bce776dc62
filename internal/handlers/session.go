package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mohammedALrabeai/salon-sub001/internal/handlers/render"
	"github.com/mohammedALrabeai/salon-sub001/internal/logger"
	"github.com/mohammedALrabeai/salon-sub001/internal/models"
)

type sessionLister interface {
	Sessions(ctx context.Context, userID uuid.UUID) ([]models.ApiToken, error)
}

// handleLogout revokes exactly the credential the request came with
func handleLogout(tokens tokenService, l logger.Logger) http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, _ := TokenFromContext(r.Context())

		if err := tokens.Revoke(r.Context(), token); err != nil {
			l.Error("logout failed", "token_id", token.ID.String(), "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, response{Message: "Logged out successfully"})
	})
}

// handleSessions lists the user's active device sessions
func handleSessions(lister sessionLister, l logger.Logger) http.Handler {
	type session struct {
		ID         uuid.UUID  `json:"id"`
		DeviceID   *string    `json:"device_id,omitempty"`
		DeviceName *string    `json:"device_name,omitempty"`
		DeviceOS   *string    `json:"device_os,omitempty"`
		AppVersion *string    `json:"app_version,omitempty"`
		IPAddress  string     `json:"ip_address"`
		CreatedAt  time.Time  `json:"created_at"`
		LastUsedAt *time.Time `json:"last_used_at,omitempty"`
		Current    bool       `json:"current"`
	}
	type response struct {
		Sessions []session `json:"sessions"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		current, _ := TokenFromContext(r.Context())

		tokens, err := lister.Sessions(r.Context(), user.ID)
		if err != nil {
			l.Error("failed to list sessions", "user_id", user.ID.String(), "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		sessions := make([]session, 0, len(tokens))
		for _, t := range tokens {
			sessions = append(sessions, session{
				ID:         t.ID,
				DeviceID:   t.Device.DeviceID,
				DeviceName: t.Device.DeviceName,
				DeviceOS:   t.Device.DeviceOS,
				AppVersion: t.Device.AppVersion,
				IPAddress:  t.IPAddress,
				CreatedAt:  t.CreatedAt,
				LastUsedAt: t.LastUsedAt,
				Current:    t.ID == current.ID,
			})
		}

		render.JSON(w, response{Sessions: sessions})
	})
}
