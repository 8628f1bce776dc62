package handlers

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mohammedALrabeai/salon-sub001/internal/apperrors"
	"github.com/mohammedALrabeai/salon-sub001/internal/handlers/render"
	"github.com/mohammedALrabeai/salon-sub001/internal/logger"
	"github.com/mohammedALrabeai/salon-sub001/internal/models"
)

type loginService interface {
	// Login user with username and password
	// Has to return apperrors.ErrUserNotFound on unknown user or wrong
	// password, *apperrors.AuthError on locked or inactive accounts
	Login(ctx context.Context, username string, password string, device models.DeviceInfo, ip string) (models.IssuedPair, error)
}

type tokenService interface {
	// Exchange refresh secret for a fresh pair, revoking the old one
	Refresh(ctx context.Context, refreshSecret string) (models.IssuedPair, error)

	// Revoke the token, idempotent
	Revoke(ctx context.Context, token models.ApiToken) error
}

type AuthHandler struct {
	login  loginService
	tokens tokenService
	logger logger.Logger
}

func NewAuth(login loginService, tokens tokenService, l logger.Logger) *AuthHandler {
	return &AuthHandler{login: login, tokens: tokens, logger: l}
}

func (h *AuthHandler) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", h.handleLogin)
	mux.HandleFunc("POST /refresh", h.handleRefresh)

	return mux
}

// tokenResponse is the payload returned on login and refresh.
// The plaintext secrets appear here exactly once.
type tokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int64     `json:"expires_in"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func newTokenResponse(pair models.IssuedPair) tokenResponse {
	return tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    pair.ExpiresIn,
		ExpiresAt:    pair.ExpiresAt,
	}
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	type LoginRequest struct {
		Username   string  `json:"username" validate:"required"`
		Password   string  `json:"password" validate:"required"`
		DeviceID   *string `json:"device_id"`
		DeviceName *string `json:"device_name"`
		DeviceOS   *string `json:"device_os"`
		AppVersion *string `json:"app_version"`
	}

	data, err := render.BindAndValidate[LoginRequest](w, r)
	if err != nil {
		return
	}

	device := models.DeviceInfo{
		DeviceID:   data.DeviceID,
		DeviceName: data.DeviceName,
		DeviceOS:   data.DeviceOS,
		AppVersion: data.AppVersion,
	}

	pair, err := h.login.Login(r.Context(), data.Username, data.Password, device, clientIP(r))
	if err != nil {
		var authErr *apperrors.AuthError

		switch {
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "Invalid username or password", http.StatusUnauthorized)
		case errors.As(err, &authErr):
			render.AuthError(w, authErr)
		default:
			h.logger.Error("login failed unexpectedly", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, newTokenResponse(pair))
}

func (h *AuthHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	type RefreshRequest struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}

	data, err := render.BindAndValidate[RefreshRequest](w, r)
	if err != nil {
		return
	}

	pair, err := h.tokens.Refresh(r.Context(), data.RefreshToken)
	if err != nil {
		var authErr *apperrors.AuthError
		if errors.As(err, &authErr) {
			render.AuthError(w, authErr)
			return
		}

		h.logger.Error("token refresh failed unexpectedly", "error", err.Error())
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSON(w, newTokenResponse(pair))
}

// clientIP prefers the first X-Forwarded-For hop, falls back to the peer
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.SplitN(forwarded, ",", 2)[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
