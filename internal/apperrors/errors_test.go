package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAuthError_Is(t *testing.T) {
	t.Run("detail instances match sentinels", func(t *testing.T) {
		require.ErrorIs(t, AccountInactive("suspended"), ErrAccountInactive)
		require.ErrorIs(t, AccountLocked(time.Now()), ErrAccountLocked)
	})

	t.Run("different codes do not match", func(t *testing.T) {
		require.NotErrorIs(t, ErrTokenInvalid, ErrTokenExpired)
		require.NotErrorIs(t, AccountInactive("suspended"), ErrAccountLocked)
	})

	t.Run("match survives wrapping", func(t *testing.T) {
		err := fmt.Errorf("auth failed: %w", ErrTokenExpired)
		require.ErrorIs(t, err, ErrTokenExpired)
	})
}

func TestAuthError_Details(t *testing.T) {
	t.Run("inactive carries actual status", func(t *testing.T) {
		err := AccountInactive("suspended")

		require.Equal(t, http.StatusForbidden, err.Status)
		require.Equal(t, "suspended", err.Details["status"])
	})

	t.Run("locked carries expiry as ISO-8601", func(t *testing.T) {
		until := time.Date(2026, 8, 28, 12, 30, 0, 0, time.UTC)
		err := AccountLocked(until)

		require.Equal(t, http.StatusForbidden, err.Status)
		require.Equal(t, "2026-08-28T12:30:00Z", err.Details["locked_until"])
	})
}

func TestAuthError_As(t *testing.T) {
	var authErr *AuthError
	err := fmt.Errorf("request failed: %w", AccountInactive("disabled"))

	require.True(t, errors.As(err, &authErr))
	require.Equal(t, CodeAccountInactive, authErr.Code)
}
