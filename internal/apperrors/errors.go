package apperrors

import (
	"errors"
	"net/http"
	"time"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")

	ErrTokenNotFound = errors.New("api token not found")
)

// Machine readable authentication error codes
// The response envelope exposes them to API clients as is
const (
	CodeTokenInvalid    = "TOKEN_INVALID"
	CodeTokenExpired    = "TOKEN_EXPIRED"
	CodeAccountInactive = "ACCOUNT_INACTIVE"
	CodeAccountLocked   = "ACCOUNT_LOCKED"
)

// AuthError is a terminal authentication failure.
// Two errors are considered the same (errors.Is) when their codes match, so
// detail-carrying instances still match the package level sentinels.
type AuthError struct {
	Code    string
	Status  int
	Message string
	Details map[string]string
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	return ok && t.Code == e.Code
}

var (
	// Malformed, missing, unknown and revoked credentials are deliberately
	// indistinguishable to the caller
	ErrTokenInvalid = &AuthError{
		Code:    CodeTokenInvalid,
		Status:  http.StatusUnauthorized,
		Message: "Invalid or missing access token",
	}

	// Known credential past its access expiry, the client may try to refresh
	ErrTokenExpired = &AuthError{
		Code:    CodeTokenExpired,
		Status:  http.StatusUnauthorized,
		Message: "Access token expired",
	}

	ErrAccountInactive = &AuthError{
		Code:    CodeAccountInactive,
		Status:  http.StatusForbidden,
		Message: "Account is not active",
	}

	ErrAccountLocked = &AuthError{
		Code:    CodeAccountLocked,
		Status:  http.StatusForbidden,
		Message: "Account is temporarily locked",
	}
)

// AccountInactive returns ErrAccountInactive with the actual account status
// attached for diagnostics
func AccountInactive(status string) *AuthError {
	return &AuthError{
		Code:    CodeAccountInactive,
		Status:  http.StatusForbidden,
		Message: "Account is not active",
		Details: map[string]string{"status": status},
	}
}

// AccountLocked returns ErrAccountLocked with the lockout expiry attached
func AccountLocked(lockedUntil time.Time) *AuthError {
	return &AuthError{
		Code:    CodeAccountLocked,
		Status:  http.StatusForbidden,
		Message: "Account is temporarily locked",
		Details: map[string]string{"locked_until": lockedUntil.UTC().Format(time.RFC3339)},
	}
}
