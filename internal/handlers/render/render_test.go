package render

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohammedALrabeai/salon-sub001/internal/apperrors"
)

func serve(t *testing.T, h http.HandlerFunc) (*http.Response, string) {
	t.Helper()

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/test")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer resp.Body.Close() // nolint:errcheck

	return resp, string(body)
}

func TestRender_JSON(t *testing.T) {
	resp, body := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		JSON(w, map[string]any{"key1": 1, "key2": "222"})
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"key1":1,"key2":"222"}`, body)
}

func TestRender_ServiceError(t *testing.T) {
	resp, body := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		ServiceError(w, "something terrible happened", http.StatusForbidden)
	})

	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.JSONEq(t, `{
			"error": "service_error",
			"message": "something terrible happened"
		}`,
		body,
	)
}

func TestRender_AuthError(t *testing.T) {
	t.Run("without details", func(t *testing.T) {
		resp, body := serve(t, func(w http.ResponseWriter, _ *http.Request) {
			AuthError(w, apperrors.ErrTokenExpired)
		})

		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.JSONEq(t, `{
				"error": "auth_failed",
				"code": "TOKEN_EXPIRED",
				"message": "Access token expired"
			}`,
			body,
		)
	})

	t.Run("with details", func(t *testing.T) {
		until := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		resp, body := serve(t, func(w http.ResponseWriter, _ *http.Request) {
			AuthError(w, apperrors.AccountLocked(until))
		})

		require.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.JSONEq(t, `{
				"error": "auth_failed",
				"code": "ACCOUNT_LOCKED",
				"message": "Account is temporarily locked",
				"details": {"locked_until": "2026-01-02T03:04:05Z"}
			}`,
			body,
		)
	})
}

func TestRender_BindAndValidate(t *testing.T) {
	type request struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required,min=8"`
	}

	bind := func(t *testing.T, payload string) (*http.Response, string) {
		t.Helper()

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			value, err := BindAndValidate[request](w, r)
			if err != nil {
				return
			}
			JSON(w, value)
		}))
		t.Cleanup(ts.Close)

		resp, err := http.Post(ts.URL+"/test", "application/json", strings.NewReader(payload))
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		defer resp.Body.Close() // nolint:errcheck

		return resp, string(body)
	}

	t.Run("valid payload ok", func(t *testing.T) {
		resp, body := bind(t, `{"username": "nk", "password": "longenough"}`)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"username": "nk", "password": "longenough"}`, body)
	})

	t.Run("invalid json is a decode error", func(t *testing.T) {
		resp, body := bind(t, `{"username": `)

		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, body, DecodingErrorType)
	})

	t.Run("validation errors use json field names", func(t *testing.T) {
		resp, body := bind(t, `{"username": "", "password": "short"}`)

		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.JSONEq(t, `{
				"error": "validation_failed",
				"message": "Request validation failed",
				"fields": {
					"username": "This field is required",
					"password": "Value is too short (minimum 8)"
				}
			}`,
			body,
		)
	})
}
