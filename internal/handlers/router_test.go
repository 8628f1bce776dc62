package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohammedALrabeai/salon-sub001/internal/handlers"
	"github.com/mohammedALrabeai/salon-sub001/internal/handlers/middleware"
	"github.com/mohammedALrabeai/salon-sub001/internal/logger"
	"github.com/mohammedALrabeai/salon-sub001/internal/repository"
	"github.com/mohammedALrabeai/salon-sub001/internal/repository/postgres"
	"github.com/mohammedALrabeai/salon-sub001/internal/service/auth"
	"github.com/mohammedALrabeai/salon-sub001/internal/testutil"
)

type tokenPayload struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Full round trip through the real stack: login, authenticated request,
// session listing, rotation and logout against a live postgres.
func Test_Router_TokenLifecycle(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	st := postgres.NewStorage(pg.Pool)
	l := logger.NewNoOpLogger()

	tokens, err := auth.NewTokenService(auth.TokenConfig{}, st)
	require.NoError(t, err)
	login, err := auth.NewLoginService(auth.LoginConfig{}, tokens, st)
	require.NoError(t, err)

	hashed, err := auth.BcryptHasher{}.Hash("pwd12345")
	require.NoError(t, err)
	_, err = st.User().CreateUser(t.Context(), repository.CreateUserParams{
		Username:       "reception",
		HashedPassword: hashed,
	})
	require.NoError(t, err)

	router := handlers.NewRouter(
		handlers.NewAuth(login, tokens, l),
		tokens,
		l,
		middleware.AuthMiddleware(tokens, l),
	)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	do := func(t *testing.T, method, path, payload, bearer string) (*http.Response, string) {
		t.Helper()

		var body io.Reader
		if payload != "" {
			body = strings.NewReader(payload)
		}
		req, err := http.NewRequest(method, srv.URL+path, body)
		require.NoError(t, err)
		if payload != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		defer resp.Body.Close() // nolint:errcheck

		return resp, string(raw)
	}

	// Login
	resp, body := do(t, http.MethodPost, "/api/auth/login",
		`{"username": "reception", "password": "pwd12345", "device_name": "iPad"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, "login should succeed. Resp: %s", body)

	var first tokenPayload
	require.NoError(t, json.Unmarshal([]byte(body), &first))
	require.NotEmpty(t, first.AccessToken)
	require.NotEmpty(t, first.RefreshToken)
	require.Equal(t, "Bearer", first.TokenType)
	require.Equal(t, int64(3600), first.ExpiresIn)

	// Authenticated request
	resp, body = do(t, http.MethodGet, "/api/me", "", first.AccessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"username":"reception"`)

	// Session listing marks the presented credential as current
	resp, body = do(t, http.MethodGet, "/api/auth/sessions", "", first.AccessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"current":true`)
	assert.Contains(t, body, `"device_name":"iPad"`)

	// Rotation invalidates the old pair
	resp, body = do(t, http.MethodPost, "/api/auth/refresh",
		`{"refresh_token": "`+first.RefreshToken+`"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, "refresh should succeed. Resp: %s", body)

	var second tokenPayload
	require.NoError(t, json.Unmarshal([]byte(body), &second))
	require.NotEqual(t, first.AccessToken, second.AccessToken)

	resp, body = do(t, http.MethodGet, "/api/me", "", first.AccessToken)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{
		"error": "auth_failed",
		"code": "TOKEN_INVALID",
		"message": "Invalid or missing access token"
	}`, body)

	resp, _ = do(t, http.MethodGet, "/api/me", "", second.AccessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, "rotated credential should work")

	// A spent refresh secret is refused
	resp, _ = do(t, http.MethodPost, "/api/auth/refresh",
		`{"refresh_token": "`+first.RefreshToken+`"}`, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Logout kills exactly the presented credential
	resp, _ = do(t, http.MethodPost, "/api/auth/logout", "", second.AccessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, "/api/me", "", second.AccessToken)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Unauthenticated requests to protected routes are refused outright
	resp, _ = do(t, http.MethodGet, "/api/me", "", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
