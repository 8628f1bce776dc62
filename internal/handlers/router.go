package handlers

import (
	"net/http"

	"github.com/mohammedALrabeai/salon-sub001/internal/logger"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

type tokenSessionService interface {
	tokenService
	sessionLister
}

func NewRouter(
	authHandler *AuthHandler,
	tokens tokenSessionService,
	l logger.Logger,
	authMiddleware func(http.Handler) http.Handler,
	mds ...func(http.Handler) http.Handler,
) http.Handler {
	withAuth := func(h http.Handler) http.Handler {
		return authMiddleware(h)
	}

	apiauth := http.NewServeMux()
	apiauth.Handle("/", authHandler.Handler())
	apiauth.Handle("POST /logout", withAuth(handleLogout(tokens, l)))
	apiauth.Handle("GET /sessions", withAuth(handleSessions(tokens, l)))

	root := http.NewServeMux()
	root.Handle("/api/auth/", http.StripPrefix("/api/auth", apiauth))
	root.Handle("GET /api/me", withAuth(handleUserMe()))

	return chain(root, mds...)
}
