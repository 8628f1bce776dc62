package handlers

import (
	"context"

	"github.com/mohammedALrabeai/salon-sub001/internal/models"
)

type ctxKey string

const (
	userKey  ctxKey = "user"
	tokenKey ctxKey = "token"
)

func NewContextWithUser(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func UserFromContext(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey).(models.User)
	return u, ok
}

// The resolved ApiToken is exposed for downstream use, e.g. logout revokes
// exactly the credential the request came with
func NewContextWithToken(ctx context.Context, t models.ApiToken) context.Context {
	return context.WithValue(ctx, tokenKey, t)
}

func TokenFromContext(ctx context.Context) (models.ApiToken, bool) {
	t, ok := ctx.Value(tokenKey).(models.ApiToken)
	return t, ok
}
