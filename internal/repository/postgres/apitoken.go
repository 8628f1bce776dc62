package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mohammedALrabeai/salon-sub001/internal/apperrors"
	"github.com/mohammedALrabeai/salon-sub001/internal/models"
)

type TokenRepo struct {
	DB DBTX
}

const tokenColumns = `id, user_id, access_token_hash, refresh_token_hash, expires_at, refresh_expires_at,
ip_address, device_id, device_name, device_os, app_version, revoked_at, last_used_at, created_at`

const createToken = `-- name: CreateToken
INSERT INTO api_tokens (id, user_id, access_token_hash, refresh_token_hash, expires_at, refresh_expires_at,
                        ip_address, device_id, device_name, device_os, app_version, revoked_at, last_used_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING ` + tokenColumns

func (r *TokenRepo) Create(ctx context.Context, t models.ApiToken) (models.ApiToken, error) {
	rows, _ := r.DB.Query(ctx, createToken,
		t.ID, t.UserID, t.AccessTokenHash, t.RefreshTokenHash, t.ExpiresAt, t.RefreshExpiresAt,
		t.IPAddress, t.Device.DeviceID, t.Device.DeviceName, t.Device.DeviceOS, t.Device.AppVersion,
		t.RevokedAt, t.LastUsedAt, t.CreatedAt,
	)
	token, err := pgx.CollectOneRow(rows, rowToToken)
	if err != nil {
		return token, fmt.Errorf("db error: %w", err)
	}

	return token, nil
}

const getTokenByAccessHash = `-- name: GetTokenByAccessHash
SELECT ` + tokenColumns + `
FROM api_tokens
WHERE access_token_hash = $1
`

// Exact-match lookup by access secret digest
// Returns revoked and expired tokens too, the caller decides what they mean
func (r *TokenRepo) GetByAccessHash(ctx context.Context, hash string) (models.ApiToken, error) {
	return r.getByHash(ctx, getTokenByAccessHash, hash)
}

const getTokenByRefreshHash = `-- name: GetTokenByRefreshHash
SELECT ` + tokenColumns + `
FROM api_tokens
WHERE refresh_token_hash = $1
`

func (r *TokenRepo) GetByRefreshHash(ctx context.Context, hash string) (models.ApiToken, error) {
	return r.getByHash(ctx, getTokenByRefreshHash, hash)
}

func (r *TokenRepo) getByHash(ctx context.Context, query string, hash string) (models.ApiToken, error) {
	rows, _ := r.DB.Query(ctx, query, hash)
	token, err := pgx.CollectOneRow(rows, rowToToken)

	switch {
	case err == nil:
		return token, nil
	case errors.Is(err, pgx.ErrNoRows):
		return token, apperrors.ErrTokenNotFound
	default:
		return token, fmt.Errorf("db error: %w", err)
	}
}

const revokeToken = `-- name: RevokeToken
UPDATE api_tokens
SET revoked_at = COALESCE(revoked_at, $2)
WHERE id = $1
RETURNING ` + tokenColumns

// Revoke the token
// Idempotent: an already revoked token keeps its original revoked_at
func (r *TokenRepo) Revoke(ctx context.Context, id uuid.UUID, at time.Time) (models.ApiToken, error) {
	rows, _ := r.DB.Query(ctx, revokeToken, id, at)
	token, err := pgx.CollectOneRow(rows, rowToToken)

	switch {
	case err == nil:
		return token, nil
	case errors.Is(err, pgx.ErrNoRows):
		return token, apperrors.ErrTokenNotFound
	default:
		return token, fmt.Errorf("db error: %w", err)
	}
}

const touchLastUsed = `-- name: TouchLastUsed
UPDATE api_tokens
SET last_used_at = $2
WHERE id = $1
`

// Last write wins, no locking needed: the update is independent per row
func (r *TokenRepo) TouchLastUsed(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.DB.Exec(ctx, touchLastUsed, id, at)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const listActiveByUser = `-- name: ListActiveTokensByUser
SELECT ` + tokenColumns + `
FROM api_tokens
WHERE user_id = $1 AND revoked_at IS NULL AND refresh_expires_at > $2
ORDER BY created_at
`

func (r *TokenRepo) ListActiveByUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]models.ApiToken, error) {
	rows, _ := r.DB.Query(ctx, listActiveByUser, userID, now)
	tokens, err := pgx.CollectRows(rows, rowToToken)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return tokens, nil
}

func rowToToken(row pgx.CollectableRow) (models.ApiToken, error) {
	var t models.ApiToken
	err := row.Scan(
		&t.ID, &t.UserID, &t.AccessTokenHash, &t.RefreshTokenHash, &t.ExpiresAt, &t.RefreshExpiresAt,
		&t.IPAddress, &t.Device.DeviceID, &t.Device.DeviceName, &t.Device.DeviceOS, &t.Device.AppVersion,
		&t.RevokedAt, &t.LastUsedAt, &t.CreatedAt,
	)
	return t, err
}
