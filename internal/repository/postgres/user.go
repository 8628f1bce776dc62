package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mohammedALrabeai/salon-sub001/internal/apperrors"
	"github.com/mohammedALrabeai/salon-sub001/internal/models"
	"github.com/mohammedALrabeai/salon-sub001/internal/repository"
)

type UserRepo struct {
	DB DBTX
}

const userColumns = "id, created_at, username, password_hash, status, locked_until, failed_logins, last_failed_login_at"

const createUser = `-- name: CreateUser
INSERT INTO users (id, username, password_hash, status)
VALUES ($1, $2, $3, $4)
RETURNING ` + userColumns

func (r *UserRepo) CreateUser(ctx context.Context, arg repository.CreateUserParams) (models.User, error) {
	status := arg.Status
	if status == "" {
		status = models.UserStatusActive
	}

	rows, _ := r.DB.Query(ctx, createUser, uuid.New(), arg.Username, arg.HashedPassword, status)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return user, apperrors.ErrUserAlreadyExists
		}

		return user, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

const getUserByID = `-- name: GetUserByID
SELECT ` + userColumns + `
FROM users
WHERE id = $1
`

func (r *UserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByID, id)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

const getUserByUsername = `-- name: GetUserByUsername
SELECT ` + userColumns + `
FROM users
WHERE username = $1
`

func (r *UserRepo) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByUsername, username)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

const recordLoginFailure = `-- name: RecordLoginFailure
UPDATE users
SET failed_logins = CASE
        WHEN last_failed_login_at IS NULL OR last_failed_login_at < $2 THEN 1
        ELSE failed_logins + 1
    END,
    last_failed_login_at = $3,
    locked_until = CASE
        WHEN (CASE
                WHEN last_failed_login_at IS NULL OR last_failed_login_at < $2 THEN 1
                ELSE failed_logins + 1
            END) >= $4 THEN $5
        ELSE locked_until
    END
WHERE id = $1
RETURNING ` + userColumns

// Record one failed login attempt in a single statement so concurrent
// failures never lose an increment
func (r *UserRepo) RecordLoginFailure(ctx context.Context, id uuid.UUID, window time.Duration, maxAttempts int) (models.User, error) {
	now := time.Now()
	windowStart := now.Add(-window)
	lockedUntil := now.Add(window)

	rows, _ := r.DB.Query(ctx, recordLoginFailure, id, windowStart, now, maxAttempts, lockedUntil)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

const resetLoginFailures = `-- name: ResetLoginFailures
UPDATE users
SET failed_logins = 0, last_failed_login_at = NULL
WHERE id = $1
`

func (r *UserRepo) ResetLoginFailures(ctx context.Context, id uuid.UUID) error {
	_, err := r.DB.Exec(ctx, resetLoginFailures, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.CreatedAt, &u.Username, &u.HashedPassword, &u.Status, &u.LockedUntil, &u.FailedLogins, &u.LastFailedLogin)
	return u, err
}
