package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mohammedALrabeai/salon-sub001/internal/models"
)

// User repository interface
type UserRepo interface {
	// Create user
	// If user with username exists already has to return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, params CreateUserParams) (models.User, error)

	// Get user by id or username
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)

	// Record one failed login attempt.
	// Attempts older than the decay window restart the counter. Reaching
	// maxAttempts stamps locked_until = now + window.
	RecordLoginFailure(ctx context.Context, userID uuid.UUID, window time.Duration, maxAttempts int) (models.User, error)

	// Clear throttling counters after a successful login
	ResetLoginFailures(ctx context.Context, userID uuid.UUID) error
}

type CreateUserParams struct {
	Username       string
	HashedPassword string
	Status         string // defaults to active when empty
}

// ApiToken repository interface.
// Hash columns are never updated after creation: rotation always inserts a
// new row, keeping the old one as an audit record.
type TokenRepo interface {
	// Persist a new token record
	Create(ctx context.Context, token models.ApiToken) (models.ApiToken, error)

	// Exact-match lookup by secret digest
	// A digest that matches no record is a miss: apperrors.ErrTokenNotFound
	GetByAccessHash(ctx context.Context, hash string) (models.ApiToken, error)
	GetByRefreshHash(ctx context.Context, hash string) (models.ApiToken, error)

	// Set revoked_at, keeping the earliest value on repeated calls
	Revoke(ctx context.Context, tokenID uuid.UUID, at time.Time) (models.ApiToken, error)

	// Update last_used_at, last write wins
	TouchLastUsed(ctx context.Context, tokenID uuid.UUID, at time.Time) error

	// List user's tokens that are not revoked and still refreshable
	ListActiveByUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]models.ApiToken, error)
}

// Storage aggregates the repositories and allows composing them in a single
// database transaction
type Storage interface {
	User() UserRepo
	Token() TokenRepo

	InTx(ctx context.Context, fn func(Storage) error) error
}
