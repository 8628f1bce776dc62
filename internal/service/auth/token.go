package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mohammedALrabeai/salon-sub001/internal/apperrors"
	"github.com/mohammedALrabeai/salon-sub001/internal/models"
	"github.com/mohammedALrabeai/salon-sub001/internal/repository"
)

const (
	defaultAccessTokenTTL  = time.Hour
	defaultRefreshTokenTTL = 30 * 24 * time.Hour
)

// Token service config with sensible defaults
type TokenConfig struct {
	// Access and refresh token lifetimes
	// If not set than default is used
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenService owns the whole ApiToken lifecycle.
// No other component may create or revoke tokens.
type TokenService struct {
	accessTTL  time.Duration
	refreshTTL time.Duration

	storage repository.Storage
}

func NewTokenService(cfg TokenConfig, storage repository.Storage) (*TokenService, error) {
	if storage == nil {
		return nil, errors.New("storage must not be nil")
	}

	setDefaultDuration := func(field *time.Duration, def time.Duration) {
		if *field == 0 {
			*field = def
		}
	}
	setDefaultDuration(&cfg.AccessTTL, defaultAccessTokenTTL)
	setDefaultDuration(&cfg.RefreshTTL, defaultRefreshTokenTTL)

	return &TokenService{
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		storage:    storage,
	}, nil
}

// Issue generates a fresh secret pair for the user and persists its hashes.
// The returned plaintext secrets are not retrievable ever again.
func (s *TokenService) Issue(ctx context.Context, user models.User, device models.DeviceInfo, ip string) (models.IssuedPair, error) {
	return s.issue(ctx, s.storage, user.ID, device, ip)
}

func (s *TokenService) issue(ctx context.Context, st repository.Storage, userID uuid.UUID, device models.DeviceInfo, ip string) (models.IssuedPair, error) {
	var pair models.IssuedPair

	access, err := GenerateSecret(AccessSecretBytes)
	if err != nil {
		return pair, err
	}
	refresh, err := GenerateSecret(RefreshSecretBytes)
	if err != nil {
		return pair, err
	}

	now := time.Now().UTC()
	expiresAt := now.Add(s.accessTTL)

	token, err := st.Token().Create(ctx, models.ApiToken{
		ID:               uuid.New(),
		UserID:           userID,
		AccessTokenHash:  HashSecret(access),
		RefreshTokenHash: HashSecret(refresh),
		ExpiresAt:        expiresAt,
		RefreshExpiresAt: now.Add(s.refreshTTL),
		IPAddress:        ip,
		Device:           device,
		CreatedAt:        now,
	})
	if err != nil {
		return pair, fmt.Errorf("error while saving api token. Err: %w", err)
	}

	return models.IssuedPair{
		AccessToken:  access,
		RefreshToken: refresh,
		Token:        token,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
		ExpiresAt:    expiresAt,
	}, nil
}

// Rotate revokes the token and issues a replacement pair for the same user,
// carrying over device metadata and IP. Both steps run in one storage
// transaction: a failed issuance rolls the revocation back, so the caller
// never ends up with zero valid tokens.
func (s *TokenService) Rotate(ctx context.Context, token models.ApiToken) (models.IssuedPair, error) {
	var pair models.IssuedPair

	err := s.storage.InTx(ctx, func(st repository.Storage) error {
		if _, err := st.Token().Revoke(ctx, token.ID, time.Now().UTC()); err != nil {
			return fmt.Errorf("error while revoking api token. Err: %w", err)
		}

		issued, err := s.issue(ctx, st, token.UserID, token.Device, token.IPAddress)
		if err != nil {
			return err
		}

		pair = issued
		return nil
	})
	if err != nil {
		return models.IssuedPair{}, err
	}

	return pair, nil
}

// Revoke makes the token unusable, idempotent
func (s *TokenService) Revoke(ctx context.Context, token models.ApiToken) error {
	_, err := s.storage.Token().Revoke(ctx, token.ID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("error while revoking api token. Err: %w", err)
	}
	return nil
}

// IsRefreshExpired reports whether the refresh credential is past its expiry
func (s *TokenService) IsRefreshExpired(token models.ApiToken) bool {
	return !token.RefreshExpiresAt.IsZero() && token.RefreshExpiresAt.Before(time.Now())
}

// Authenticate resolves a presented access secret to its user and token.
// Check order is significant: token validity first, account state second, so
// an invalid or expired token never leaks account status or lockout info.
func (s *TokenService) Authenticate(ctx context.Context, secret string) (models.User, models.ApiToken, error) {
	var user models.User

	token, err := s.storage.Token().GetByAccessHash(ctx, HashSecret(secret))
	if err != nil {
		// A miss is indistinguishable from a malformed credential
		return user, token, apperrors.ErrTokenInvalid
	}

	if token.IsRevoked() {
		// Revoked tokens are indistinguishable from unknown ones
		return user, token, apperrors.ErrTokenInvalid
	}

	now := time.Now()
	if token.IsAccessExpired(now) {
		return user, token, apperrors.ErrTokenExpired
	}

	user, err = s.storage.User().GetUserByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return user, token, apperrors.AccountInactive("unknown")
		}
		return user, token, fmt.Errorf("error while resolving token owner. Err: %w", err)
	}

	if !user.IsActive() {
		return user, token, apperrors.AccountInactive(user.Status)
	}

	if user.IsLocked(now) {
		return user, token, apperrors.AccountLocked(*user.LockedUntil)
	}

	return user, token, nil
}

// Refresh exchanges a refresh secret for a fresh pair, revoking the old one
func (s *TokenService) Refresh(ctx context.Context, refreshSecret string) (models.IssuedPair, error) {
	var pair models.IssuedPair

	token, err := s.storage.Token().GetByRefreshHash(ctx, HashSecret(refreshSecret))
	if err != nil {
		return pair, apperrors.ErrTokenInvalid
	}

	if token.IsRevoked() {
		return pair, apperrors.ErrTokenInvalid
	}

	if s.IsRefreshExpired(token) {
		return pair, apperrors.ErrTokenExpired
	}

	// Rotation is refused for suspended or locked owners
	user, err := s.storage.User().GetUserByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return pair, apperrors.AccountInactive("unknown")
		}
		return pair, fmt.Errorf("error while resolving token owner. Err: %w", err)
	}
	if !user.IsActive() {
		return pair, apperrors.AccountInactive(user.Status)
	}
	if user.IsLocked(time.Now()) {
		return pair, apperrors.AccountLocked(*user.LockedUntil)
	}

	return s.Rotate(ctx, token)
}

// TouchLastUsed stamps last_used_at = now on the token.
// Best effort by contract: callers must not fail a request on error here.
func (s *TokenService) TouchLastUsed(ctx context.Context, token models.ApiToken) error {
	return s.storage.Token().TouchLastUsed(ctx, token.ID, time.Now().UTC())
}

// Sessions lists the user's tokens that are still usable or refreshable
func (s *TokenService) Sessions(ctx context.Context, userID uuid.UUID) ([]models.ApiToken, error) {
	return s.storage.Token().ListActiveByUser(ctx, userID, time.Now())
}
