package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mohammedALrabeai/salon-sub001/internal/apperrors"
	"github.com/mohammedALrabeai/salon-sub001/internal/models"
	"github.com/mohammedALrabeai/salon-sub001/internal/repository"
)

const (
	defaultLoginMaxAttempts = 5
	defaultLoginDecay       = 15 * time.Minute
)

type LoginConfig struct {
	// Hasher to compare user passwords
	// Defaults to BcryptHasher
	Hasher PasswordHasher

	// Failed attempts allowed within the decay window before the account
	// gets locked
	MaxAttempts int
	Decay       time.Duration
}

// LoginService verifies primary credentials and asks the token service for
// a pair on success. Repeated failures lock the account for the decay
// window.
type LoginService struct {
	tokens  *TokenService
	storage repository.Storage
	hasher  PasswordHasher

	maxAttempts int
	decay       time.Duration
}

func NewLoginService(cfg LoginConfig, tokens *TokenService, storage repository.Storage) (*LoginService, error) {
	if tokens == nil || storage == nil {
		return nil, errors.New("token service and storage must not be nil")
	}

	hasher := cfg.Hasher
	if hasher == nil {
		hasher = BcryptHasher{}
	}

	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = defaultLoginMaxAttempts
	}
	if cfg.Decay == 0 {
		cfg.Decay = defaultLoginDecay
	}

	return &LoginService{
		tokens:      tokens,
		storage:     storage,
		hasher:      hasher,
		maxAttempts: cfg.MaxAttempts,
		decay:       cfg.Decay,
	}, nil
}

func (s *LoginService) Login(ctx context.Context, username string, password string, device models.DeviceInfo, ip string) (models.IssuedPair, error) {
	var pair models.IssuedPair

	user, err := s.storage.User().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return pair, apperrors.ErrUserNotFound
		}
		return pair, fmt.Errorf("error while loading user. Err: %w", err)
	}

	if user.IsLocked(time.Now()) {
		return pair, apperrors.AccountLocked(*user.LockedUntil)
	}

	if !user.IsActive() {
		return pair, apperrors.AccountInactive(user.Status)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		updated, recordErr := s.storage.User().RecordLoginFailure(ctx, user.ID, s.decay, s.maxAttempts)
		if recordErr == nil && updated.IsLocked(time.Now()) {
			return pair, apperrors.AccountLocked(*updated.LockedUntil)
		}
		// Wrong password is indistinguishable from unknown user
		return pair, apperrors.ErrUserNotFound
	}

	// Best effort, a stale counter must not block a valid login
	_ = s.storage.User().ResetLoginFailures(ctx, user.ID)

	return s.tokens.Issue(ctx, user, device, ip)
}
