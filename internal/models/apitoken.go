package models

import (
	"time"

	"github.com/google/uuid"
)

// Device metadata reported by the client at login
// All fields are optional
type DeviceInfo struct {
	DeviceID   *string
	DeviceName *string
	DeviceOS   *string
	AppVersion *string
}

// ApiToken is one issued credential pair bound to a user and device.
// Only SHA-256 digests of the secrets are stored, never the plaintext.
type ApiToken struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	AccessTokenHash  string
	RefreshTokenHash string
	ExpiresAt        time.Time
	RefreshExpiresAt time.Time
	IPAddress        string
	Device           DeviceInfo
	RevokedAt        *time.Time // nil while the token is active
	LastUsedAt       *time.Time // nil until first successful authentication
	CreatedAt        time.Time
}

func (t ApiToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

func (t ApiToken) IsAccessExpired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}

// IssuedPair is returned on issue or rotation.
// The plaintext secrets are available here exactly once and can not be
// recovered later.
type IssuedPair struct {
	AccessToken  string
	RefreshToken string
	Token        ApiToken
	ExpiresIn    int64 // access token lifetime in seconds
	ExpiresAt    time.Time
}
