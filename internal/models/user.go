package models

import (
	"time"

	"github.com/google/uuid"
)

// User account statuses
// Only active users may authenticate
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
	UserStatusDisabled  = "disabled"
)

type User struct {
	ID             uuid.UUID
	CreatedAt      time.Time
	Username       string
	HashedPassword string
	Status         string

	// Account is temporary locked while LockedUntil is in the future
	LockedUntil *time.Time

	// Login throttling counters
	FailedLogins    int
	LastFailedLogin *time.Time
}

func (u User) IsActive() bool {
	return u.Status == UserStatusActive
}

func (u User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}
