package domain

import (
	"time"

	"github.com/aussiebroadwan/booking/pkg/idx"
)

type User struct {
	ID           idx.ID
	Email        string // lower-cased, unique
	Phone        string // E.164, unique
	FullName     string
	PasswordHash string // argon2id PHC string

	// At most one live refresh token per user, stored as its fingerprint.
	// Both fields are set together or both are empty.
	RefreshTokenHash      string
	RefreshTokenExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasRefreshToken reports whether a refresh token is currently stored.
func (u User) HasRefreshToken() bool {
	return u.RefreshTokenHash != "" && u.RefreshTokenExpiresAt != nil
}

// RefreshTokenExpired reports whether the stored token is past its expiry.
func (u User) RefreshTokenExpired(now time.Time) bool {
	return u.RefreshTokenExpiresAt == nil || !now.Before(*u.RefreshTokenExpiresAt)
}
