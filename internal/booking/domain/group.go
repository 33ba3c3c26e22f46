package domain

import (
	"time"

	"github.com/aussiebroadwan/booking/pkg/idx"
)

// Invite codes are CodeLength characters drawn from CodeAlphabet.
const (
	CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	CodeLength   = 6
)

type Group struct {
	ID   idx.ID
	Code string // unique invite code
	Name string

	// MemberCount is the number of ACCEPTED memberships. It is computed on
	// read and never stored.
	MemberCount int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidCode reports whether s has the shape of an invite code.
func ValidCode(s string) bool {
	if len(s) != CodeLength {
		return false
	}
	for i := range len(s) {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
