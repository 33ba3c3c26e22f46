package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/booking/pkg/idx"
)

type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleMember Role = "MEMBER"
)

func (r Role) Valid() bool { return r == RoleOwner || r == RoleMember }

// ParseRole accepts either case.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
)

func (s Status) Valid() bool { return s == StatusPending || s == StatusAccepted }

// ParseStatus accepts either case.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

// Membership links a user to a group. A (user, group) pair has at most one.
type Membership struct {
	ID       idx.ID
	UserID   idx.ID
	GroupID  idx.ID
	Status   Status
	Role     Role
	JoinedAt time.Time

	UpdatedAt time.Time
}

func (m Membership) IsOwner() bool { return m.Role == RoleOwner }

// MemberView is a membership joined with the user and group it refers to.
type MemberView struct {
	Membership

	UserEmail    string
	UserFullName string
	GroupName    string
}
