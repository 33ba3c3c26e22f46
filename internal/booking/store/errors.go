package store

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrForeignKey reports a write that referenced a missing row.
	ErrForeignKey = errors.New("store: foreign key violation")

	// ErrUnavailable wraps every failure of the backend itself: I/O,
	// timeouts, a closed pool. Drivers wrap with
	// fmt.Errorf("%w: %w", ErrUnavailable, err) so the cause is kept.
	ErrUnavailable = errors.New("store: unavailable")
)

// Unique constraints surfaced through ConflictError.
const (
	ConstraintEmail      = "users.email"
	ConstraintPhone      = "users.phone"
	ConstraintGroupCode  = "groups.code"
	ConstraintMembership = "memberships.user_group"
)

// ConflictError is returned when a write violates a unique constraint.
// errors.Is(err, ErrAlreadyExists) holds for it.
type ConflictError struct {
	Constraint string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("store: already exists (%s)", e.Constraint)
}

func (e *ConflictError) Is(target error) bool { return target == ErrAlreadyExists }

// IsConflict reports whether err is a ConflictError on constraint.
func IsConflict(err error, constraint string) bool {
	var ce *ConflictError
	return errors.As(err, &ce) && ce.Constraint == constraint
}

// Unavailable wraps err as an ErrUnavailable. nil stays nil.
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
