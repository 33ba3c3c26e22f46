package service

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Business failures. Storage failures are never mapped onto these; they
// surface wrapped in store.ErrUnavailable.
var (
	ErrInvalidCredentials  = errors.New("invalid_credentials")
	ErrInvalidRefreshToken = errors.New("invalid_refresh_token")
	ErrGroupNotFound       = errors.New("group_not_found")
	ErrUserNotFound        = errors.New("user_not_found")
	ErrUserAlreadyInGroup  = errors.New("user_already_in_group")
	ErrNotAMember          = errors.New("not_a_member")
	ErrMembershipNotFound  = errors.New("membership_not_found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrDuplicateEmail      = errors.New("duplicate_email")
	ErrDuplicatePhone      = errors.New("duplicate_phone")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrInvalidInput        = errors.New("invalid_input")
)

// invalid reports field level input errors. The result matches
// ErrInvalidInput and unwraps to validation.Errors.
func invalid(field string, err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, validation.Errors{field: err})
}

func invalidErrs(errs error) error {
	if errs == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidInput, errs)
}
