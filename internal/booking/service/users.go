package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/booking/internal/booking/domain"
	"github.com/aussiebroadwan/booking/internal/booking/store"
	"github.com/aussiebroadwan/booking/pkg/idx"
	"github.com/aussiebroadwan/booking/pkg/slogx"
	validation "github.com/go-ozzo/ozzo-validation"
)

type UserService struct {
	Store       store.Store
	Hasher      PasswordHasher
	PhoneRegion string
}

// GetProfile fetches a user by id.
func (s *UserService) GetProfile(ctx context.Context, userID idx.ID) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return u, err
}

// GetUser fetches another account's profile. Only the account holder may
// read it.
func (s *UserService) GetUser(ctx context.Context, userID, requesterID idx.ID) (domain.User, error) {
	if userID != requesterID {
		slogx.FromContext(ctx).Warn("profile lookup denied",
			slog.String("user_id", userID.String()),
			slog.String("requester_id", requesterID.String()))
		return domain.User{}, ErrUnauthorized
	}
	return s.GetProfile(ctx, userID)
}

// UpdateProfile replaces the display name and phone number.
func (s *UserService) UpdateProfile(ctx context.Context, userID idx.ID, fullName, phone string) (domain.User, error) {
	fullName = strings.TrimSpace(fullName)
	normalized, phoneErr := NormalizePhone(phone, s.PhoneRegion)
	errs := validation.Errors{
		"full_name": validateName(fullName),
		"phone":     phoneErr,
	}
	if err := errs.Filter(); err != nil {
		return domain.User{}, invalidErrs(err)
	}

	u, err := s.Store.Users().UpdateProfile(ctx, userID, fullName, normalized)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return domain.User{}, ErrUserNotFound
	case store.IsConflict(err, store.ConstraintPhone):
		return domain.User{}, ErrDuplicatePhone
	case err != nil:
		return domain.User{}, err
	}
	return u, nil
}

// ChangePassword replaces the password after checking the current one.
// The stored refresh token is cleared with it, so other sessions must log
// in again once their access token runs out.
func (s *UserService) ChangePassword(ctx context.Context, userID idx.ID, current, next string) error {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.Hasher.Verify(current, u.PasswordHash); err != nil {
		return ErrInvalidCredentials
	}
	if err := validatePassword(next); err != nil {
		return invalid("new_password", err)
	}

	hash, err := s.Hasher.Hash(next)
	if err != nil {
		return err
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	slogx.FromContext(ctx).Info("password changed", slog.String("user_id", userID.String()))
	return nil
}

// DeleteAccount dissolves every group the user owns and then deletes the
// user. Their other memberships go with the user row.
func (s *UserService) DeleteAccount(ctx context.Context, userID idx.ID) error {
	var dissolved int
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		owned, err := tx.Groups().ListGroupsOwnedBy(ctx, userID)
		if err != nil {
			return err
		}
		for _, g := range owned {
			if err := dissolve(ctx, tx, g.ID); err != nil {
				return err
			}
		}
		dissolved = len(owned)

		err = tx.Users().DeleteUser(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	})
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("account deleted",
		slog.String("user_id", userID.String()),
		slog.Int("groups_dissolved", dissolved),
	)
	return nil
}
