package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/booking/internal/booking/domain"
	"github.com/aussiebroadwan/booking/internal/booking/metrics"
	"github.com/aussiebroadwan/booking/internal/booking/store"
	"github.com/aussiebroadwan/booking/pkg/cryptox"
	"github.com/aussiebroadwan/booking/pkg/idx"
	"github.com/aussiebroadwan/booking/pkg/slogx"
	validation "github.com/go-ozzo/ozzo-validation"
)

// PasswordHasher hashes and verifies passwords. *cryptox.Argon2Hasher
// satisfies it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) error
}

var _ PasswordHasher = (*cryptox.Argon2Hasher)(nil)

// AuthService runs login, refresh rotation, logout and registration.
type AuthService struct {
	Store       store.Store
	Hasher      PasswordHasher
	Tokens      *TokenIssuer
	Metrics     *metrics.Metrics
	PhoneRegion string

	// Now overrides the clock; nil means time.Now.
	Now func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Authenticate exchanges email and password for a token pair. The new
// refresh token replaces whatever token the user held before.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.Metrics.Login(metrics.ResultError)
			return nil, err
		}
		// Same hashing cost whether or not the account exists.
		s.verifyDummy(password)
		s.Metrics.Login(metrics.ResultFailure)
		l.Info("login failed", slog.String("reason", "unknown_email"))
		return nil, ErrInvalidCredentials
	}

	if err := s.Hasher.Verify(password, u.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			l.Error("stored password hash unusable", slog.String("user_id", u.ID.String()), "error", err)
		}
		s.Metrics.Login(metrics.ResultFailure)
		l.Info("login failed", slog.String("user_id", u.ID.String()), slog.String("reason", "password"))
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	issued, err := s.Tokens.issue(u, now)
	if err != nil {
		s.Metrics.Login(metrics.ResultError)
		return nil, err
	}
	if err := s.Store.Users().SetRefreshToken(ctx, u.ID, issued.fingerprint, issued.expiresAt); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Account deleted between lookup and write.
			s.Metrics.Login(metrics.ResultFailure)
			return nil, ErrInvalidCredentials
		}
		s.Metrics.Login(metrics.ResultError)
		return nil, err
	}

	s.Metrics.Login(metrics.ResultSuccess)
	l.Info("login succeeded", slog.String("user_id", u.ID.String()))
	return issued.pair, nil
}

// Refresh rotates a refresh token. The swap is a compare-and-swap on the
// stored fingerprint, so of two concurrent calls with the same token
// exactly one succeeds.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		s.Metrics.Refresh(metrics.ResultFailure)
		return nil, ErrInvalidRefreshToken
	}
	fp := cryptox.FingerprintToken(refreshToken)

	u, err := s.Store.Users().GetUserByRefreshTokenHash(ctx, fp)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.Metrics.Refresh(metrics.ResultFailure)
			return nil, ErrInvalidRefreshToken
		}
		s.Metrics.Refresh(metrics.ResultError)
		return nil, err
	}

	now := s.now()
	if u.RefreshTokenExpired(now) {
		// Only clear if nobody has rotated it in the meantime.
		if _, err := s.Store.Users().ClearRefreshTokenIfMatches(ctx, u.ID, fp); err != nil {
			s.Metrics.Refresh(metrics.ResultError)
			return nil, err
		}
		s.Metrics.Refresh(metrics.ResultFailure)
		l.Info("refresh token expired", slog.String("user_id", u.ID.String()))
		return nil, ErrInvalidRefreshToken
	}

	issued, err := s.Tokens.issue(u, now)
	if err != nil {
		s.Metrics.Refresh(metrics.ResultError)
		return nil, err
	}

	swapped, err := s.Store.Users().RotateRefreshToken(ctx, u.ID, fp, issued.fingerprint, issued.expiresAt)
	if err != nil {
		s.Metrics.Refresh(metrics.ResultError)
		return nil, err
	}
	if !swapped {
		s.Metrics.Refresh(metrics.ResultFailure)
		l.Warn("refresh token already rotated", slog.String("user_id", u.ID.String()))
		return nil, ErrInvalidRefreshToken
	}

	s.Metrics.Refresh(metrics.ResultSuccess)
	return issued.pair, nil
}

// Logout clears the user's refresh token. Calling it again, or for a user
// with no token, succeeds.
func (s *AuthService) Logout(ctx context.Context, userID idx.ID) error {
	if err := s.Store.Users().ClearRefreshToken(ctx, userID); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("logout", slog.String("user_id", userID.String()))
	return nil
}

// CleanupExpiredTokens clears every refresh token whose expiry has passed
// and reports how many were cleared.
func (s *AuthService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	n, err := s.Store.Users().ClearExpiredRefreshTokens(ctx, s.now())
	if err != nil {
		return 0, err
	}
	s.Metrics.TokensCleared(n)
	return n, nil
}

type RegisterInput struct {
	Email    string
	Phone    string
	FullName string
	Password string
}

// Register creates an account. The email is lower-cased and the phone is
// stored in E.164 form.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	email := NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.FullName)
	phone, phoneErr := NormalizePhone(in.Phone, s.PhoneRegion)

	errs := validation.Errors{
		"email":     validateEmail(email),
		"phone":     phoneErr,
		"full_name": validateName(name),
		"password":  validatePassword(in.Password),
	}
	if err := errs.Filter(); err != nil {
		return domain.User{}, invalidErrs(err)
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, err
	}

	u, err := s.Store.Users().CreateUser(ctx, domain.User{
		ID:           idx.New(),
		Email:        email,
		Phone:        phone,
		FullName:     name,
		PasswordHash: hash,
	})
	switch {
	case store.IsConflict(err, store.ConstraintEmail):
		return domain.User{}, ErrDuplicateEmail
	case store.IsConflict(err, store.ConstraintPhone):
		return domain.User{}, ErrDuplicatePhone
	case err != nil:
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user registered", slog.String("user_id", u.ID.String()))
	return u, nil
}

func (s *AuthService) verifyDummy(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.Hasher.Hash("booking-dummy-password")
	})
	if s.dummyHash != "" {
		_ = s.Hasher.Verify(password, s.dummyHash)
	}
}
