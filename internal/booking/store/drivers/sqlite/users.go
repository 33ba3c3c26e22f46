package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/booking/internal/booking/domain"
	"github.com/aussiebroadwan/booking/internal/booking/store"
	"github.com/aussiebroadwan/booking/internal/booking/store/drivers/sqlite/gen"
	"github.com/aussiebroadwan/booking/pkg/idx"
)

type usersRepo struct {
	q *gen.Queries
}

func (r *usersRepo) GetUserByID(ctx context.Context, id idx.ID) (domain.User, error) {
	row, err := r.q.GetUserByID(ctx, id.String())
	if err != nil {
		return domain.User{}, mapErr(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row, err := r.q.GetUserByEmail(ctx, email)
	if err != nil {
		return domain.User{}, mapErr(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByRefreshTokenHash(ctx context.Context, hash string) (domain.User, error) {
	if hash == "" {
		return domain.User{}, store.ErrNotFound
	}
	row, err := r.q.GetUserByRefreshTokenHash(ctx, nullString(hash))
	if err != nil {
		return domain.User{}, mapErr(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	ts := now()
	row, err := r.q.CreateUser(ctx, gen.CreateUserParams{
		ID:           u.ID.String(),
		Email:        u.Email,
		Phone:        u.Phone,
		FullName:     u.FullName,
		PasswordHash: u.PasswordHash,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	})
	if err != nil {
		return domain.User{}, mapErr(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) UpdateProfile(ctx context.Context, id idx.ID, fullName, phone string) (domain.User, error) {
	row, err := r.q.UpdateUserProfile(ctx, gen.UpdateUserProfileParams{
		FullName:  fullName,
		Phone:     phone,
		UpdatedAt: now(),
		ID:        id.String(),
	})
	if err != nil {
		return domain.User{}, mapErr(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, id idx.ID, hash string) error {
	n, err := r.q.UpdateUserPassword(ctx, gen.UpdateUserPasswordParams{
		PasswordHash: hash,
		UpdatedAt:    now(),
		ID:           id.String(),
	})
	return affected(n, err)
}

func (r *usersRepo) DeleteUser(ctx context.Context, id idx.ID) error {
	n, err := r.q.DeleteUser(ctx, id.String())
	return affected(n, err)
}

func (r *usersRepo) SetRefreshToken(ctx context.Context, id idx.ID, hash string, expiresAt time.Time) error {
	n, err := r.q.SetRefreshToken(ctx, gen.SetRefreshTokenParams{
		RefreshTokenHash:      nullString(hash),
		RefreshTokenExpiresAt: nullTime(expiresAt),
		UpdatedAt:             now(),
		ID:                    id.String(),
	})
	return affected(n, err)
}

func (r *usersRepo) RotateRefreshToken(
	ctx context.Context,
	id idx.ID,
	oldHash, newHash string,
	expiresAt time.Time,
) (bool, error) {
	n, err := r.q.RotateRefreshToken(ctx, gen.RotateRefreshTokenParams{
		NewHash:               nullString(newHash),
		RefreshTokenExpiresAt: nullTime(expiresAt),
		UpdatedAt:             now(),
		ID:                    id.String(),
		OldHash:               nullString(oldHash),
	})
	if err != nil {
		return false, mapErr(err)
	}
	return n == 1, nil
}

func (r *usersRepo) ClearRefreshToken(ctx context.Context, id idx.ID) error {
	return mapErr(r.q.ClearRefreshToken(ctx, gen.ClearRefreshTokenParams{
		UpdatedAt: now(),
		ID:        id.String(),
	}))
}

func (r *usersRepo) ClearRefreshTokenIfMatches(ctx context.Context, id idx.ID, hash string) (bool, error) {
	n, err := r.q.ClearRefreshTokenIfMatches(ctx, gen.ClearRefreshTokenIfMatchesParams{
		UpdatedAt:        now(),
		ID:               id.String(),
		RefreshTokenHash: nullString(hash),
	})
	if err != nil {
		return false, mapErr(err)
	}
	return n == 1, nil
}

func (r *usersRepo) ClearExpiredRefreshTokens(ctx context.Context, at time.Time) (int64, error) {
	n, err := r.q.ClearExpiredRefreshTokens(ctx, gen.ClearExpiredRefreshTokensParams{
		UpdatedAt:             now(),
		RefreshTokenExpiresAt: nullTime(at),
	})
	if err != nil {
		return 0, mapErr(err)
	}
	return n, nil
}

func mapUser(row gen.User) domain.User {
	u := domain.User{
		ID:           idx.ID(row.ID),
		Email:        row.Email,
		Phone:        row.Phone,
		FullName:     row.FullName,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}
	if row.RefreshTokenHash.Valid && row.RefreshTokenExpiresAt.Valid {
		exp := row.RefreshTokenExpiresAt.Time.UTC()
		u.RefreshTokenHash = row.RefreshTokenHash.String
		u.RefreshTokenExpiresAt = &exp
	}
	return u
}

// affected maps a zero row count to ErrNotFound.
func affected(n int64, err error) error {
	if err != nil {
		return mapErr(err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t.UTC(), Valid: !t.IsZero()}
}
