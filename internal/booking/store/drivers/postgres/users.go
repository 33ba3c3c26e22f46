package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/booking/internal/booking/domain"
	"github.com/aussiebroadwan/booking/internal/booking/store"
	"github.com/aussiebroadwan/booking/pkg/idx"
)

const userColumns = `id, email, phone, full_name, password_hash,
	refresh_token_hash, refresh_token_expires_at, created_at, updated_at`

type usersRepo struct {
	db DBTX
}

func (r *usersRepo) GetUserByID(ctx context.Context, id idx.ID) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id.String())
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *usersRepo) GetUserByRefreshTokenHash(ctx context.Context, hash string) (domain.User, error) {
	if hash == "" {
		return domain.User{}, store.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE refresh_token_hash = $1`, hash)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	ts := now()
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (id, email, phone, full_name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING `+userColumns,
		u.ID.String(), u.Email, u.Phone, u.FullName, u.PasswordHash, ts,
	)
	return scanUser(row)
}

func (r *usersRepo) UpdateProfile(ctx context.Context, id idx.ID, fullName, phone string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE users SET full_name = $1, phone = $2, updated_at = $3
		WHERE id = $4
		RETURNING `+userColumns,
		fullName, phone, now(), id.String(),
	)
	return scanUser(row)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, id idx.ID, hash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = $1, refresh_token_hash = NULL, refresh_token_expires_at = NULL, updated_at = $2
		WHERE id = $3`,
		hash, now(), id.String(),
	)
	return affected(res, err)
}

func (r *usersRepo) DeleteUser(ctx context.Context, id idx.ID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id.String())
	return affected(res, err)
}

func (r *usersRepo) SetRefreshToken(ctx context.Context, id idx.ID, hash string, expiresAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET refresh_token_hash = $1, refresh_token_expires_at = $2, updated_at = $3
		WHERE id = $4`,
		hash, expiresAt.UTC(), now(), id.String(),
	)
	return affected(res, err)
}

func (r *usersRepo) RotateRefreshToken(
	ctx context.Context,
	id idx.ID,
	oldHash, newHash string,
	expiresAt time.Time,
) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET refresh_token_hash = $1, refresh_token_expires_at = $2, updated_at = $3
		WHERE id = $4 AND refresh_token_hash = $5`,
		newHash, expiresAt.UTC(), now(), id.String(), oldHash,
	)
	return swapped(res, err)
}

func (r *usersRepo) ClearRefreshToken(ctx context.Context, id idx.ID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET refresh_token_hash = NULL, refresh_token_expires_at = NULL, updated_at = $1
		WHERE id = $2`,
		now(), id.String(),
	)
	return mapErr(err)
}

func (r *usersRepo) ClearRefreshTokenIfMatches(ctx context.Context, id idx.ID, hash string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET refresh_token_hash = NULL, refresh_token_expires_at = NULL, updated_at = $1
		WHERE id = $2 AND refresh_token_hash = $3`,
		now(), id.String(), hash,
	)
	return swapped(res, err)
}

func (r *usersRepo) ClearExpiredRefreshTokens(ctx context.Context, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET refresh_token_hash = NULL, refresh_token_expires_at = NULL, updated_at = $1
		WHERE refresh_token_expires_at IS NOT NULL AND refresh_token_expires_at <= $2`,
		now(), at.UTC(),
	)
	if err != nil {
		return 0, mapErr(err)
	}
	n, err := res.RowsAffected()
	return n, mapErr(err)
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u       domain.User
		id      string
		hash    sql.NullString
		expires sql.NullTime
	)
	err := row.Scan(
		&id, &u.Email, &u.Phone, &u.FullName, &u.PasswordHash,
		&hash, &expires, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapErr(err)
	}

	u.ID = idx.ID(id)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	if hash.Valid && expires.Valid {
		exp := expires.Time.UTC()
		u.RefreshTokenHash = hash.String
		u.RefreshTokenExpiresAt = &exp
	}
	return u, nil
}

// affected maps a zero row count to ErrNotFound.
func affected(res sql.Result, err error) error {
	if err != nil {
		return mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapErr(err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// swapped reports whether a compare-and-swap update hit its row.
func swapped(res sql.Result, err error) (bool, error) {
	if err != nil {
		return false, mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, mapErr(err)
	}
	return n == 1, nil
}
