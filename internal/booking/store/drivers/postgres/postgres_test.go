package postgres

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aussiebroadwan/booking/internal/booking/domain"
	"github.com/aussiebroadwan/booking/internal/booking/store"
	"github.com/aussiebroadwan/booking/pkg/idx"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStoreFromDB(db), mock
}

var userRowColumns = []string{
	"id", "email", "phone", "full_name", "password_hash",
	"refresh_token_hash", "refresh_token_expires_at", "created_at", "updated_at",
}

func TestMapErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
		con  string
	}{
		{"no rows", sql.ErrNoRows, store.ErrNotFound, ""},
		{"email", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, store.ErrAlreadyExists, store.ConstraintEmail},
		{"phone", &pgconn.PgError{Code: "23505", ConstraintName: "users_phone_key"}, store.ErrAlreadyExists, store.ConstraintPhone},
		{"code", &pgconn.PgError{Code: "23505", ConstraintName: "booking_groups_code_key"}, store.ErrAlreadyExists, store.ConstraintGroupCode},
		{"membership", &pgconn.PgError{Code: "23505", ConstraintName: "memberships_user_group_key"}, store.ErrAlreadyExists, store.ConstraintMembership},
		{"owner index", &pgconn.PgError{Code: "23505", ConstraintName: "memberships_one_owner_idx"}, store.ErrAlreadyExists, "memberships_one_owner_idx"},
		{"foreign key", &pgconn.PgError{Code: "23503"}, store.ErrForeignKey, ""},
		{"connection", errors.New("connection refused"), store.ErrUnavailable, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapErr(tt.err)
			require.ErrorIs(t, err, tt.want)
			if tt.con != "" {
				require.True(t, store.IsConflict(err, tt.con))
			}
		})
	}
	require.NoError(t, mapErr(nil))
}

func TestGetUserByIDScansRefreshToken(t *testing.T) {
	s, mock := newMockStore(t)
	id := idx.New()
	exp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	created := exp.Add(-time.Hour)

	mock.ExpectQuery(`(?s)^SELECT\s+id, email.*FROM users WHERE id = \$1$`).
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(id.String(), "a@example.com", "+84901234567", "A", "h", "fp", exp, created, created))

	u, err := s.Users().GetUserByID(t.Context(), id)
	require.NoError(t, err)
	require.Equal(t, id, u.ID)
	require.True(t, u.HasRefreshToken())
	require.Equal(t, exp, *u.RefreshTokenExpiresAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByIDWithoutRefreshToken(t *testing.T) {
	s, mock := newMockStore(t)
	id := idx.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(id.String(), "a@example.com", "+84901234567", "A", "h", nil, nil, now, now))

	u, err := s.Users().GetUserByID(t.Context(), id)
	require.NoError(t, err)
	require.False(t, u.HasRefreshToken())
	require.Nil(t, u.RefreshTokenExpiresAt)
}

func TestRotateRefreshTokenCompareAndSwap(t *testing.T) {
	s, mock := newMockStore(t)
	id := idx.New()
	exp := time.Now().Add(time.Hour)

	mock.ExpectExec(`(?s)UPDATE users.*WHERE id = \$4 AND refresh_token_hash = \$5`).
		WithArgs("new", sqlmock.AnyArg(), sqlmock.AnyArg(), id.String(), "old").
		WillReturnResult(sqlmock.NewResult(0, 1))
	ok, err := s.Users().RotateRefreshToken(t.Context(), id, "old", "new", exp)
	require.NoError(t, err)
	require.True(t, ok)

	mock.ExpectExec(`(?s)UPDATE users.*WHERE id = \$4 AND refresh_token_hash = \$5`).
		WithArgs("newer", sqlmock.AnyArg(), sqlmock.AnyArg(), id.String(), "old").
		WillReturnResult(sqlmock.NewResult(0, 0))
	ok, err = s.Users().RotateRefreshToken(t.Context(), id, "old", "newer", exp)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClearExpiredRefreshTokensCounts(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(`(?s)UPDATE users.*refresh_token_expires_at <= \$2`).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := s.Users().ClearExpiredRefreshTokens(t.Context(), time.Now())
	require.NoError(t, err)
	require.EqualValues(t, 4, n)
}

func TestCreateGroupConflict(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`INSERT INTO booking_groups`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "booking_groups_code_key"})

	_, err := s.Groups().CreateGroup(t.Context(), domain.Group{ID: idx.New(), Code: "ABC123", Name: "x"})
	require.True(t, store.IsConflict(err, store.ConstraintGroupCode))
}

func TestListByGroupScansViews(t *testing.T) {
	s, mock := newMockStore(t)
	gid := idx.New()
	now := time.Now().UTC()
	cols := []string{"id", "user_id", "group_id", "status", "role", "joined_at", "updated_at", "email", "full_name", "name"}

	mock.ExpectQuery(`(?s)FROM memberships m.*WHERE m.group_id = \$1`).
		WithArgs(gid.String()).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(idx.New().String(), idx.New().String(), gid.String(), "ACCEPTED", "OWNER", now, now, "o@example.com", "Owner", "G").
			AddRow(idx.New().String(), idx.New().String(), gid.String(), "PENDING", "MEMBER", now, now, "m@example.com", "Member", "G"))

	views, err := s.Memberships().ListByGroup(t.Context(), gid)
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.True(t, views[0].IsOwner())
	require.Equal(t, domain.StatusPending, views[1].Status)
	require.Equal(t, "m@example.com", views[1].UserEmail)
}

func TestZeroRowsAffected(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM booking_groups`).WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, s.Groups().DeleteGroup(t.Context(), idx.New()), store.ErrNotFound)

	mock.ExpectExec(`DELETE FROM memberships WHERE user_id`).WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, s.Memberships().DeleteMembership(t.Context(), idx.New(), idx.New()), store.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxCommitsAndRollsBack(t *testing.T) {
	s, mock := newMockStore(t)
	failed := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM booking_groups`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	err := s.WithTx(t.Context(), func(tx store.Tx) error {
		return tx.Groups().DeleteGroup(t.Context(), idx.New())
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectRollback()
	err = s.WithTx(t.Context(), func(tx store.Tx) error { return failed })
	require.ErrorIs(t, err, failed)

	require.NoError(t, mock.ExpectationsWereMet())
}
