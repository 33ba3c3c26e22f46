package sqlite

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aussiebroadwan/booking/internal/booking/domain"
	"github.com/aussiebroadwan/booking/internal/booking/store"
	"github.com/aussiebroadwan/booking/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestUniqueConstraint(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"constraint failed: UNIQUE constraint failed: users.email (2067)", store.ConstraintEmail},
		{"constraint failed: UNIQUE constraint failed: users.phone (2067)", store.ConstraintPhone},
		{"UNIQUE constraint failed: booking_groups.code", store.ConstraintGroupCode},
		{"UNIQUE constraint failed: memberships.user_id, memberships.group_id (2067)", store.ConstraintMembership},
		{"UNIQUE constraint failed: memberships.group_id (2067)", "memberships.group_id"},
		{"something else", "something else"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, uniqueConstraint(tt.msg), tt.msg)
	}
}

func TestMapErr(t *testing.T) {
	require.NoError(t, mapErr(nil))
	require.ErrorIs(t, mapErr(sql.ErrNoRows), store.ErrNotFound)
	require.ErrorIs(t, mapErr(sql.ErrConnDone), store.ErrUnavailable)
	require.ErrorIs(t, mapErr(sql.ErrConnDone), sql.ErrConnDone)
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStoreFromDB(db), mock
}

func TestDriverFailuresAreUnavailable(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := t.Context()
	broken := errors.New("disk I/O error")

	mock.ExpectQuery("SELECT (.+) FROM users").WillReturnError(broken)
	_, err := s.Users().GetUserByEmail(ctx, "a@example.com")
	require.ErrorIs(t, err, store.ErrUnavailable)
	require.ErrorIs(t, err, broken)

	mock.ExpectExec("UPDATE users").WillReturnError(broken)
	_, err = s.Users().RotateRefreshToken(ctx, idx.New(), "a", "b", time.Now())
	require.ErrorIs(t, err, store.ErrUnavailable)

	mock.ExpectExec("UPDATE users").WillReturnError(broken)
	_, err = s.Users().ClearExpiredRefreshTokens(ctx, time.Now())
	require.ErrorIs(t, err, store.ErrUnavailable)

	mock.ExpectQuery("SELECT (.+) FROM booking_groups").WillReturnError(broken)
	_, err = s.Groups().ListGroupsForUser(ctx, idx.New())
	require.ErrorIs(t, err, store.ErrUnavailable)

	mock.ExpectPing().WillReturnError(broken)
	require.ErrorIs(t, s.Ping(ctx), store.ErrUnavailable)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestZeroRowsAffected(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := t.Context()

	mock.ExpectExec("DELETE FROM users").WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, s.Users().DeleteUser(ctx, idx.New()), store.ErrNotFound)

	mock.ExpectExec("DELETE FROM memberships").WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, s.Memberships().DeleteMembership(ctx, idx.New(), idx.New()), store.ErrNotFound)

	mock.ExpectQuery("UPDATE memberships").WillReturnRows(sqlmock.NewRows(nil))
	_, err := s.Memberships().UpdateStatus(ctx, idx.New(), idx.New(), domain.StatusAccepted)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRollsBackOnError(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := t.Context()
	failed := errors.New("fn failed")

	mock.ExpectBegin()
	mock.ExpectRollback()
	err := s.WithTx(ctx, func(tx store.Tx) error { return failed })
	require.ErrorIs(t, err, failed)

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(sql.ErrConnDone)
	err = s.WithTx(ctx, func(tx store.Tx) error { return nil })
	require.ErrorIs(t, err, store.ErrUnavailable)

	require.NoError(t, mock.ExpectationsWereMet())
}
