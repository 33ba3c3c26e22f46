package store

import (
	"context"
	"time"

	"github.com/aussiebroadwan/booking/internal/booking/domain"
	"github.com/aussiebroadwan/booking/pkg/idx"
)

// Store is the root data access interface implemented by the sqlite and
// postgres drivers. Sub-repositories are reached through methods so that a
// Tx can hand out the same repositories bound to the transaction.
type Store interface {
	Users() Users
	Groups() Groups
	Memberships() Memberships

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST Commit or
	// Rollback the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise. Inside fn only tx may be used.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transaction scoped Store. Nested transactions are not supported.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id idx.ID) (domain.User, error)

	// GetUserByEmail looks a user up by their lower-cased email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByRefreshTokenHash finds the owner of a refresh token
	// fingerprint.
	GetUserByRefreshTokenHash(ctx context.Context, hash string) (domain.User, error)

	// CreateUser inserts u. Duplicate email or phone yields a
	// ConflictError.
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)

	// UpdateProfile replaces name and phone.
	UpdateProfile(ctx context.Context, id idx.ID, fullName, phone string) (domain.User, error)

	// UpdatePasswordHash replaces the password hash and clears the refresh
	// token in the same statement.
	UpdatePasswordHash(ctx context.Context, id idx.ID, hash string) error

	// DeleteUser removes the user; memberships cascade.
	DeleteUser(ctx context.Context, id idx.ID) error

	// SetRefreshToken overwrites whatever token is stored.
	SetRefreshToken(ctx context.Context, id idx.ID, hash string, expiresAt time.Time) error

	// RotateRefreshToken replaces oldHash with newHash only if oldHash is
	// still the stored value. It reports whether the swap happened.
	RotateRefreshToken(ctx context.Context, id idx.ID, oldHash, newHash string, expiresAt time.Time) (bool, error)

	// ClearRefreshToken removes the stored token. Clearing an already
	// empty token succeeds.
	ClearRefreshToken(ctx context.Context, id idx.ID) error

	// ClearRefreshTokenIfMatches removes the stored token only if it is
	// still hash.
	ClearRefreshTokenIfMatches(ctx context.Context, id idx.ID, hash string) (bool, error)

	// ClearExpiredRefreshTokens removes every token expiring at or before
	// now and returns how many were cleared.
	ClearExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}

type Groups interface {
	// CreateGroup inserts g. A taken code yields a ConflictError on
	// ConstraintGroupCode.
	CreateGroup(ctx context.Context, g domain.Group) (domain.Group, error)

	// GetGroupByID returns the group with its accepted member count.
	GetGroupByID(ctx context.Context, id idx.ID) (domain.Group, error)

	// GetGroupByCode returns the group with its accepted member count.
	GetGroupByCode(ctx context.Context, code string) (domain.Group, error)

	// CodeExists reports whether code is taken.
	CodeExists(ctx context.Context, code string) (bool, error)

	// DeleteGroup removes the group row. Memberships must be removed first
	// or cascade.
	DeleteGroup(ctx context.Context, id idx.ID) error

	// ListGroupsForUser returns groups where the user is ACCEPTED.
	ListGroupsForUser(ctx context.Context, userID idx.ID) ([]domain.Group, error)

	// ListGroupsOwnedBy returns groups where the user holds the OWNER role.
	ListGroupsOwnedBy(ctx context.Context, userID idx.ID) ([]domain.Group, error)
}

type Memberships interface {
	// CreateMembership inserts m. A second membership for the same user
	// and group yields a ConflictError on ConstraintMembership; a missing
	// user or group yields ErrForeignKey.
	CreateMembership(ctx context.Context, m domain.Membership) (domain.Membership, error)

	// GetMembership returns the user's membership in the group.
	GetMembership(ctx context.Context, userID, groupID idx.ID) (domain.Membership, error)

	// GetMembershipByID returns a membership by id.
	GetMembershipByID(ctx context.Context, id idx.ID) (domain.Membership, error)

	// UpdateStatus sets the status of membership id, but only if it
	// belongs to groupID. ErrNotFound otherwise.
	UpdateStatus(ctx context.Context, id, groupID idx.ID, status domain.Status) (domain.Membership, error)

	// DeleteMembership removes the user's membership in the group.
	// ErrNotFound if there was none.
	DeleteMembership(ctx context.Context, userID, groupID idx.ID) error

	// DeleteGroupMemberships removes every membership of the group.
	DeleteGroupMemberships(ctx context.Context, groupID idx.ID) (int64, error)

	// ListByGroup returns the group's memberships with user details,
	// oldest first.
	ListByGroup(ctx context.Context, groupID idx.ID) ([]domain.MemberView, error)

	// ListByUser returns all of a user's memberships with group names.
	ListByUser(ctx context.Context, userID idx.ID) ([]domain.MemberView, error)
}
