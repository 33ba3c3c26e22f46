// Package storetest holds behaviour tests shared by every store driver.
package storetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/booking/internal/booking/domain"
	"github.com/aussiebroadwan/booking/internal/booking/store"
	"github.com/aussiebroadwan/booking/pkg/idx"
	"github.com/stretchr/testify/require"
)

// Factory returns a migrated, empty store. It is called once per subtest.
type Factory func(t *testing.T) store.Store

// Run exercises the full store contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("refresh tokens", func(t *testing.T) { testRefreshTokens(t, newStore(t)) })
	t.Run("concurrent rotation", func(t *testing.T) { testConcurrentRotation(t, newStore(t)) })
	t.Run("groups", func(t *testing.T) { testGroups(t, newStore(t)) })
	t.Run("memberships", func(t *testing.T) { testMemberships(t, newStore(t)) })
	t.Run("transactions", func(t *testing.T) { testTransactions(t, newStore(t)) })
	t.Run("cascade", func(t *testing.T) { testCascade(t, newStore(t)) })
}

// NewUser inserts a user with a unique email and phone derived from name.
func NewUser(t *testing.T, s store.Store, name string) domain.User {
	t.Helper()
	u, err := s.Users().CreateUser(context.Background(), domain.User{
		ID:           idx.New(),
		Email:        name + "@example.com",
		Phone:        "+8490" + phoneSuffix(name),
		FullName:     name,
		PasswordHash: "$argon2id$dummy",
	})
	require.NoError(t, err)
	return u
}

// NewGroup inserts a group owned by owner, with the owner row accepted.
func NewGroup(t *testing.T, s store.Store, owner domain.User, code string) domain.Group {
	t.Helper()
	ctx := context.Background()
	g, err := s.Groups().CreateGroup(ctx, domain.Group{ID: idx.New(), Code: code, Name: "group " + code})
	require.NoError(t, err)
	_, err = s.Memberships().CreateMembership(ctx, domain.Membership{
		ID:      idx.New(),
		UserID:  owner.ID,
		GroupID: g.ID,
		Status:  domain.StatusAccepted,
		Role:    domain.RoleOwner,
	})
	require.NoError(t, err)
	return g
}

func phoneSuffix(name string) string {
	var n uint32 = 2166136261
	for i := 0; i < len(name); i++ {
		n ^= uint32(name[i])
		n *= 16777619
	}
	digits := make([]byte, 7)
	for i := range digits {
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits)
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice := NewUser(t, s, "alice")

	got, err := s.Users().GetUserByID(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", got.Email)
	require.False(t, got.HasRefreshToken())

	got, err = s.Users().GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, alice.ID, got.ID)

	_, err = s.Users().GetUserByID(ctx, idx.New())
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Users().CreateUser(ctx, domain.User{
		ID: idx.New(), Email: alice.Email, Phone: "+84900000001", FullName: "x", PasswordHash: "h",
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
	require.True(t, store.IsConflict(err, store.ConstraintEmail))

	_, err = s.Users().CreateUser(ctx, domain.User{
		ID: idx.New(), Email: "other@example.com", Phone: alice.Phone, FullName: "x", PasswordHash: "h",
	})
	require.True(t, store.IsConflict(err, store.ConstraintPhone))

	updated, err := s.Users().UpdateProfile(ctx, alice.ID, "Alice Nguyen", "+84901112233")
	require.NoError(t, err)
	require.Equal(t, "Alice Nguyen", updated.FullName)
	require.Equal(t, "+84901112233", updated.Phone)

	_, err = s.Users().UpdateProfile(ctx, idx.New(), "x", "+84909999999")
	require.ErrorIs(t, err, store.ErrNotFound)

	exp := time.Now().Add(time.Hour)
	require.NoError(t, s.Users().SetRefreshToken(ctx, alice.ID, "h1", exp))
	require.NoError(t, s.Users().UpdatePasswordHash(ctx, alice.ID, "$argon2id$new"))
	got, err = s.Users().GetUserByID(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, "$argon2id$new", got.PasswordHash)
	require.False(t, got.HasRefreshToken(), "password change clears the refresh token")

	require.NoError(t, s.Users().DeleteUser(ctx, alice.ID))
	require.ErrorIs(t, s.Users().DeleteUser(ctx, alice.ID), store.ErrNotFound)
}

func testRefreshTokens(t *testing.T, s store.Store) {
	ctx := context.Background()
	users := s.Users()
	bob := NewUser(t, s, "bob")
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	require.NoError(t, users.SetRefreshToken(ctx, bob.ID, "old", exp))
	got, err := users.GetUserByRefreshTokenHash(ctx, "old")
	require.NoError(t, err)
	require.Equal(t, bob.ID, got.ID)
	require.True(t, got.HasRefreshToken())
	require.WithinDuration(t, exp, *got.RefreshTokenExpiresAt, time.Second)

	_, err = users.GetUserByRefreshTokenHash(ctx, "")
	require.ErrorIs(t, err, store.ErrNotFound)

	ok, err := users.RotateRefreshToken(ctx, bob.ID, "stale", "new", exp)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = users.RotateRefreshToken(ctx, bob.ID, "old", "new", exp)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = users.GetUserByRefreshTokenHash(ctx, "old")
	require.ErrorIs(t, err, store.ErrNotFound)

	ok, err = users.ClearRefreshTokenIfMatches(ctx, bob.ID, "old")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = users.ClearRefreshTokenIfMatches(ctx, bob.ID, "new")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, users.ClearRefreshToken(ctx, bob.ID))
	require.NoError(t, users.ClearRefreshToken(ctx, bob.ID))

	carol := NewUser(t, s, "carol")
	dave := NewUser(t, s, "dave")
	now := time.Now()
	require.NoError(t, users.SetRefreshToken(ctx, bob.ID, "b", now.Add(-time.Minute)))
	require.NoError(t, users.SetRefreshToken(ctx, carol.ID, "c", now.Add(-time.Hour)))
	require.NoError(t, users.SetRefreshToken(ctx, dave.ID, "d", now.Add(time.Hour)))

	n, err := users.ClearExpiredRefreshTokens(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	got, err = users.GetUserByID(ctx, dave.ID)
	require.NoError(t, err)
	require.Equal(t, "d", got.RefreshTokenHash)

	n, err = users.ClearExpiredRefreshTokens(ctx, now)
	require.NoError(t, err)
	require.Zero(t, n)
}

// testConcurrentRotation checks that exactly one of several racing
// rotations of the same token wins.
func testConcurrentRotation(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := NewUser(t, s, "racer")
	exp := time.Now().Add(time.Hour)
	require.NoError(t, s.Users().SetRefreshToken(ctx, u.ID, "seed", exp))

	const racers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := range racers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := s.Users().RotateRefreshToken(ctx, u.ID, "seed", "next-"+string(rune('a'+i)), exp)
			if err != nil {
				t.Error(err)
				return
			}
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	require.Equal(t, 1, wins)
}

func testGroups(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := NewUser(t, s, "owner")
	member := NewUser(t, s, "member")
	g := NewGroup(t, s, owner, "ABC123")

	exists, err := s.Groups().CodeExists(ctx, "ABC123")
	require.NoError(t, err)
	require.True(t, exists)
	exists, err = s.Groups().CodeExists(ctx, "ZZZ999")
	require.NoError(t, err)
	require.False(t, exists)

	_, err = s.Groups().CreateGroup(ctx, domain.Group{ID: idx.New(), Code: "ABC123", Name: "dup"})
	require.True(t, store.IsConflict(err, store.ConstraintGroupCode))

	_, err = s.Memberships().CreateMembership(ctx, domain.Membership{
		ID: idx.New(), UserID: member.ID, GroupID: g.ID, Status: domain.StatusPending, Role: domain.RoleMember,
	})
	require.NoError(t, err)

	byCode, err := s.Groups().GetGroupByCode(ctx, "ABC123")
	require.NoError(t, err)
	require.Equal(t, g.ID, byCode.ID)
	require.Equal(t, 1, byCode.MemberCount, "pending members are not counted")

	_, err = s.Groups().GetGroupByCode(ctx, "NOPE00")
	require.ErrorIs(t, err, store.ErrNotFound)

	mine, err := s.Groups().ListGroupsForUser(ctx, member.ID)
	require.NoError(t, err)
	require.Empty(t, mine)

	owned, err := s.Groups().ListGroupsOwnedBy(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, owned, 1)

	mine, err = s.Groups().ListGroupsForUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "ABC123", mine[0].Code)

	require.NoError(t, s.Groups().DeleteGroup(ctx, g.ID))
	require.ErrorIs(t, s.Groups().DeleteGroup(ctx, g.ID), store.ErrNotFound)
	_, err = s.Groups().GetGroupByID(ctx, g.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testMemberships(t *testing.T, s store.Store) {
	ctx := context.Background()
	ms := s.Memberships()
	owner := NewUser(t, s, "host")
	guest := NewUser(t, s, "guest")
	g := NewGroup(t, s, owner, "MEM001")
	other := NewGroup(t, s, guest, "MEM002")

	m, err := ms.CreateMembership(ctx, domain.Membership{
		ID: idx.New(), UserID: guest.ID, GroupID: g.ID, Status: domain.StatusPending, Role: domain.RoleMember,
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, m.Status)

	_, err = ms.CreateMembership(ctx, domain.Membership{
		ID: idx.New(), UserID: guest.ID, GroupID: g.ID, Status: domain.StatusPending, Role: domain.RoleMember,
	})
	require.True(t, store.IsConflict(err, store.ConstraintMembership))

	_, err = ms.CreateMembership(ctx, domain.Membership{
		ID: idx.New(), UserID: guest.ID, GroupID: idx.New(), Status: domain.StatusPending, Role: domain.RoleMember,
	})
	require.ErrorIs(t, err, store.ErrForeignKey)

	// A second owner row for the same group is rejected.
	_, err = ms.CreateMembership(ctx, domain.Membership{
		ID: idx.New(), UserID: owner.ID, GroupID: other.ID, Status: domain.StatusAccepted, Role: domain.RoleOwner,
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	_, err = ms.UpdateStatus(ctx, m.ID, other.ID, domain.StatusAccepted)
	require.ErrorIs(t, err, store.ErrNotFound, "membership id scoped to its own group")

	m, err = ms.UpdateStatus(ctx, m.ID, g.ID, domain.StatusAccepted)
	require.NoError(t, err)
	require.Equal(t, domain.StatusAccepted, m.Status)

	got, err := ms.GetMembership(ctx, guest.ID, g.ID)
	require.NoError(t, err)
	require.Equal(t, m.ID, got.ID)

	got, err = ms.GetMembershipByID(ctx, m.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleMember, got.Role)

	views, err := ms.ListByGroup(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.Equal(t, owner.ID, views[0].UserID, "oldest first")
	require.Equal(t, "guest@example.com", views[1].UserEmail)
	require.Equal(t, "group MEM001", views[1].GroupName)

	views, err = ms.ListByUser(ctx, guest.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)

	require.NoError(t, ms.DeleteMembership(ctx, guest.ID, g.ID))
	require.ErrorIs(t, ms.DeleteMembership(ctx, guest.ID, g.ID), store.ErrNotFound)

	n, err := ms.DeleteGroupMemberships(ctx, g.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func testTransactions(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := NewUser(t, s, "txowner")

	var gid idx.ID
	err := s.WithTx(ctx, func(tx store.Tx) error {
		g, err := tx.Groups().CreateGroup(ctx, domain.Group{ID: idx.New(), Code: "TXN001", Name: "tx"})
		if err != nil {
			return err
		}
		gid = g.ID
		_, err = tx.Memberships().CreateMembership(ctx, domain.Membership{
			ID: idx.New(), UserID: owner.ID, GroupID: g.ID, Status: domain.StatusAccepted, Role: domain.RoleOwner,
		})
		if err != nil {
			return err
		}
		// Second insert fails and takes the group with it.
		_, err = tx.Memberships().CreateMembership(ctx, domain.Membership{
			ID: idx.New(), UserID: owner.ID, GroupID: g.ID, Status: domain.StatusAccepted, Role: domain.RoleMember,
		})
		return err
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	_, err = s.Groups().GetGroupByID(ctx, gid)
	require.ErrorIs(t, err, store.ErrNotFound)

	err = s.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Tx(ctx)
		require.Error(t, err, "nested transactions are not supported")
		_, err = tx.Groups().CreateGroup(ctx, domain.Group{ID: idx.New(), Code: "TXN002", Name: "ok"})
		return err
	})
	require.NoError(t, err)

	_, err = s.Groups().GetGroupByCode(ctx, "TXN002")
	require.NoError(t, err)
}

func testCascade(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := NewUser(t, s, "cascowner")
	guest := NewUser(t, s, "cascguest")
	g := NewGroup(t, s, owner, "CAS001")
	_, err := s.Memberships().CreateMembership(ctx, domain.Membership{
		ID: idx.New(), UserID: guest.ID, GroupID: g.ID, Status: domain.StatusAccepted, Role: domain.RoleMember,
	})
	require.NoError(t, err)

	require.NoError(t, s.Users().DeleteUser(ctx, guest.ID))
	views, err := s.Memberships().ListByGroup(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)

	require.NoError(t, s.Groups().DeleteGroup(ctx, g.ID))
	_, err = s.Memberships().GetMembership(ctx, owner.ID, g.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}
