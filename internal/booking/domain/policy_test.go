package domain_test

import (
	"testing"

	"github.com/aussiebroadwan/booking/internal/booking/domain"
	"github.com/stretchr/testify/require"
)

func TestMayPerform(t *testing.T) {
	owner := &domain.Membership{Role: domain.RoleOwner, Status: domain.StatusAccepted}
	pendingOwner := &domain.Membership{Role: domain.RoleOwner, Status: domain.StatusPending}
	member := &domain.Membership{Role: domain.RoleMember, Status: domain.StatusAccepted}
	pending := &domain.Membership{Role: domain.RoleMember, Status: domain.StatusPending}

	all := []domain.Action{
		domain.ActionView,
		domain.ActionAddMember,
		domain.ActionUpdateMemberStatus,
		domain.ActionRemoveMember,
		domain.ActionLeave,
		domain.ActionDeleteGroup,
	}

	t.Run("owner may do everything", func(t *testing.T) {
		for _, a := range all {
			require.True(t, domain.MayPerform(owner, a), a)
		}
	})

	t.Run("role not status decides ownership", func(t *testing.T) {
		for _, a := range all {
			require.True(t, domain.MayPerform(pendingOwner, a), a)
		}
	})

	t.Run("members view add and leave", func(t *testing.T) {
		for _, m := range []*domain.Membership{member, pending} {
			require.True(t, domain.MayPerform(m, domain.ActionView))
			require.True(t, domain.MayPerform(m, domain.ActionAddMember))
			require.True(t, domain.MayPerform(m, domain.ActionLeave))
			require.False(t, domain.MayPerform(m, domain.ActionUpdateMemberStatus))
			require.False(t, domain.MayPerform(m, domain.ActionRemoveMember))
			require.False(t, domain.MayPerform(m, domain.ActionDeleteGroup))
		}
	})

	t.Run("outsiders may only leave", func(t *testing.T) {
		for _, a := range all {
			require.Equal(t, a == domain.ActionLeave, domain.MayPerform(nil, a), a)
		}
	})
}

func TestParseEnums(t *testing.T) {
	s, err := domain.ParseStatus(" accepted ")
	require.NoError(t, err)
	require.Equal(t, domain.StatusAccepted, s)

	_, err = domain.ParseStatus("REJECTED")
	require.Error(t, err)

	r, err := domain.ParseRole("owner")
	require.NoError(t, err)
	require.Equal(t, domain.RoleOwner, r)

	_, err = domain.ParseRole("ADMIN")
	require.Error(t, err)
}

func TestValidCode(t *testing.T) {
	require.True(t, domain.ValidCode("AB12CD"))
	require.False(t, domain.ValidCode("ab12cd"))
	require.False(t, domain.ValidCode("AB12C"))
	require.False(t, domain.ValidCode("AB12CD7"))
	require.False(t, domain.ValidCode("AB-2CD"))
}
