package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/booking/internal/booking/domain"
	"github.com/aussiebroadwan/booking/internal/booking/metrics"
	"github.com/aussiebroadwan/booking/internal/booking/store"
	"github.com/aussiebroadwan/booking/pkg/cryptox"
	"github.com/aussiebroadwan/booking/pkg/idx"
	"github.com/aussiebroadwan/booking/pkg/slogx"
)

// GroupService owns invitation codes, membership state and the checks
// that gate every group mutation. All checks go through domain.MayPerform.
type GroupService struct {
	Store   store.Store
	Metrics *metrics.Metrics

	// NewCode draws one candidate invitation code. Nil draws from
	// domain.CodeAlphabet with crypto/rand.
	NewCode func() (string, error)
}

func (s *GroupService) drawCode() (string, error) {
	if s.NewCode != nil {
		return s.NewCode()
	}
	return cryptox.RandomString(domain.CodeAlphabet, domain.CodeLength)
}

// GenerateUniqueCode draws codes until one is not held by any group. The
// space is 36^6 so the loop has no attempt cap; it stops only when ctx is
// done. The unique index on the code column still has the final word.
func (s *GroupService) GenerateUniqueCode(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		code, err := s.drawCode()
		if err != nil {
			return "", err
		}
		taken, err := s.Store.Groups().CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
		s.Metrics.CodeCollision()
	}
}

// CreateGroup creates the group and its OWNER/ACCEPTED membership in one
// transaction. Losing a race on the code regenerates it.
func (s *GroupService) CreateGroup(ctx context.Context, name string, ownerID idx.ID) (domain.Group, error) {
	l := slogx.FromContext(ctx)

	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return domain.Group{}, invalid("name", err)
	}

	for {
		code, err := s.GenerateUniqueCode(ctx)
		if err != nil {
			return domain.Group{}, err
		}

		var group domain.Group
		err = s.Store.WithTx(ctx, func(tx store.Tx) error {
			if _, err := tx.Users().GetUserByID(ctx, ownerID); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return ErrUserNotFound
				}
				return err
			}

			g, err := tx.Groups().CreateGroup(ctx, domain.Group{ID: idx.New(), Code: code, Name: name})
			if err != nil {
				return err
			}
			_, err = tx.Memberships().CreateMembership(ctx, domain.Membership{
				ID:      idx.New(),
				UserID:  ownerID,
				GroupID: g.ID,
				Status:  domain.StatusAccepted,
				Role:    domain.RoleOwner,
			})
			if err != nil {
				return err
			}
			g.MemberCount = 1
			group = g
			return nil
		})
		if store.IsConflict(err, store.ConstraintGroupCode) {
			s.Metrics.CodeCollision()
			l.Warn("invitation code taken at insert, regenerating", slog.String("code", code))
			continue
		}
		if err != nil {
			return domain.Group{}, err
		}

		s.Metrics.GroupCreated()
		l.Info("group created",
			slog.String("group_id", group.ID.String()),
			slog.String("owner_id", ownerID.String()),
		)
		return group, nil
	}
}

// JoinByCode adds userID to the group holding code as a PENDING member.
func (s *GroupService) JoinByCode(ctx context.Context, code string, userID idx.ID) (domain.Membership, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !domain.ValidCode(code) {
		return domain.Membership{}, ErrGroupNotFound
	}

	g, err := s.Store.Groups().GetGroupByCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Membership{}, ErrGroupNotFound
		}
		return domain.Membership{}, err
	}

	m, err := s.addPending(ctx, g.ID, userID)
	if err != nil {
		return domain.Membership{}, err
	}
	s.Metrics.MembershipChanged("join")
	slogx.FromContext(ctx).Info("joined group by code",
		slog.String("group_id", g.ID.String()),
		slog.String("user_id", userID.String()),
	)
	return m, nil
}

// AddMemberByEmail invites the user registered under email. Any member of
// the group may invite.
func (s *GroupService) AddMemberByEmail(
	ctx context.Context,
	groupID idx.ID,
	email string,
	requesterID idx.ID,
) (domain.Membership, error) {
	if err := s.authorize(ctx, s.Store, requesterID, groupID, domain.ActionAddMember); err != nil {
		return domain.Membership{}, err
	}

	target, err := s.Store.Users().GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Membership{}, ErrUserNotFound
		}
		return domain.Membership{}, err
	}

	m, err := s.addPending(ctx, groupID, target.ID)
	if err != nil {
		return domain.Membership{}, err
	}
	s.Metrics.MembershipChanged(string(domain.ActionAddMember))
	slogx.FromContext(ctx).Info("member invited",
		slog.String("group_id", groupID.String()),
		slog.String("user_id", target.ID.String()),
		slog.String("by", requesterID.String()),
	)
	return m, nil
}

// addPending inserts a PENDING/MEMBER row. The unique (user, group) index
// decides duplicates, not a prior lookup.
func (s *GroupService) addPending(ctx context.Context, groupID, userID idx.ID) (domain.Membership, error) {
	m, err := s.Store.Memberships().CreateMembership(ctx, domain.Membership{
		ID:      idx.New(),
		UserID:  userID,
		GroupID: groupID,
		Status:  domain.StatusPending,
		Role:    domain.RoleMember,
	})
	switch {
	case err == nil:
		return m, nil
	case errors.Is(err, store.ErrAlreadyExists):
		return domain.Membership{}, ErrUserAlreadyInGroup
	case errors.Is(err, store.ErrForeignKey):
		return domain.Membership{}, s.missingReference(ctx, userID)
	default:
		return domain.Membership{}, err
	}
}

// missingReference works out which side of a failed membership insert is
// gone.
func (s *GroupService) missingReference(ctx context.Context, userID idx.ID) error {
	_, err := s.Store.Users().GetUserByID(ctx, userID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrUserNotFound
	case err != nil:
		return err
	}
	return ErrGroupNotFound
}

// UpdateMemberStatus sets the status of a membership in groupID. Only the
// owner may do this. The owner's own row must stay ACCEPTED.
func (s *GroupService) UpdateMemberStatus(
	ctx context.Context,
	groupID, membershipID idx.ID,
	status domain.Status,
	requesterID idx.ID,
) (domain.Membership, error) {
	var updated domain.Membership
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := s.authorize(ctx, tx, requesterID, groupID, domain.ActionUpdateMemberStatus); err != nil {
			return err
		}
		if !status.Valid() {
			return ErrInvalidStatus
		}

		target, err := tx.Memberships().GetMembershipByID(ctx, membershipID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrMembershipNotFound
			}
			return err
		}
		if target.GroupID != groupID {
			return ErrMembershipNotFound
		}
		if target.IsOwner() && status != domain.StatusAccepted {
			return ErrInvalidStatus
		}

		updated, err = tx.Memberships().UpdateStatus(ctx, membershipID, groupID, status)
		if errors.Is(err, store.ErrNotFound) {
			return ErrMembershipNotFound
		}
		return err
	})
	if err != nil {
		return domain.Membership{}, err
	}

	s.Metrics.MembershipChanged(string(domain.ActionUpdateMemberStatus))
	slogx.FromContext(ctx).Info("member status updated",
		slog.String("group_id", groupID.String()),
		slog.String("membership_id", membershipID.String()),
		slog.String("status", string(status)),
	)
	return updated, nil
}

// RemoveMember deletes targetUserID's membership. Anyone may remove
// themself; removing someone else takes the owner. An owner removing
// themself dissolves the group so no group is left without an owner.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, targetUserID, requesterID idx.ID) error {
	self := targetUserID == requesterID
	action := domain.ActionRemoveMember
	if self {
		action = domain.ActionLeave
	}

	dissolved := false
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := s.authorize(ctx, tx, requesterID, groupID, action); err != nil {
			return err
		}

		target, err := tx.Memberships().GetMembership(ctx, targetUserID, groupID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotAMember
			}
			return err
		}

		if target.IsOwner() {
			if !self {
				// Single owner per group, so this is unreachable through
				// MayPerform, but never delete the owner row alone.
				return ErrUnauthorized
			}
			dissolved = true
			return dissolve(ctx, tx, groupID)
		}

		err = tx.Memberships().DeleteMembership(ctx, targetUserID, groupID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotAMember
		}
		return err
	})
	if err != nil {
		return err
	}

	l := slogx.FromContext(ctx)
	if dissolved {
		s.Metrics.MembershipChanged(string(domain.ActionDeleteGroup))
		l.Info("owner left, group dissolved", slog.String("group_id", groupID.String()))
		return nil
	}
	s.Metrics.MembershipChanged(string(action))
	l.Info("member removed",
		slog.String("group_id", groupID.String()),
		slog.String("user_id", targetUserID.String()),
		slog.String("by", requesterID.String()),
	)
	return nil
}

// LeaveGroup removes the caller's own membership.
func (s *GroupService) LeaveGroup(ctx context.Context, groupID, userID idx.ID) error {
	return s.RemoveMember(ctx, groupID, userID, userID)
}

// DeleteGroup removes the group and every membership in one transaction.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID, requesterID idx.ID) error {
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := s.authorize(ctx, tx, requesterID, groupID, domain.ActionDeleteGroup); err != nil {
			return err
		}
		return dissolve(ctx, tx, groupID)
	})
	if err != nil {
		return err
	}

	s.Metrics.MembershipChanged(string(domain.ActionDeleteGroup))
	slogx.FromContext(ctx).Info("group deleted",
		slog.String("group_id", groupID.String()),
		slog.String("by", requesterID.String()),
	)
	return nil
}

// dissolve deletes memberships first, then the group row.
func dissolve(ctx context.Context, tx store.Tx, groupID idx.ID) error {
	if _, err := tx.Memberships().DeleteGroupMemberships(ctx, groupID); err != nil {
		return err
	}
	err := tx.Groups().DeleteGroup(ctx, groupID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrGroupNotFound
	}
	return err
}

// GetGroupByCode resolves an invitation code. No membership is needed.
func (s *GroupService) GetGroupByCode(ctx context.Context, code string) (domain.Group, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !domain.ValidCode(code) {
		return domain.Group{}, ErrGroupNotFound
	}
	g, err := s.Store.Groups().GetGroupByCode(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Group{}, ErrGroupNotFound
	}
	return g, err
}

// GetGroupByID returns a group the requester belongs to.
func (s *GroupService) GetGroupByID(ctx context.Context, groupID, requesterID idx.ID) (domain.Group, error) {
	if err := s.authorize(ctx, s.Store, requesterID, groupID, domain.ActionView); err != nil {
		return domain.Group{}, err
	}
	g, err := s.Store.Groups().GetGroupByID(ctx, groupID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Group{}, ErrGroupNotFound
	}
	return g, err
}

// ListMembers lists every membership of a group the requester belongs to.
func (s *GroupService) ListMembers(ctx context.Context, groupID, requesterID idx.ID) ([]domain.MemberView, error) {
	if err := s.authorize(ctx, s.Store, requesterID, groupID, domain.ActionView); err != nil {
		return nil, err
	}
	return s.Store.Memberships().ListByGroup(ctx, groupID)
}

// UserGroups lists groups where userID is ACCEPTED.
func (s *GroupService) UserGroups(ctx context.Context, userID idx.ID) ([]domain.Group, error) {
	return s.Store.Groups().ListGroupsForUser(ctx, userID)
}

// OwnedGroups lists groups userID owns.
func (s *GroupService) OwnedGroups(ctx context.Context, userID idx.ID) ([]domain.Group, error) {
	return s.Store.Groups().ListGroupsOwnedBy(ctx, userID)
}

// Memberships lists all of userID's memberships, pending ones included.
func (s *GroupService) Memberships(ctx context.Context, userID idx.ID) ([]domain.MemberView, error) {
	return s.Store.Memberships().ListByUser(ctx, userID)
}

// authorize loads the requester's membership through st and asks
// domain.MayPerform. A missing membership is passed on as nil.
func (s *GroupService) authorize(
	ctx context.Context,
	st store.Store,
	requesterID, groupID idx.ID,
	action domain.Action,
) error {
	var membership *domain.Membership
	m, err := st.Memberships().GetMembership(ctx, requesterID, groupID)
	switch {
	case err == nil:
		membership = &m
	case !errors.Is(err, store.ErrNotFound):
		return err
	}

	if !domain.MayPerform(membership, action) {
		slogx.FromContext(ctx).Warn("group action denied",
			slog.String("group_id", groupID.String()),
			slog.String("user_id", requesterID.String()),
			slog.String("action", string(action)),
		)
		return ErrUnauthorized
	}
	return nil
}
