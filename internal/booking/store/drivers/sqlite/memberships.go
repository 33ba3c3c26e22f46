package sqlite

import (
	"context"

	"github.com/aussiebroadwan/booking/internal/booking/domain"
	"github.com/aussiebroadwan/booking/internal/booking/store/drivers/sqlite/gen"
	"github.com/aussiebroadwan/booking/pkg/idx"
)

type membershipsRepo struct {
	q *gen.Queries
}

func (r *membershipsRepo) CreateMembership(ctx context.Context, m domain.Membership) (domain.Membership, error) {
	ts := now()
	row, err := r.q.CreateMembership(ctx, gen.CreateMembershipParams{
		ID:        m.ID.String(),
		UserID:    m.UserID.String(),
		GroupID:   m.GroupID.String(),
		Status:    string(m.Status),
		Role:      string(m.Role),
		JoinedAt:  ts,
		UpdatedAt: ts,
	})
	if err != nil {
		return domain.Membership{}, mapErr(err)
	}
	return mapMembership(row), nil
}

func (r *membershipsRepo) GetMembership(ctx context.Context, userID, groupID idx.ID) (domain.Membership, error) {
	row, err := r.q.GetMembership(ctx, gen.GetMembershipParams{
		UserID:  userID.String(),
		GroupID: groupID.String(),
	})
	if err != nil {
		return domain.Membership{}, mapErr(err)
	}
	return mapMembership(row), nil
}

func (r *membershipsRepo) GetMembershipByID(ctx context.Context, id idx.ID) (domain.Membership, error) {
	row, err := r.q.GetMembershipByID(ctx, id.String())
	if err != nil {
		return domain.Membership{}, mapErr(err)
	}
	return mapMembership(row), nil
}

func (r *membershipsRepo) UpdateStatus(
	ctx context.Context,
	id, groupID idx.ID,
	status domain.Status,
) (domain.Membership, error) {
	row, err := r.q.UpdateMembershipStatus(ctx, gen.UpdateMembershipStatusParams{
		Status:    string(status),
		UpdatedAt: now(),
		ID:        id.String(),
		GroupID:   groupID.String(),
	})
	if err != nil {
		return domain.Membership{}, mapErr(err)
	}
	return mapMembership(row), nil
}

func (r *membershipsRepo) DeleteMembership(ctx context.Context, userID, groupID idx.ID) error {
	n, err := r.q.DeleteMembership(ctx, gen.DeleteMembershipParams{
		UserID:  userID.String(),
		GroupID: groupID.String(),
	})
	return affected(n, err)
}

func (r *membershipsRepo) DeleteGroupMemberships(ctx context.Context, groupID idx.ID) (int64, error) {
	n, err := r.q.DeleteGroupMemberships(ctx, groupID.String())
	if err != nil {
		return 0, mapErr(err)
	}
	return n, nil
}

func (r *membershipsRepo) ListByGroup(ctx context.Context, groupID idx.ID) ([]domain.MemberView, error) {
	rows, err := r.q.ListMembershipsByGroup(ctx, groupID.String())
	if err != nil {
		return nil, mapErr(err)
	}
	out := make([]domain.MemberView, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.MemberView{
			Membership:   mapMembership(gen.Membership{ID: row.ID, UserID: row.UserID, GroupID: row.GroupID, Status: row.Status, Role: row.Role, JoinedAt: row.JoinedAt, UpdatedAt: row.UpdatedAt}),
			UserEmail:    row.Email,
			UserFullName: row.FullName,
			GroupName:    row.GroupName,
		})
	}
	return out, nil
}

func (r *membershipsRepo) ListByUser(ctx context.Context, userID idx.ID) ([]domain.MemberView, error) {
	rows, err := r.q.ListMembershipsByUser(ctx, userID.String())
	if err != nil {
		return nil, mapErr(err)
	}
	out := make([]domain.MemberView, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.MemberView{
			Membership:   mapMembership(gen.Membership{ID: row.ID, UserID: row.UserID, GroupID: row.GroupID, Status: row.Status, Role: row.Role, JoinedAt: row.JoinedAt, UpdatedAt: row.UpdatedAt}),
			UserEmail:    row.Email,
			UserFullName: row.FullName,
			GroupName:    row.GroupName,
		})
	}
	return out, nil
}

func mapMembership(row gen.Membership) domain.Membership {
	return domain.Membership{
		ID:        idx.ID(row.ID),
		UserID:    idx.ID(row.UserID),
		GroupID:   idx.ID(row.GroupID),
		Status:    domain.Status(row.Status),
		Role:      domain.Role(row.Role),
		JoinedAt:  row.JoinedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}
