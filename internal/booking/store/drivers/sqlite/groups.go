package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/booking/internal/booking/domain"
	"github.com/aussiebroadwan/booking/internal/booking/store/drivers/sqlite/gen"
	"github.com/aussiebroadwan/booking/pkg/idx"
)

type groupsRepo struct {
	q *gen.Queries
}

func (r *groupsRepo) CreateGroup(ctx context.Context, g domain.Group) (domain.Group, error) {
	ts := now()
	row, err := r.q.CreateGroup(ctx, gen.CreateGroupParams{
		ID:        g.ID.String(),
		Code:      g.Code,
		Name:      g.Name,
		CreatedAt: ts,
		UpdatedAt: ts,
	})
	if err != nil {
		return domain.Group{}, mapErr(err)
	}
	return mapGroup(row.ID, row.Code, row.Name, row.CreatedAt, row.UpdatedAt, 0), nil
}

func (r *groupsRepo) GetGroupByID(ctx context.Context, id idx.ID) (domain.Group, error) {
	row, err := r.q.GetGroupByID(ctx, id.String())
	if err != nil {
		return domain.Group{}, mapErr(err)
	}
	return mapGroup(row.ID, row.Code, row.Name, row.CreatedAt, row.UpdatedAt, row.MemberCount), nil
}

func (r *groupsRepo) GetGroupByCode(ctx context.Context, code string) (domain.Group, error) {
	row, err := r.q.GetGroupByCode(ctx, code)
	if err != nil {
		return domain.Group{}, mapErr(err)
	}
	return mapGroup(row.ID, row.Code, row.Name, row.CreatedAt, row.UpdatedAt, row.MemberCount), nil
}

func (r *groupsRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	n, err := r.q.GroupCodeExists(ctx, code)
	if err != nil {
		return false, mapErr(err)
	}
	return n != 0, nil
}

func (r *groupsRepo) DeleteGroup(ctx context.Context, id idx.ID) error {
	n, err := r.q.DeleteGroup(ctx, id.String())
	return affected(n, err)
}

func (r *groupsRepo) ListGroupsForUser(ctx context.Context, userID idx.ID) ([]domain.Group, error) {
	rows, err := r.q.ListGroupsForUser(ctx, userID.String())
	if err != nil {
		return nil, mapErr(err)
	}
	out := make([]domain.Group, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapGroup(row.ID, row.Code, row.Name, row.CreatedAt, row.UpdatedAt, row.MemberCount))
	}
	return out, nil
}

func (r *groupsRepo) ListGroupsOwnedBy(ctx context.Context, userID idx.ID) ([]domain.Group, error) {
	rows, err := r.q.ListGroupsOwnedBy(ctx, userID.String())
	if err != nil {
		return nil, mapErr(err)
	}
	out := make([]domain.Group, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapGroup(row.ID, row.Code, row.Name, row.CreatedAt, row.UpdatedAt, row.MemberCount))
	}
	return out, nil
}

// sqlc emits one row type per query, so groups are mapped field by field.
func mapGroup(id, code, name string, createdAt, updatedAt time.Time, members int64) domain.Group {
	return domain.Group{
		ID:          idx.ID(id),
		Code:        code,
		Name:        name,
		MemberCount: int(members),
		CreatedAt:   createdAt.UTC(),
		UpdatedAt:   updatedAt.UTC(),
	}
}
