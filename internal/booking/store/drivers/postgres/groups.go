package postgres

import (
	"context"

	"github.com/aussiebroadwan/booking/internal/booking/domain"
	"github.com/aussiebroadwan/booking/pkg/idx"
)

const groupSelect = `
	SELECT g.id, g.code, g.name, g.created_at, g.updated_at,
	       (SELECT COUNT(*) FROM memberships c
	        WHERE c.group_id = g.id AND c.status = 'ACCEPTED') AS member_count
	FROM booking_groups g`

type groupsRepo struct {
	db DBTX
}

func (r *groupsRepo) CreateGroup(ctx context.Context, g domain.Group) (domain.Group, error) {
	ts := now()
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO booking_groups (id, code, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id, code, name, created_at, updated_at, 0`,
		g.ID.String(), g.Code, g.Name, ts,
	)
	return scanGroup(row)
}

func (r *groupsRepo) GetGroupByID(ctx context.Context, id idx.ID) (domain.Group, error) {
	return scanGroup(r.db.QueryRowContext(ctx, groupSelect+` WHERE g.id = $1`, id.String()))
}

func (r *groupsRepo) GetGroupByCode(ctx context.Context, code string) (domain.Group, error) {
	return scanGroup(r.db.QueryRowContext(ctx, groupSelect+` WHERE g.code = $1`, code))
}

func (r *groupsRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM booking_groups WHERE code = $1)`, code,
	).Scan(&exists)
	if err != nil {
		return false, mapErr(err)
	}
	return exists, nil
}

func (r *groupsRepo) DeleteGroup(ctx context.Context, id idx.ID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM booking_groups WHERE id = $1`, id.String())
	return affected(res, err)
}

func (r *groupsRepo) ListGroupsForUser(ctx context.Context, userID idx.ID) ([]domain.Group, error) {
	return r.list(ctx, groupSelect+`
		JOIN memberships m ON m.group_id = g.id
		WHERE m.user_id = $1 AND m.status = 'ACCEPTED'
		ORDER BY g.created_at, g.id`, userID.String())
}

func (r *groupsRepo) ListGroupsOwnedBy(ctx context.Context, userID idx.ID) ([]domain.Group, error) {
	return r.list(ctx, groupSelect+`
		JOIN memberships m ON m.group_id = g.id
		WHERE m.user_id = $1 AND m.role = 'OWNER'
		ORDER BY g.created_at, g.id`, userID.String())
}

func (r *groupsRepo) list(ctx context.Context, query string, args ...any) ([]domain.Group, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []domain.Group{}
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, mapErr(rows.Err())
}

func scanGroup(row rowScanner) (domain.Group, error) {
	var (
		g       domain.Group
		id      string
		members int64
	)
	if err := row.Scan(&id, &g.Code, &g.Name, &g.CreatedAt, &g.UpdatedAt, &members); err != nil {
		return domain.Group{}, mapErr(err)
	}
	g.ID = idx.ID(id)
	g.MemberCount = int(members)
	g.CreatedAt = g.CreatedAt.UTC()
	g.UpdatedAt = g.UpdatedAt.UTC()
	return g, nil
}
