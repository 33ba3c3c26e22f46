package postgres

import (
	"context"

	"github.com/aussiebroadwan/booking/internal/booking/domain"
	"github.com/aussiebroadwan/booking/pkg/idx"
)

const membershipColumns = `id, user_id, group_id, status, role, joined_at, updated_at`

const memberViewSelect = `
	SELECT m.id, m.user_id, m.group_id, m.status, m.role, m.joined_at, m.updated_at,
	       u.email, u.full_name, g.name
	FROM memberships m
	JOIN users u ON u.id = m.user_id
	JOIN booking_groups g ON g.id = m.group_id`

type membershipsRepo struct {
	db DBTX
}

func (r *membershipsRepo) CreateMembership(ctx context.Context, m domain.Membership) (domain.Membership, error) {
	ts := now()
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO memberships (id, user_id, group_id, status, role, joined_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING `+membershipColumns,
		m.ID.String(), m.UserID.String(), m.GroupID.String(), string(m.Status), string(m.Role), ts,
	)
	return scanMembership(row)
}

func (r *membershipsRepo) GetMembership(ctx context.Context, userID, groupID idx.ID) (domain.Membership, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+membershipColumns+` FROM memberships WHERE user_id = $1 AND group_id = $2`,
		userID.String(), groupID.String(),
	)
	return scanMembership(row)
}

func (r *membershipsRepo) GetMembershipByID(ctx context.Context, id idx.ID) (domain.Membership, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+membershipColumns+` FROM memberships WHERE id = $1`, id.String())
	return scanMembership(row)
}

func (r *membershipsRepo) UpdateStatus(
	ctx context.Context,
	id, groupID idx.ID,
	status domain.Status,
) (domain.Membership, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE memberships SET status = $1, updated_at = $2
		WHERE id = $3 AND group_id = $4
		RETURNING `+membershipColumns,
		string(status), now(), id.String(), groupID.String(),
	)
	return scanMembership(row)
}

func (r *membershipsRepo) DeleteMembership(ctx context.Context, userID, groupID idx.ID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM memberships WHERE user_id = $1 AND group_id = $2`,
		userID.String(), groupID.String(),
	)
	return affected(res, err)
}

func (r *membershipsRepo) DeleteGroupMemberships(ctx context.Context, groupID idx.ID) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM memberships WHERE group_id = $1`, groupID.String())
	if err != nil {
		return 0, mapErr(err)
	}
	n, err := res.RowsAffected()
	return n, mapErr(err)
}

func (r *membershipsRepo) ListByGroup(ctx context.Context, groupID idx.ID) ([]domain.MemberView, error) {
	return r.views(ctx, memberViewSelect+`
		WHERE m.group_id = $1
		ORDER BY m.joined_at, m.id`, groupID.String())
}

func (r *membershipsRepo) ListByUser(ctx context.Context, userID idx.ID) ([]domain.MemberView, error) {
	return r.views(ctx, memberViewSelect+`
		WHERE m.user_id = $1
		ORDER BY m.joined_at, m.id`, userID.String())
}

func (r *membershipsRepo) views(ctx context.Context, query string, args ...any) ([]domain.MemberView, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []domain.MemberView{}
	for rows.Next() {
		var (
			v                   domain.MemberView
			id, userID, groupID string
			status, role        string
		)
		err := rows.Scan(
			&id, &userID, &groupID, &status, &role, &v.JoinedAt, &v.UpdatedAt,
			&v.UserEmail, &v.UserFullName, &v.GroupName,
		)
		if err != nil {
			return nil, mapErr(err)
		}
		v.ID, v.UserID, v.GroupID = idx.ID(id), idx.ID(userID), idx.ID(groupID)
		v.Status, v.Role = domain.Status(status), domain.Role(role)
		v.JoinedAt, v.UpdatedAt = v.JoinedAt.UTC(), v.UpdatedAt.UTC()
		out = append(out, v)
	}
	return out, mapErr(rows.Err())
}

func scanMembership(row rowScanner) (domain.Membership, error) {
	var (
		m                   domain.Membership
		id, userID, groupID string
		status, role        string
	)
	if err := row.Scan(&id, &userID, &groupID, &status, &role, &m.JoinedAt, &m.UpdatedAt); err != nil {
		return domain.Membership{}, mapErr(err)
	}
	m.ID, m.UserID, m.GroupID = idx.ID(id), idx.ID(userID), idx.ID(groupID)
	m.Status, m.Role = domain.Status(status), domain.Role(role)
	m.JoinedAt, m.UpdatedAt = m.JoinedAt.UTC(), m.UpdatedAt.UTC()
	return m, nil
}
