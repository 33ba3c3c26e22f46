package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/booking/internal/booking/store"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNotNullViolation    = "23502"
)

var constraintNames = map[string]string{
	"users_email_key":            store.ConstraintEmail,
	"users_phone_key":            store.ConstraintPhone,
	"booking_groups_code_key":    store.ConstraintGroupCode,
	"memberships_user_group_key": store.ConstraintMembership,
}

// mapErr translates pgx errors into the store error taxonomy.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			constraint, ok := constraintNames[pgErr.ConstraintName]
			if !ok {
				constraint = pgErr.ConstraintName
			}
			return &store.ConflictError{Constraint: constraint}
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %w", store.ErrForeignKey, err)
		case codeCheckViolation, codeNotNullViolation:
			return fmt.Errorf("store: invalid row: %w", err)
		}
	}
	return store.Unavailable(err)
}
