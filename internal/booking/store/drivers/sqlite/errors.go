package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/booking/internal/booking/store"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// constraintColumns maps the column list SQLite reports in
// "UNIQUE constraint failed: <cols>" to a store constraint.
var constraintColumns = map[string]string{
	"users.email":                              store.ConstraintEmail,
	"users.phone":                              store.ConstraintPhone,
	"booking_groups.code":                      store.ConstraintGroupCode,
	"memberships.user_id, memberships.group_id": store.ConstraintMembership,
}

// mapErr translates driver errors into the store error taxonomy.
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

	var serr *sqlite.Error
	if errors.As(err, &serr) {
		switch serr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return &store.ConflictError{Constraint: uniqueConstraint(serr.Error())}
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: %w", store.ErrForeignKey, err)
		case sqlite3.SQLITE_CONSTRAINT_CHECK, sqlite3.SQLITE_CONSTRAINT_NOTNULL:
			return fmt.Errorf("store: invalid row: %w", err)
		}
	}
	return store.Unavailable(err)
}

func uniqueConstraint(msg string) string {
	const marker = "UNIQUE constraint failed: "
	_, cols, ok := strings.Cut(msg, marker)
	if !ok {
		return msg
	}
	// modernc appends " (2067)".
	cols, _, _ = strings.Cut(cols, " (")
	if c, ok := constraintColumns[cols]; ok {
		return c
	}
	return cols
}
