package postgres

import (
	"errors"
	"fmt"

	"github.com/aussiebroadwan/booking/internal/booking/store/drivers/postgres/migrations"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// ApplyMigrations applies any pending embedded migrations.
func (s *Store) ApplyMigrations() error {
	// 1. Wrap the pool as a migrate database driver
	driver, err := pgxmigrate.WithInstance(s.db, &pgxmigrate.Config{})
	if err != nil {
		return fmt.Errorf("postgres: migrate driver: %w", err)
	}

	// 2. Read the migrations compiled into the binary
	source, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		return fmt.Errorf("postgres: migrate source: %w", err)
	}

	// 3. Bind source and database
	instance, err := migrate.NewWithInstance("iofs", source, "pgx5", driver)
	if err != nil {
		return fmt.Errorf("postgres: migrate init: %w", err)
	}

	// 4. Apply all up migrations
	if err := instance.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("postgres: migrate up: %w", err)
	}
	return nil
}
