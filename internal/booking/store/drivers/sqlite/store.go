package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/aussiebroadwan/booking/internal/booking/store"
	"github.com/aussiebroadwan/booking/internal/booking/store/drivers/sqlite/gen"
	_ "modernc.org/sqlite"
)

// Pragmas applied to every pooled connection. foreign_keys is per
// connection in SQLite, so it has to live in the DSN rather than a single
// PRAGMA statement.
const connPragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"

type Store struct {
	db  *sql.DB
	q   *gen.Queries
	dsn string
}

var _ store.Store = (*Store)(nil)

// DSN turns a database path into a modernc DSN with the connection pragmas.
// ":memory:" yields a private in-memory database.
func DSN(path string) string {
	if path == ":memory:" || path == "" {
		return "file::memory:?" + connPragmas
	}
	return "file:" + path + "?" + connPragmas + "&_pragma=journal_mode(WAL)"
}

// NewStore opens the database at dsn. A bare path or ":memory:" is
// expanded with DSN.
func NewStore(dsn string) (*Store, error) {
	memory := dsn == ":memory:" || strings.Contains(dsn, ":memory:")
	if !strings.HasPrefix(dsn, "file:") {
		dsn = DSN(dsn)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if memory {
		// Every new connection to :memory: is a fresh empty database.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, store.Unavailable(err)
	}

	return NewStoreFromDB(db), nil
}

// NewStoreFromDB wraps an already opened handle. Migrations are not
// applied.
func NewStoreFromDB(db *sql.DB) *Store {
	return &Store{db: db, q: gen.New(db)}
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return store.Unavailable(s.db.PingContext(ctx))
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, mapErr(err)
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, rolling back when fn fails.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return mapErr(tx.Commit())
}

func (s *Store) Users() store.Users             { return &usersRepo{q: s.q} }
func (s *Store) Groups() store.Groups           { return &groupsRepo{q: s.q} }
func (s *Store) Memberships() store.Memberships { return &membershipsRepo{q: s.q} }

func now() time.Time { return time.Now().UTC() }
