package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/booking/internal/booking/store"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// PoolOptions bounds the connection pool. Zero values keep the
// database/sql defaults.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewStore connects to dsn through the pgx stdlib driver and verifies the
// connection within ctx.
func NewStore(ctx context.Context, dsn string, opts PoolOptions) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, store.Unavailable(err)
	}
	return NewStoreFromDB(db), nil
}

// NewStoreFromDB wraps an already opened handle.
func NewStoreFromDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error {
	return store.Unavailable(s.db.PingContext(ctx))
}

// Tx starts a READ COMMITTED transaction. Row-level compare-and-swap in
// the queries is enough for the invariants the services rely on.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, mapErr(err)
	}
	return &txStore{tx: tx}, nil
}

func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return mapErr(tx.Commit())
}

func (s *Store) Users() store.Users             { return &usersRepo{db: s.db} }
func (s *Store) Groups() store.Groups           { return &groupsRepo{db: s.db} }
func (s *Store) Memberships() store.Memberships { return &membershipsRepo{db: s.db} }

type txStore struct {
	tx *sql.Tx
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }
func (t *txStore) Close() error    { return nil }

func (t *txStore) Ping(ctx context.Context) error { return nil }
func (t *txStore) ApplyMigrations() error         { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Users() store.Users             { return &usersRepo{db: t.tx} }
func (t *txStore) Groups() store.Groups           { return &groupsRepo{db: t.tx} }
func (t *txStore) Memberships() store.Memberships { return &membershipsRepo{db: t.tx} }

func now() time.Time { return time.Now().UTC() }
