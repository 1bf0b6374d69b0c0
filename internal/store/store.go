package store

import (
	"context"
	"fmt"

	"campus-market/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Store is the Postgres implementation of every store interface. It owns the
// connection pool.
type Store struct {
	db *sqlx.DB
}

var (
	_ UserStore         = (*Store)(nil)
	_ CatalogStore      = (*Store)(nil)
	_ CartStore         = (*Store)(nil)
	_ NotificationStore = (*Store)(nil)
	_ OrderStore        = (*Store)(nil)
	_ StatsStore        = (*Store)(nil)
)

// NewStore creates a new database store
func NewStore(cfg config.DatabaseConfig) (*Store, error) {
	db, err := sqlx.Connect("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// NewFromDB wraps an existing connection pool.
func NewFromDB(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks database connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// WithinTx borrows one connection for the whole of fn and commits only if fn
// succeeds.
func (s *Store) WithinTx(ctx context.Context, fn func(tx OrderTx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&txStore{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// txStore implements OrderTx on a single *sqlx.Tx.
type txStore struct {
	tx *sqlx.Tx
}
