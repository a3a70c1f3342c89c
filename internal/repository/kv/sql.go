package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dtroode/pitchdeck-server/internal/model"
)

// Dialect captures the SQL differences between supported databases.
type Dialect struct {
	Name string
	// Placeholder renders the n-th (1-based) bind parameter.
	Placeholder func(n int) string
	// LockSuffix is appended to reads inside a transaction.
	LockSuffix string
}

var (
	Postgres = Dialect{
		Name:        "postgres",
		Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
		LockSuffix:  " FOR UPDATE",
	}
	SQLite = Dialect{
		Name:        "sqlite",
		Placeholder: func(int) string { return "?" },
	}
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

var _ model.KVStore = (*SQLStore)(nil)

// SQLStore keeps values in the kv table of a relational database.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect

	getQuery       string
	getLockedQuery string
	putQuery       string
}

func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	p := dialect.Placeholder
	get := fmt.Sprintf("SELECT value FROM kv WHERE key = %s", p(1))
	return &SQLStore{
		db:             db,
		dialect:        dialect,
		getQuery:       get,
		getLockedQuery: get + dialect.LockSuffix,
		putQuery: fmt.Sprintf(`INSERT INTO kv (key, value, updated_at) VALUES (%s, %s, CURRENT_TIMESTAMP)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`, p(1), p(2)),
	}
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	return get(ctx, s.db, s.getQuery, key)
}

// Update runs fn inside a database transaction; it is committed only if fn returns nil.
func (s *SQLStore) Update(ctx context.Context, fn func(tx model.KVTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&sqlTx{tx: tx, store: s}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("failed to rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type sqlTx struct {
	tx    *sql.Tx
	store *SQLStore
}

func (t *sqlTx) Get(ctx context.Context, key string) ([]byte, error) {
	return get(ctx, t.tx, t.store.getLockedQuery, key)
}

func (t *sqlTx) Put(ctx context.Context, key string, value []byte) error {
	if _, err := t.tx.ExecContext(ctx, t.store.putQuery, key, string(value)); err != nil {
		return fmt.Errorf("failed to put %q: %w", key, err)
	}
	return nil
}

func get(ctx context.Context, q querier, query, key string) ([]byte, error) {
	var value string
	err := q.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %q: %w", key, err)
	}
	return []byte(value), nil
}
