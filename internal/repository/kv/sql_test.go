package kv

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/pitchdeck-server/internal/model"
)

func newMockStore(t *testing.T, dialect Dialect) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLStore(db, dialect), mock
}

func TestSQLStore_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		store, mock := newMockStore(t, Postgres)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv WHERE key = $1")).
			WithArgs("deck_1").
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`{"id":"1"}`))

		v, err := store.Get(ctx, "deck_1")
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"id":"1"}`), v)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		store, mock := newMockStore(t, Postgres)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv WHERE key = $1")).
			WithArgs("deck_2").
			WillReturnRows(sqlmock.NewRows([]string{"value"}))

		v, err := store.Get(ctx, "deck_2")
		assert.Nil(t, v)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("query error", func(t *testing.T) {
		store, mock := newMockStore(t, SQLite)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv WHERE key = ?")).
			WithArgs("deck_3").
			WillReturnError(errors.New("disk I/O error"))

		_, err := store.Get(ctx, "deck_3")
		require.Error(t, err)
		assert.NotErrorIs(t, err, model.ErrNotFound)
		assert.Contains(t, err.Error(), "failed to get")
	})
}

func TestSQLStore_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("commit", func(t *testing.T) {
		store, mock := newMockStore(t, Postgres)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv WHERE key = $1 FOR UPDATE")).
			WithArgs("decks_index").
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("[]"))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, CURRENT_TIMESTAMP)")).
			WithArgs("decks_index", `[{"id":"a","createdAt":1}]`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := store.Update(ctx, func(tx model.KVTx) error {
			v, err := tx.Get(ctx, "decks_index")
			if err != nil {
				return err
			}
			assert.Equal(t, "[]", string(v))
			return tx.Put(ctx, "decks_index", []byte(`[{"id":"a","createdAt":1}]`))
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback on error", func(t *testing.T) {
		store, mock := newMockStore(t, SQLite)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)")).
			WithArgs("deck_1", "{}").
			WillReturnError(errors.New("constraint failed"))
		mock.ExpectRollback()

		err := store.Update(ctx, func(tx model.KVTx) error {
			return tx.Put(ctx, "deck_1", []byte("{}"))
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to put")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin error", func(t *testing.T) {
		store, mock := newMockStore(t, Postgres)
		mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

		err := store.Update(ctx, func(tx model.KVTx) error { return nil })
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to begin transaction")
	})

	t.Run("commit error", func(t *testing.T) {
		store, mock := newMockStore(t, Postgres)
		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

		err := store.Update(ctx, func(tx model.KVTx) error { return nil })
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to commit transaction")
	})
}
