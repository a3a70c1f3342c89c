package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnection_MigratesSchema(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "nested", "decks.db")

	conn, err := NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, conn.Ping(ctx))

	var value string
	err = conn.DB().QueryRowContext(ctx, "SELECT value FROM kv WHERE key = 'decks_index'").Scan(&value)
	require.NoError(t, err)
	assert.Equal(t, "[]", value)
}

func TestNewConnection_ReopenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "decks.db")

	first, err := NewConnection(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewConnection(ctx, dsn)
	require.NoError(t, err)
	assert.NoError(t, second.Close())
}

func TestFilePath(t *testing.T) {
	assert.Equal(t, "", filePath(":memory:"))
	assert.Equal(t, "", filePath("file:decks?mode=memory&cache=shared"))
	assert.Equal(t, "data/decks.db", filePath("file:data/decks.db?_pragma=foreign_keys(1)"))
	assert.Equal(t, "decks.db", filePath("decks.db"))
}
