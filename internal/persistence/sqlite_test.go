package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSQLiteMigrations_Idempotent(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	db, err := NewSQLite(ctx, filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, RunSQLiteMigrations(ctx, db.DB, logger))
	require.NoError(t, RunSQLiteMigrations(ctx, db.DB, logger))

	var count int
	require.NoError(t, db.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&count))
	assert.Equal(t, 1, count)

	for _, table := range []string{"users", "clients", "tickets"} {
		var name string
		err := db.DB.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
	}
	assert.NoError(t, db.Ping(ctx))
}

func TestRedisDisabled(t *testing.T) {
	var r *Redis
	assert.ErrorIs(t, r.Ping(context.Background()), ErrRedisDisabled)
	r.Close()
}
