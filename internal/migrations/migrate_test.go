package migrations

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Simplici0/selah/internal/db"
)

func TestUpIsIdempotent(t *testing.T) {
	ctx := context.Background()
	database, err := db.Open(ctx, db.SQLite, filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	applied, err := Up(ctx, database, db.SQLite, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	applied, err = Up(ctx, database, db.SQLite, zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, applied)

	for _, table := range []string{"users", "suppliers", "materials", "bracelets", "quotes"} {
		var name string
		err := database.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, "table %s", table)
	}
}

func TestUpRejectsUnknownDialect(t *testing.T) {
	_, err := Up(context.Background(), nil, db.Dialect("oracle"), zap.NewNop())
	assert.Error(t, err)
}
