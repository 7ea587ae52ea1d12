package db

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteAppliesPragmas(t *testing.T) {
	database, err := Open(context.Background(), SQLite, filepath.Join(t.TempDir(), "pragmas.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	var foreignKeys int
	require.NoError(t, database.QueryRow(`PRAGMA foreign_keys`).Scan(&foreignKeys))
	assert.Equal(t, 1, foreignKeys)

	var journal string
	require.NoError(t, database.QueryRow(`PRAGMA journal_mode`).Scan(&journal))
	assert.Equal(t, "wal", journal)
}

func TestOpenRejectsUnknownDialect(t *testing.T) {
	_, err := Open(context.Background(), Dialect("oracle"), "x")
	assert.Error(t, err)
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect("Postgres")
	require.NoError(t, err)
	assert.Equal(t, Postgres, d)

	_, err = ParseDialect("mysql")
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	query := `INSERT INTO bracelets (product_id, description) VALUES (?, ?)`

	assert.Equal(t, query, Rebind(SQLite, query))
	assert.Equal(t, `INSERT INTO bracelets (product_id, description) VALUES ($1, $2)`, Rebind(Postgres, query))

	wide := `INSERT INTO quotes VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	assert.Equal(t, `INSERT INTO quotes VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`, Rebind(Postgres, wide))
}

func TestIsUniqueViolation(t *testing.T) {
	database, err := Open(context.Background(), SQLite, filepath.Join(t.TempDir(), "unique.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	_, err = database.Exec(`CREATE TABLE items (id TEXT PRIMARY KEY, name TEXT UNIQUE)`)
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO items (id, name) VALUES ('a', 'uno')`)
	require.NoError(t, err)

	_, err = database.Exec(`INSERT INTO items (id, name) VALUES ('a', 'dos')`)
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", err)))

	_, err = database.Exec(`INSERT INTO items (id, name) VALUES ('b', 'uno')`)
	assert.True(t, IsUniqueViolation(err))

	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}

func TestIsUnavailable(t *testing.T) {
	assert.True(t, IsUnavailable(fmt.Errorf("query: %w", driver.ErrBadConn)))
	assert.True(t, IsUnavailable(context.DeadlineExceeded))
	assert.False(t, IsUnavailable(errors.New("syntax error")))
}
