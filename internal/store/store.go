// Package store persists suppliers, materials, bracelets, pending quotes and users.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Simplici0/selah/internal/db"
	"github.com/Simplici0/selah/internal/errs"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

// Store runs the application's queries against a SQLite or PostgreSQL database.
type Store struct {
	db      *sql.DB
	dialect db.Dialect
	now     func() time.Time
}

// New wraps database. Queries are written with '?' placeholders and rebound for dialect.
func New(database *sql.DB, dialect db.Dialect) *Store {
	return &Store{db: database, dialect: dialect, now: time.Now}
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) q(query string) string {
	return db.Rebind(s.dialect, query)
}

// writeError classifies a failed write into the persistence taxonomy.
func writeError(what string, err error) error {
	switch {
	case db.IsUniqueViolation(err):
		return errs.Persistence(errs.ReasonDuplicateKey, fmt.Sprintf("Ya existe un registro con ese ID (%s).", what), err)
	case db.IsUnavailable(err):
		return errs.Persistence(errs.ReasonUnavailable, "No se pudo conectar con la base de datos.", err)
	default:
		return fmt.Errorf("insert %s: %w", what, err)
	}
}
