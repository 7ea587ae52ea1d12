// Package seed inserts the admin user and the default suppliers.
package seed

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Simplici0/selah/internal/db"
)

// Config contains the values required by startup seed.
type Config struct {
	AdminEmail    string
	AdminPassword string
	Suppliers     []string
}

// Stats contains seed operation counters. Skipped counts every admin or supplier
// entry that was not inserted: missing credentials, blank names and rows already present.
type Stats struct {
	Inserts int
	Skipped int
}

// Run executes the startup seed in an idempotent way.
func Run(ctx context.Context, database *sql.DB, dialect db.Dialect, cfg Config) (Stats, error) {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	s := seeder{tx: tx, dialect: dialect}

	if err := s.admin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	for _, name := range cfg.Suppliers {
		if err := s.supplier(ctx, name); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return s.stats, nil
}

type seeder struct {
	tx      *sql.Tx
	dialect db.Dialect
	stats   Stats
}

func (s *seeder) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var exists bool
	err := s.tx.QueryRowContext(ctx, db.Rebind(s.dialect, query), args...).Scan(&exists)
	return exists, err
}

func (s *seeder) admin(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		s.stats.Skipped++
		return nil
	}

	exists, err := s.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`, email)
	if err != nil {
		return fmt.Errorf("check admin user existence: %w", err)
	}
	if exists {
		s.stats.Skipped++
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	if _, err := s.tx.ExecContext(ctx, db.Rebind(s.dialect, `INSERT INTO users (email, password_hash) VALUES (?, ?)`), email, string(hash)); err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}
	s.stats.Inserts++
	return nil
}

func (s *seeder) supplier(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		s.stats.Skipped++
		return nil
	}

	exists, err := s.exists(ctx, `SELECT EXISTS(SELECT 1 FROM suppliers WHERE name = ?)`, name)
	if err != nil {
		return fmt.Errorf("check supplier %q existence: %w", name, err)
	}
	if exists {
		s.stats.Skipped++
		return nil
	}

	if _, err := s.tx.ExecContext(ctx, db.Rebind(s.dialect, `INSERT INTO suppliers (name) VALUES (?)`), name); err != nil {
		return fmt.Errorf("insert supplier %q: %w", name, err)
	}
	s.stats.Inserts++
	return nil
}
