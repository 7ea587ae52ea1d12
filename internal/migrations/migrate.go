package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/Simplici0/selah/internal/db"
)

//go:embed sqlite/*.sql postgres/*.sql
var embedded embed.FS

func gooseDialect(dialect db.Dialect) (goose.Dialect, error) {
	switch dialect {
	case db.SQLite:
		return goose.DialectSQLite3, nil
	case db.Postgres:
		return goose.DialectPostgres, nil
	default:
		return "", fmt.Errorf("no migrations for dialect %q", dialect)
	}
}

// Up runs all pending migrations for dialect and returns how many were applied.
func Up(ctx context.Context, database *sql.DB, dialect db.Dialect, logger *zap.Logger) (int, error) {
	gd, err := gooseDialect(dialect)
	if err != nil {
		return 0, err
	}

	dir, err := fs.Sub(embedded, string(dialect))
	if err != nil {
		return 0, fmt.Errorf("open %s migrations: %w", dialect, err)
	}

	provider, err := goose.NewProvider(gd, database, dir)
	if err != nil {
		return 0, fmt.Errorf("create goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	for _, res := range results {
		if res == nil || res.Source == nil {
			continue
		}
		logger.Info("migration applied",
			zap.Int64("version", res.Source.Version),
			zap.String("file", res.Source.Path),
			zap.Duration("took", res.Duration),
		)
	}
	if err != nil {
		return len(results), fmt.Errorf("run goose up migrations: %w", err)
	}

	return len(results), nil
}
