package main

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/Simplici0/selah/internal/config"
	"github.com/Simplici0/selah/internal/db"
	"github.com/Simplici0/selah/internal/logging"
	"github.com/Simplici0/selah/internal/pricing"
	"github.com/Simplici0/selah/internal/store"
)

// app holds the dependencies shared by every command.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	db      *sql.DB
	dialect db.Dialect
	store   *store.Store
	options config.Options
	engine  *pricing.Engine
}

// loggingConfig starts from the logging defaults and applies the configured overrides.
func loggingConfig(cfg config.Config, verbose bool) logging.Config {
	logCfg := logging.DefaultConfig()
	if cfg.LogLevel != "" {
		logCfg.Level = cfg.LogLevel
	}
	if cfg.LogFormat != "" {
		logCfg.Format = cfg.LogFormat
	}
	if verbose {
		logCfg.Level = "debug"
	}
	logCfg.Development = cfg.IsDev()
	return logCfg
}

func bootstrap(ctx context.Context, verbose bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(loggingConfig(cfg, verbose))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	for _, w := range cfg.Warnings {
		logger.Warn("configuration warning", zap.String("detail", w))
	}

	options, err := config.LoadOptions(cfg.OptionsFile)
	if err != nil {
		return nil, fmt.Errorf("load options: %w", err)
	}

	scheme, err := pricing.ParseTierScheme(cfg.TierScheme)
	if err != nil {
		return nil, err
	}

	dialect, err := db.ParseDialect(cfg.DBDriver)
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	database, err := db.Open(connectCtx, dialect, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	logger.Debug("database opened",
		zap.String("driver", cfg.DBDriver),
		zap.String("tier_scheme", scheme.Name()),
	)

	return &app{
		cfg:     cfg,
		logger:  logger,
		db:      database,
		dialect: dialect,
		store:   store.New(database, dialect),
		options: options,
		engine:  pricing.NewEngine(scheme),
	}, nil
}

func (a *app) Close() {
	_ = a.db.Close()
	_ = a.logger.Sync()
}
