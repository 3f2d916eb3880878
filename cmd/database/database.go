package database

import (
	"context"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/muhammadheryan/artisanhub/cmd/config"
	"github.com/muhammadheryan/artisanhub/repository/migration"
)

// Open connects to MySQL and applies the pool settings from config.
func Open(cfg *config.Config) (*sqlx.DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config provided")
	}

	db, err := sqlx.Connect("mysql", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("connect mysql %s:%d: %w", cfg.Database.Host, cfg.Database.Port, err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

// Migrate runs the embedded migrations when enabled.
func Migrate(ctx context.Context, cfg *config.Config, db *sqlx.DB) error {
	if !cfg.Database.RunMigrations {
		return nil
	}
	return migration.Run(ctx, db.DB)
}
