package database

import (
	"bijouterie_server/database/migrations"
	"context"
	"fmt"

	"github.com/pressly/goose/v3"
)

// Migrate applies the embedded SQL migrations on the underlying *sql.DB.
func (db *DB) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migration dialect error: %w", err)
	}

	if err := goose.UpContext(ctx, db.DB.DB, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
