// Package migrations embeds the catalog schema and the default category
// seed, and applies them with goose at process start.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var embedMigrations embed.FS

// Migrate brings the connected database up to the latest schema version.
// It is safe to call on every start; already-applied migrations are skipped.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("migration error selecting pgx dialect: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("migration error applying catalog schema: %w", err)
	}

	return nil
}
