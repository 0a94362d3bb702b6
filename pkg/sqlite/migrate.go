package sqlite

import (
	"embed"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Migrate applies all pending migrations. Safe to call on every
// startup against both a brand-new file and one from an older schema
// version; goose tracks what has already run.
func (d *DB) Migrate() error {
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}

	return goose.Up(sqlDB, "migrations")
}
