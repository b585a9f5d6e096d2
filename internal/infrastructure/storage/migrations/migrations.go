// Package migrations embeds the schema migrations for every storage backend.
//
// SQL migrations live in one directory per dialect. Go migrations register
// themselves with goose on init and run for both dialects, so they must stick
// to portable SQL.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS

// Dialect names a migration directory and its goose dialect.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

func (d Dialect) goose() goose.Dialect {
	if d == Postgres {
		return goose.DialectPostgres
	}
	return goose.DialectSQLite3
}

// Up applies every pending migration for the dialect.
func Up(ctx context.Context, db *sql.DB, dialect Dialect) error {
	goose.SetBaseFS(FS)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(string(dialect.goose())); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, string(dialect)); err != nil {
		return fmt.Errorf("run %s migrations: %w", dialect, err)
	}
	return nil
}

// Version returns the current schema version.
func Version(ctx context.Context, db *sql.DB, dialect Dialect) (int64, error) {
	if err := goose.SetDialect(string(dialect.goose())); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, db)
}
