package storage

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabRuby/calcTacos/internal/infrastructure/storage/migrations"
)

// expectedMigrationCount is the number of migrations we expect to have
// Update this when adding new migrations
// Note: goose adds a version 0 entry when initializing, so total count is migrations + 1
const expectedMigrationCount = 3
const gooseVersionCount = expectedMigrationCount + 1 // includes goose's version 0 entry

// TestMigrations_FreshDatabase tests running migrations on a fresh database
func TestMigrations_FreshDatabase(t *testing.T) {
	tmpDB := createTempDB(t)
	defer os.Remove(tmpDB)

	store, err := NewStorage(tmpDB)
	require.NoError(t, err)
	defer store.Close()

	var count int
	err = store.db.QueryRow("SELECT COUNT(*) FROM goose_db_version WHERE is_applied = 1").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, gooseVersionCount, count, "Should have %d version entries (including goose init)", gooseVersionCount)

	version, err := migrations.Version(context.Background(), store.db, migrations.SQLite)
	require.NoError(t, err)
	assert.Equal(t, int64(expectedMigrationCount), version)
}

// TestMigrations_Idempotency tests that migrations can be run multiple times
func TestMigrations_Idempotency(t *testing.T) {
	tmpDB := createTempDB(t)
	defer os.Remove(tmpDB)

	store, err := NewStorage(tmpDB)
	require.NoError(t, err)
	store.Close()

	store, err = NewStorage(tmpDB)
	require.NoError(t, err)
	defer store.Close()

	var count int
	err = store.db.QueryRow("SELECT COUNT(*) FROM goose_db_version WHERE is_applied = 1").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, gooseVersionCount, count, "Should still have exactly %d version entries", gooseVersionCount)
}

// TestMigrations_Schema tests that the correct schema is created
func TestMigrations_Schema(t *testing.T) {
	tmpDB := createTempDB(t)
	defer os.Remove(tmpDB)

	store, err := NewStorage(tmpDB)
	require.NoError(t, err)
	defer store.Close()

	for _, table := range []string{"dining_tables", "menu_items", "sales", "goose_db_version"} {
		err = store.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(new(int))
		assert.NoError(t, err, "%s table should exist", table)
	}

	var fkEnabled int
	require.NoError(t, store.db.QueryRow("PRAGMA foreign_keys").Scan(&fkEnabled))
	assert.Equal(t, 1, fkEnabled, "Foreign keys should be enabled")
}

// TestMigrations_NormalizePaymentMethods checks the Go migration rewrites
// legacy Spanish labels left by older imports.
func TestMigrations_NormalizePaymentMethods(t *testing.T) {
	tmpDB := createTempDB(t)
	defer os.Remove(tmpDB)

	// Build the schema up to version 2 by hand, then seed legacy rows
	db, err := sql.Open("sqlite3", tmpDB)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE goose_db_version (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			version_id INTEGER NOT NULL,
			is_applied INTEGER NOT NULL,
			tstamp TIMESTAMP DEFAULT (datetime('now'))
		);
		INSERT INTO goose_db_version (version_id, is_applied) VALUES (0, 1), (1, 1), (2, 1);
	`)
	require.NoError(t, err)

	schema1, err := migrations.FS.ReadFile("sqlite/00001_create_tables.sql")
	require.NoError(t, err)
	schema2, err := migrations.FS.ReadFile("sqlite/00002_create_sales.sql")
	require.NoError(t, err)
	_, err = db.Exec(upSection(string(schema1)))
	require.NoError(t, err)
	_, err = db.Exec(upSection(string(schema2)))
	require.NoError(t, err)

	_, err = db.Exec(`
		INSERT INTO sales (id, business_date, total, sold_at, payment_method) VALUES
		('s1', '2026-10-16', '10', '2026-10-16 12:00:00', 'Efectivo'),
		('s2', '2026-10-16', '20', '2026-10-16 12:05:00', 'Tarjeta'),
		('s3', '2026-10-16', '30', '2026-10-16 12:10:00', ''),
		('s4', '2026-10-16', '40', '2026-10-16 12:15:00', 'transfer')
	`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	store, err := NewStorage(tmpDB)
	require.NoError(t, err)
	defer store.Close()

	got := map[string]string{}
	rows, err := store.db.Query("SELECT id, payment_method FROM sales")
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var id, method string
		require.NoError(t, rows.Scan(&id, &method))
		got[id] = method
	}
	require.NoError(t, rows.Err())

	assert.Equal(t, map[string]string{
		"s1": "cash",
		"s2": "card",
		"s3": "NoEsp",
		"s4": "transfer",
	}, got)
}

// upSection returns the statements between "+goose Up" and "+goose Down".
func upSection(script string) string {
	const up, down = "-- +goose Up", "-- +goose Down"
	start := strings.Index(script, up) + len(up)
	end := strings.Index(script, down)
	return script[start:end]
}

// createTempDB creates a temporary database file for testing
func createTempDB(t *testing.T) string {
	tmpFile, err := os.CreateTemp("", "test_*.db")
	require.NoError(t, err)
	tmpFile.Close()
	return tmpFile.Name()
}
