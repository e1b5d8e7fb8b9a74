// Package testdb provides helpers for integration tests that run against a
// real PostgreSQL instance. It depends only on database/sql and the embedded
// migrations, never on store implementations.
package testdb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"

	"github.com/taskwire/taskwire-api/migrations"
)

// Timeout bounds individual setup operations against the test database.
const Timeout = 5 * time.Second

// URL returns the connection string for the test database, checking
// DATABASE_URL and then TASKWIRE_TEST_DB_URL. An empty result means no
// database is available and integration tests should be skipped.
func URL() string {
	if u := os.Getenv("DATABASE_URL"); u != "" {
		return u
	}
	return os.Getenv("TASKWIRE_TEST_DB_URL")
}

// Connect opens the test database, verifies connectivity and applies all
// embedded migrations. The connection is closed when the test finishes.
// Tests are skipped when no test database is configured.
func Connect(t *testing.T) *sql.DB {
	t.Helper()

	url := URL()
	if url == "" {
		t.Skip("no test database configured; set DATABASE_URL to run")
	}

	db, err := sql.Open("pgx", url)
	require.NoError(t, err, "open test database")
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "ping test database")

	goose.SetLogger(goose.NopLogger())
	goose.SetBaseFS(migrations.FS)
	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.Up(db, "."), "apply migrations")

	return db
}

// WithTx runs fn inside a transaction that is always rolled back, so tests
// can write freely without affecting each other.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "begin transaction")
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Errorf("rollback failed: %v", err)
		}
	}()

	fn(t, tx)
}
