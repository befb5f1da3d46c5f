// Package testutil provides shared helpers for Postgres integration tests.
// Every helper that takes a *testing.T skips the test when TEST_DATABASE_URL
// is unset, so `go test ./...` stays green on machines without a database.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
)

// DSNEnv names the environment variable that points tests at a database.
const DSNEnv = "TEST_DATABASE_URL"

// NewPool returns a pinged *pgxpool.Pool for the test database, closed on
// test cleanup.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), requireDSN(t))
	if err != nil {
		t.Fatalf("testutil.NewPool: open pool: %v", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		t.Fatalf("testutil.NewPool: ping: %v", err)
	}

	t.Cleanup(pool.Close)
	return pool
}

// NewSQLDB returns a *sql.DB on the pgx stdlib driver, for goose.
// It is closed on test cleanup.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := openSQLDB(requireDSN(t))
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// MustOpenSQLDB is NewSQLDB for TestMain, where no *testing.T exists.
// It panics on error and leaves closing to the caller.
func MustOpenSQLDB(dsn string) *sql.DB {
	db, err := openSQLDB(dsn)
	if err != nil {
		panic("testutil.MustOpenSQLDB: " + err.Error())
	}
	return db
}

func openSQLDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv(DSNEnv)
	if dsn == "" {
		t.Skip(DSNEnv + " not set; skipping integration test")
	}
	return dsn
}
