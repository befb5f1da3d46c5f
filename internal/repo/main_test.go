package repo_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/pkordes/pilgrimages/backend/migrations"
	"github.com/pkordes/pilgrimages/backend/testutil"
)

// TestMain brings the test database schema up to date once for the whole
// package. Without TEST_DATABASE_URL only the memory-store tests run; the
// Postgres ones skip themselves through testutil.NewPool.
func TestMain(m *testing.M) {
	dsn := os.Getenv(testutil.DSNEnv)
	if dsn == "" {
		os.Exit(m.Run())
	}

	db := testutil.MustOpenSQLDB(dsn)
	if err := migrations.Up(context.Background(), db); err != nil {
		db.Close()
		log.Fatalf("TestMain: %v", err)
	}
	db.Close()

	os.Exit(m.Run())
}
