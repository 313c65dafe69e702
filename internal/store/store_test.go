// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// store_test.go provides a shared test database helper for the store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"techblog/internal/database"
	"techblog/internal/offline"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "techblog")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "techblog")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB connects, migrates and seeds the sample catalog. If the database
// is unavailable, the test is skipped.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	db, err := database.Connect(ctx, testDSN())
	if err != nil {
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(ctx, db))

	cat, err := offline.LoadSample()
	require.NoError(t, err)
	require.NoError(t, database.Seed(ctx, db, cat))
	return db
}

// cleanComments removes comments created by a test. Call in t.Cleanup().
func cleanComments(db *sql.DB, ids ...string) {
	for _, id := range ids {
		db.Exec("DELETE FROM comments WHERE id = $1", id)
	}
}

// cleanSubscribers removes test subscribers by email. Call in t.Cleanup().
func cleanSubscribers(db *sql.DB, emails ...string) {
	for _, email := range emails {
		db.Exec("DELETE FROM subscribers WHERE LOWER(email) = LOWER($1)", email)
	}
}
