package helpers

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

const schema = `
CREATE TABLE IF NOT EXISTS participants (
	id UUID PRIMARY KEY,
	clerk_id TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	email TEXT NOT NULL DEFAULT '',
	start_weight_kg NUMERIC,
	start_waist_cm NUMERIC,
	photo_url TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS weigh_ins (
	id UUID PRIMARY KEY,
	participant_id UUID NOT NULL REFERENCES participants(id),
	weigh_date DATE NOT NULL,
	weight_kg NUMERIC,
	waist_cm NUMERIC,
	recorded_by TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (participant_id, weigh_date)
);

CREATE TABLE IF NOT EXISTS attendance (
	id UUID PRIMARY KEY,
	participant_id UUID NOT NULL REFERENCES participants(id),
	att_date DATE NOT NULL,
	marked_by TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (participant_id, att_date)
);

CREATE TABLE IF NOT EXISTS admins (
	clerk_id TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS notifications (
	id UUID PRIMARY KEY,
	participant_id UUID NOT NULL REFERENCES participants(id),
	type TEXT NOT NULL,
	title TEXT NOT NULL,
	body TEXT NOT NULL,
	is_read BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS device_tokens (
	token TEXT PRIMARY KEY,
	participant_id UUID NOT NULL REFERENCES participants(id),
	platform TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// SetupTestDB connects to the test database and ensures the schema exists.
// Tests are skipped when no database is configured, so the pure unit tests
// still run everywhere.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	_ = godotenv.Load("../../.env")

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return pool
}

// CleanupTestDB removes rows created by tests and closes the pool.
func CleanupTestDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	for _, stmt := range []string{
		"DELETE FROM device_tokens WHERE participant_id IN (SELECT id FROM participants WHERE clerk_id LIKE 'user_test_%')",
		"DELETE FROM notifications WHERE participant_id IN (SELECT id FROM participants WHERE clerk_id LIKE 'user_test_%')",
		"DELETE FROM weigh_ins WHERE participant_id IN (SELECT id FROM participants WHERE clerk_id LIKE 'user_test_%')",
		"DELETE FROM attendance WHERE participant_id IN (SELECT id FROM participants WHERE clerk_id LIKE 'user_test_%')",
		"DELETE FROM participants WHERE clerk_id LIKE 'user_test_%'",
		"DELETE FROM admins WHERE clerk_id LIKE 'user_test_%'",
	} {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			t.Logf("Warning: failed to cleanup test data: %v", err)
		}
	}
	pool.Close()
}
