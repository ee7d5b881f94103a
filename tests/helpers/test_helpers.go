package helpers

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SetupTestDB creates a test database connection. Tests are skipped when no
// database is configured so the pure suites still run anywhere.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL or DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	return pool
}

// CleanupTestDB removes rows created by the tests. Progress, mastery, goals
// and sessions cascade from the user delete.
func CleanupTestDB(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()
	_, err := pool.Exec(ctx, "DELETE FROM users WHERE email LIKE 'test%@example.com' OR email LIKE '%@placeholder.local'")
	if err != nil {
		t.Logf("Warning: failed to cleanup test users: %v", err)
	}
	_, err = pool.Exec(ctx, "DELETE FROM problems WHERE title LIKE 'Test Problem%'")
	if err != nil {
		t.Logf("Warning: failed to cleanup test problems: %v", err)
	}
	pool.Close()
}

// SetupEmptySchemaDB creates a throwaway schema holding just the tables the
// stats read path touches, so tests can exercise an empty catalog without
// disturbing shared data. The returned pool is scoped to that schema and the
// schema is dropped on cleanup.
func SetupEmptySchemaDB(t *testing.T) *pgxpool.Pool {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL or DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	admin, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	schema := fmt.Sprintf("empty_catalog_%d", time.Now().UnixNano())
	ddl := []string{
		fmt.Sprintf("CREATE SCHEMA %s", schema),
		fmt.Sprintf(`CREATE TABLE %s.users (
			id uuid PRIMARY KEY,
			clerk_id text NOT NULL UNIQUE,
			email text NOT NULL,
			username text NOT NULL DEFAULT '',
			image_url text NOT NULL DEFAULT '',
			email_verified boolean NOT NULL DEFAULT false,
			xp integer NOT NULL DEFAULT 0,
			level text NOT NULL DEFAULT 'Bronze',
			current_streak integer NOT NULL DEFAULT 0,
			longest_streak integer NOT NULL DEFAULT 0,
			weekly_goal integer NOT NULL DEFAULT 5,
			created_at timestamptz NOT NULL DEFAULT now(),
			updated_at timestamptz NOT NULL DEFAULT now()
		)`, schema),
		fmt.Sprintf(`CREATE TABLE %s.problems (
			id uuid PRIMARY KEY,
			title text NOT NULL,
			url text NOT NULL DEFAULT '',
			difficulty text NOT NULL,
			pattern text,
			topics text[] NOT NULL DEFAULT '{}',
			acceptance_rate double precision NOT NULL DEFAULT 0,
			frequency double precision NOT NULL DEFAULT 0,
			question_no integer NOT NULL DEFAULT 0,
			is_premium boolean NOT NULL DEFAULT false,
			created_at timestamptz NOT NULL DEFAULT now()
		)`, schema),
	}
	for _, stmt := range ddl {
		if _, err := admin.Exec(ctx, stmt); err != nil {
			admin.Close()
			t.Fatalf("Failed to create empty-catalog schema: %v", err)
		}
	}

	cfg, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		admin.Close()
		t.Fatalf("Failed to parse database URL: %v", err)
	}
	cfg.ConnConfig.RuntimeParams["search_path"] = schema

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		admin.Close()
		t.Fatalf("Failed to connect to schema pool: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if _, err := admin.Exec(ctx, fmt.Sprintf("DROP SCHEMA %s CASCADE", schema)); err != nil {
			t.Logf("Warning: failed to drop schema %s: %v", schema, err)
		}
		admin.Close()
	})

	return pool
}

// SeedProblem inserts one catalog row and returns its ID.
func SeedProblem(t *testing.T, pool *pgxpool.Pool, title, difficulty, pattern string) uuid.UUID {
	ctx := context.Background()
	id := uuid.New()
	_, err := pool.Exec(ctx, `
		INSERT INTO problems (id, title, url, difficulty, pattern, topics, acceptance_rate, frequency, question_no, is_premium, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 50.0, 1.0, $7, false, NOW())
	`, id, title, "https://example.com/"+id.String(), difficulty, pattern, []string{"Array"}, time.Now().UnixNano()%100000)
	if err != nil {
		t.Fatalf("Failed to seed problem: %v", err)
	}
	return id
}

// GenerateMockClerkJWT generates a mock JWT token for testing
func GenerateMockClerkJWT(clerkID string) (string, error) {
	secretKey := []byte("test-secret-key-for-testing-only")

	claims := jwt.MapClaims{
		"sub": clerkID,
		"iss": "https://clerk.test",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour * 24).Unix(),
		"azp": "test-app-id",
		"sid": "sess_test123",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// MockClerkWebhookPayload creates a mock webhook payload
func MockClerkWebhookPayload(eventType string, clerkID string) []byte {
	payload := ""

	switch eventType {
	case "user.created":
		payload = fmt.Sprintf(`{
			"data": {
				"id": "%s",
				"first_name": "Test",
				"last_name": "User",
				"email_addresses": [{
					"id": "email_123",
					"email_address": "test.user@example.com",
					"verification": {"status": "verified"}
				}],
				"primary_email_address_id": "email_123",
				"username": "testuser",
				"image_url": "https://example.com/image.jpg",
				"profile_image_url": "https://example.com/image.jpg"
			},
			"object": "event",
			"type": "%s"
		}`, clerkID, eventType)

	case "user.updated":
		payload = fmt.Sprintf(`{
			"data": {
				"id": "%s",
				"first_name": "Updated",
				"last_name": "User",
				"email_addresses": [{
					"id": "email_123",
					"email_address": "test.user@example.com",
					"verification": {"status": "verified"}
				}],
				"username": "updateduser",
				"image_url": "https://example.com/new-image.jpg"
			},
			"object": "event",
			"type": "%s"
		}`, clerkID, eventType)

	case "user.deleted":
		payload = fmt.Sprintf(`{
			"data": {
				"id": "%s",
				"deleted": true
			},
			"object": "event",
			"type": "%s"
		}`, clerkID, eventType)
	}

	return []byte(payload)
}
