package helpers

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"futureYouAPI/internal/user"
	"futureYouAPI/services"
)

// SetupTestDB creates a test database connection. Skips the test when no
// database is configured so the pure-logic suites still run everywhere.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL or DATABASE_URL must be set")
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

// CleanupTestDB removes the rows the test accounts created. Logs depend on
// users via foreign keys with cascade, so deleting users is enough.
func CleanupTestDB(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()
	_, err := pool.Exec(ctx, "DELETE FROM users WHERE email LIKE 'test%@example.com'")
	if err != nil {
		t.Logf("Warning: failed to cleanup test data: %v", err)
	}
	pool.Close()
}

// FullRatings rates every baseline domain the same value.
func FullRatings(rating int) map[string]int {
	return map[string]int{
		"physical":      rating,
		"mental":        rating,
		"career":        rating,
		"relationships": rating,
		"finance":       rating,
		"hobbies":       rating,
	}
}

// RegisterTestUser creates an account with a unique test email.
func RegisterTestUser(t *testing.T, svc *services.UserService, tag string) *user.User {
	t.Helper()

	req := &user.RegisterRequest{
		Name:     "Test " + tag,
		Email:    fmt.Sprintf("test+%s@example.com", tag),
		Password: "password123",
		Ratings:  FullRatings(3),
	}

	u, err := svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("Failed to register test user: %v", err)
	}
	return u
}
