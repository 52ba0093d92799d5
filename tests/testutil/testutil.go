package testutil

import (
	"fmt"
	"os"
	"testing"
)

// RequireTestEnvironment fails the test immediately unless GO_ENV is set to
// "test". The suites wipe and reseed tables, so running them against a
// development or production database would destroy data.
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q. Set GO_ENV=test before running tests.", env)
	}
}

// RequireTestEnvironmentOrSkip skips the test instead of failing it when
// GO_ENV is not "test". Use for optional suites.
func RequireTestEnvironmentOrSkip(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Skipf("Skipping test: GO_ENV must be 'test' (current: %q)", env)
	}
}

// MustSetTestEnvironment sets GO_ENV=test and fails if it cannot be set.
// Call it from TestMain or suite setup.
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()

	if err := os.Setenv("GO_ENV", "test"); err != nil {
		t.Fatalf("Failed to set GO_ENV=test: %v", err)
	}

	if os.Getenv("GO_ENV") != "test" {
		t.Fatal("Failed to verify GO_ENV=test")
	}
}

// PrintEnvironmentInfo dumps the test environment configuration, with the
// database URL masked. Useful when a suite picks up the wrong database.
func PrintEnvironmentInfo() {
	fmt.Printf("Test Environment Info:\n")
	fmt.Printf("  GO_ENV: %s\n", os.Getenv("GO_ENV"))
	fmt.Printf("  DATABASE_URL: %s\n", maskDatabaseURL(os.Getenv("DATABASE_URL")))
	fmt.Printf("  PORT: %s\n", os.Getenv("PORT"))
}

// maskDatabaseURL truncates the URL and flags whether it looks like a test
// database, without printing credentials
func maskDatabaseURL(url string) string {
	if url == "" {
		return "(not set)"
	}
	if len(url) > 20 {
		if looksLikeTestDB(url) {
			return url[:20] + "... [test database]"
		}
		return url[:20] + "... [WARNING: may not be a test database]"
	}
	return url
}

func looksLikeTestDB(s string) bool {
	return len(s) >= 4 && s[len(s)-4:] == "test"
}
