package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"cryptoticker/pkg/storage/postgres"
)

// liveDSN returns the DSN of a scratch database or skips the test.
func liveDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("CRYPTOTICKER_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("CRYPTOTICKER_TEST_POSTGRES_DSN not set")
	}
	return dsn
}

// go test -v --run ^TestPostgresInvalidDSN$
func TestPostgresInvalidDSN(t *testing.T) {
	invalidDSN := "host=127.0.0.1 port=1 user=fail password=fail dbname=fail sslmode=disable connect_timeout=2"

	_, err := postgres.NewClient(invalidDSN)
	if err == nil {
		t.Fatal("expected error for unreachable server, got nil")
	}
}

// go test -v --run ^TestPostgresClientHealthy$
func TestPostgresClientHealthy(t *testing.T) {
	client, err := postgres.NewClient(liveDSN(t))
	if err != nil {
		t.Fatalf("failed to create Postgres client: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if !client.IsHealthy(ctx) {
		t.Fatal("expected healthy DB connection")
	}

	if err := client.AutoMigratePriceRecord(); err != nil {
		t.Fatalf("auto migration failed: %v", err)
	}
}
