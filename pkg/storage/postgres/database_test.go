package postgres_test

import (
	"testing"

	"cryptoticker/config"
	"cryptoticker/pkg/storage/postgres"
)

// go test -v --run TestCreateDatabaseUnreachable
func TestCreateDatabaseUnreachable(t *testing.T) {
	cfg := config.PostgresConfig{
		Host:     "127.0.0.1",
		Port:     1,
		User:     "postgres",
		Password: "yourpw",
		DBName:   "test_price_db",
		SSLMode:  "disable",
	}

	if err := postgres.CreateDatabase(cfg); err == nil {
		t.Fatal("expected error when the server is unreachable")
	}
}
