package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cryptoticker/internal/ticker"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS price_record (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	asset_id           TEXT NOT NULL,
	last_updated       TEXT NOT NULL,
	name               TEXT NOT NULL,
	symbol             TEXT NOT NULL,
	rank               TEXT NOT NULL,
	price_usd          TEXT,
	price_btc          TEXT,
	volume_usd_24h     TEXT,
	market_cap_usd     TEXT,
	available_supply   TEXT,
	total_supply       TEXT,
	percent_change_1h  TEXT,
	percent_change_24h TEXT,
	percent_change_7d  TEXT,
	recorded_at        INTEGER NOT NULL,
	UNIQUE (asset_id, last_updated)
);
CREATE INDEX IF NOT EXISTS idx_price_recorded_at ON price_record (recorded_at);
`

type SQLiteClient struct {
	DB *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
// ":memory:" is accepted for an in-process database.
func Open(path string) (*SQLiteClient, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil && path != ":memory:" {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteClient{DB: db}, nil
}

// SavePrice archives c. A snapshot already stored for the same asset and
// upstream timestamp is skipped.
func (s *SQLiteClient) SavePrice(ctx context.Context, c *ticker.Currency, recordedAt time.Time) error {
	lastUpdated := ticker.NullMarker
	if c.LastUpdated != nil {
		lastUpdated = *c.LastUpdated
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT OR IGNORE INTO price_record (
			asset_id, last_updated, name, symbol, rank,
			price_usd, price_btc, volume_usd_24h, market_cap_usd,
			available_supply, total_supply,
			percent_change_1h, percent_change_24h, percent_change_7d,
			recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, lastUpdated, c.Name, c.Symbol, c.Rank,
		c.PriceUSD, c.PriceBTC, c.VolumeUSD24h, c.MarketCapUSD,
		c.AvailableSupply, c.TotalSupply,
		c.PercentChange1h, c.PercentChange24h, c.PercentChange7d,
		recordedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert price: %w", err)
	}
	return nil
}

// DeleteOldPrices removes rows recorded before the cutoff.
func (s *SQLiteClient) DeleteOldPrices(ctx context.Context, before time.Time) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM price_record WHERE recorded_at < ?`, before.UnixMilli())
	return err
}

func (s *SQLiteClient) Close() error {
	return s.DB.Close()
}
