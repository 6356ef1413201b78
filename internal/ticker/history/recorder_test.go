package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"cryptoticker/config"
	"cryptoticker/internal/ticker"
	"cryptoticker/pkg/storage/sqlite"

	"go.uber.org/zap"
)

type memoryBackend struct {
	saved    []string
	at       []time.Time
	pruned   []time.Time
	deadline bool
	closed   bool
	pruneErr error
}

func (m *memoryBackend) SavePrice(ctx context.Context, c *ticker.Currency, recordedAt time.Time) error {
	_, m.deadline = ctx.Deadline()
	m.saved = append(m.saved, c.ID)
	m.at = append(m.at, recordedAt)
	return nil
}

func (m *memoryBackend) DeleteOldPrices(ctx context.Context, before time.Time) error {
	m.pruned = append(m.pruned, before)
	return m.pruneErr
}

func (m *memoryBackend) Close() error {
	m.closed = true
	return nil
}

// go test -v --run TestRecorderStampsAndBoundsCalls
func TestRecorderStampsAndBoundsCalls(t *testing.T) {
	backend := &memoryBackend{}
	rec := NewRecorder(backend, time.Second, 0)
	stamp := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rec.now = func() time.Time { return stamp }

	if err := rec.Record(context.Background(), &ticker.Currency{ID: "bitcoin"}); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if len(backend.saved) != 1 || backend.saved[0] != "bitcoin" || !backend.at[0].Equal(stamp) {
		t.Errorf("unexpected saved snapshots: %v %v", backend.saved, backend.at)
	}
	if !backend.deadline {
		t.Error("expected a bounded context for the backend call")
	}
	if len(backend.pruned) != 0 {
		t.Errorf("zero retention must not prune, got %v", backend.pruned)
	}

	if err := rec.Close(); err != nil || !backend.closed {
		t.Errorf("expected backend closed, err=%v", err)
	}
}

// go test -v --run TestRecorderRetention
func TestRecorderRetention(t *testing.T) {
	backend := &memoryBackend{}
	rec := NewRecorder(backend, time.Second, 24*time.Hour)
	stamp := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	rec.now = func() time.Time { return stamp }

	if err := rec.Record(context.Background(), &ticker.Currency{ID: "bitcoin"}); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if len(backend.pruned) != 1 || !backend.pruned[0].Equal(stamp.Add(-24*time.Hour)) {
		t.Errorf("expected one prune at now-24h, got %v", backend.pruned)
	}

	backend.pruneErr = errors.New("disk full")
	if err := rec.Record(context.Background(), &ticker.Currency{ID: "bitcoin"}); !errors.Is(err, backend.pruneErr) {
		t.Errorf("expected prune error, got %v", err)
	}
	if len(backend.saved) != 2 {
		t.Errorf("save must happen before pruning, got %v", backend.saved)
	}
}

// go test -v --run TestOpenDisabled
func TestOpenDisabled(t *testing.T) {
	rec, err := Open(config.HistoryConfig{}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec != nil {
		t.Error("expected no recorder when history is disabled")
	}
}

// go test -v --run TestOpenUnknownDriver
func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(config.HistoryConfig{Driver: "mongo"}, zap.NewNop()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

// go test -v --run TestOpenSQLite
func TestOpenSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	rec, err := Open(config.HistoryConfig{
		Driver: config.HistoryDriverSQLite,
		SQLite: config.SQLiteConfig{Path: path},
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer rec.Close()

	price := "50000.0"
	if err := rec.Record(context.Background(), &ticker.Currency{ID: "bitcoin", Name: "Bitcoin", Symbol: "BTC", Rank: "1", PriceUSD: &price}); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	client := rec.backend.(*sqlite.SQLiteClient)
	var n int64
	if err := client.DB.QueryRow(`SELECT COUNT(*) FROM price_record WHERE asset_id = ?`, "bitcoin").Scan(&n); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 recorded price, got %d", n)
	}
}

// go test -v --run TestOpenSQLiteRetention
func TestOpenSQLiteRetention(t *testing.T) {
	rec, err := Open(config.HistoryConfig{
		Driver:    config.HistoryDriverSQLite,
		Retention: time.Hour,
		SQLite:    config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "history.db")},
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer rec.Close()

	stamp := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, ts := range []string{"1", "2", "3"} {
		at := stamp.Add(time.Duration(i) * 45 * time.Minute)
		rec.now = func() time.Time { return at }
		lastUpdated := ts
		c := &ticker.Currency{ID: "bitcoin", Name: "Bitcoin", Symbol: "BTC", Rank: "1", LastUpdated: &lastUpdated}
		if err := rec.Record(context.Background(), c); err != nil {
			t.Fatalf("record %s failed: %v", ts, err)
		}
	}

	// only rows from the last hour survive: 12:45 and 13:30
	client := rec.backend.(*sqlite.SQLiteClient)
	var n int64
	if err := client.DB.QueryRow(`SELECT COUNT(*) FROM price_record WHERE asset_id = ?`, "bitcoin").Scan(&n); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 rows after pruning, got %d", n)
	}
}
