package history

import (
	"context"
	"fmt"
	"time"

	"cryptoticker/config"
	"cryptoticker/internal/ticker"
	"cryptoticker/pkg/storage/postgres"
	"cryptoticker/pkg/storage/sqlite"

	"go.uber.org/zap"
)

// Backend archives snapshots. Duplicate snapshots must not be an error.
type Backend interface {
	SavePrice(ctx context.Context, c *ticker.Currency, recordedAt time.Time) error
	DeleteOldPrices(ctx context.Context, before time.Time) error
	Close() error
}

// Recorder stamps each snapshot with the local receive time and hands it to a Backend.
// With a positive retention, rows recorded before now-retention are pruned after each save.
type Recorder struct {
	backend   Backend
	timeout   time.Duration
	retention time.Duration
	now       func() time.Time
}

func NewRecorder(backend Backend, timeout, retention time.Duration) *Recorder {
	return &Recorder{
		backend:   backend,
		timeout:   timeout,
		retention: retention,
		now:       time.Now,
	}
}

func (r *Recorder) Record(ctx context.Context, c *ticker.Currency) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	now := r.now()
	if err := r.backend.SavePrice(ctx, c, now); err != nil {
		return err
	}
	if r.retention <= 0 {
		return nil
	}
	if err := r.backend.DeleteOldPrices(ctx, now.Add(-r.retention)); err != nil {
		return fmt.Errorf("prune price history: %w", err)
	}
	return nil
}

func (r *Recorder) Close() error {
	return r.backend.Close()
}

// Open builds the recorder selected by cfg.Driver. It returns nil, nil when history is disabled.
func Open(cfg config.HistoryConfig, logger *zap.Logger) (*Recorder, error) {
	switch cfg.Driver {
	case config.HistoryDriverNone:
		return nil, nil

	case config.HistoryDriverSQLite:
		client, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite history: %w", err)
		}
		logger.Debug("price history enabled", zap.String("driver", cfg.Driver), zap.String("path", cfg.SQLite.Path), zap.Duration("retention", cfg.Retention))
		return NewRecorder(client, 2*time.Second, cfg.Retention), nil

	case config.HistoryDriverPostgres:
		client, err := postgres.InitializeAndMigratePriceRecord(cfg.Postgres, true)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to DB: %w", err)
		}
		logger.Debug("price history enabled", zap.String("driver", cfg.Driver), zap.String("dbname", cfg.Postgres.DBName), zap.Duration("retention", cfg.Retention))
		return NewRecorder(client, 2*time.Second, cfg.Retention), nil

	default:
		return nil, fmt.Errorf("unknown history driver %q", cfg.Driver)
	}
}
