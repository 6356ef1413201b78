package resolver

import (
	"context"
	"time"

	"cryptoticker/internal/ticker"

	"go.uber.org/zap"
)

// DefaultTTL is the maximum age of a cache entry before it is refetched.
const DefaultTTL = 30 * time.Minute

// Fetcher retrieves a fresh snapshot from the network.
type Fetcher interface {
	GetTicker(ctx context.Context, id string) (*ticker.Currency, error)
}

// Store is a per-asset cache keyed by file path.
type Store interface {
	Path(id string) string
	Read(path string) (*ticker.Currency, time.Duration, error)
	Write(path string, c *ticker.Currency) error
}

// Recorder receives every freshly fetched snapshot. Cache hits are not recorded.
type Recorder interface {
	Record(ctx context.Context, c *ticker.Currency) error
}

type Resolver struct {
	fetcher  Fetcher
	store    Store
	recorder Recorder
	logger   *zap.Logger
}

func New(fetcher Fetcher, store Store, logger *zap.Logger) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		store:   store,
		logger:  logger,
	}
}

// SetRecorder attaches a best-effort history sink.
func (r *Resolver) SetRecorder(rec Recorder) {
	r.recorder = rec
}

// Resolve returns a snapshot for id that is at most ttl old.
// With useCache false the store is neither read nor written.
func (r *Resolver) Resolve(ctx context.Context, id string, useCache bool, ttl time.Duration) (*ticker.Currency, error) {
	if !useCache {
		return r.fetch(ctx, id)
	}

	path := r.store.Path(id)

	cached, age, err := r.store.Read(path)
	switch {
	case err != nil:
		// Missing, corrupt, unreadable or future-dated entries are all a miss
		r.logger.Debug("cache miss", zap.String("asset", id), zap.String("path", path), zap.Error(err))
	case age < ttl:
		r.logger.Debug("cache hit", zap.String("asset", id), zap.Duration("age", age))
		return cached, nil
	default:
		r.logger.Debug("cache stale", zap.String("asset", id), zap.Duration("age", age), zap.Duration("ttl", ttl))
	}

	fresh, err := r.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.store.Write(path, fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

func (r *Resolver) fetch(ctx context.Context, id string) (*ticker.Currency, error) {
	c, err := r.fetcher.GetTicker(ctx, id)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("fetched ticker", zap.String("asset", id), zap.String("price_usd", c.PriceOrNull()))

	if r.recorder != nil {
		if err := r.recorder.Record(ctx, c); err != nil {
			r.logger.Warn("failed to record price history", zap.String("asset", id), zap.Error(err))
		}
	}
	return c, nil
}
