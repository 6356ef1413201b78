package runner

import (
	"context"
	"fmt"
	"io"
	"time"

	"cryptoticker/config"
	"cryptoticker/internal/ticker/cache"
	"cryptoticker/internal/ticker/history"
	"cryptoticker/internal/ticker/render"
	"cryptoticker/internal/ticker/resolver"
	"cryptoticker/pkg/coinmarketcap"

	"go.uber.org/zap"
)

// Flags are the command-line choices layered over Config.
type Flags struct {
	Assets   []string
	Repeat   bool
	Interval time.Duration
	Debug    bool
	NoCache  bool
}

// StartTicker wires the fetcher, cache, optional history and render loop,
// then runs until the single pass completes or ctx is cancelled.
func StartTicker(ctx context.Context, cfg *config.Config, flags Flags, out io.Writer, logger *zap.Logger) error {
	if len(flags.Assets) == 0 {
		return fmt.Errorf("at least one ticker id is required")
	}

	restClient := coinmarketcap.NewRESTClient(cfg.API.BaseURL, cfg.API.Timeout)
	store := cache.NewOsFileStore(cfg.Cache.Dir)
	res := resolver.New(restClient, store, logger)

	// history is best-effort; a broken backend must not stop the ticker
	recorder, err := history.Open(cfg.History, logger)
	if err != nil {
		logger.Warn("price history disabled", zap.String("driver", cfg.History.Driver), zap.Error(err))
		recorder = nil
	}
	if recorder != nil {
		defer func() {
			if err := recorder.Close(); err != nil {
				logger.Warn("failed to close price history", zap.Error(err))
			}
		}()
		res.SetRecorder(recorder)
	}

	ttl := cfg.Cache.TTL
	if ttl <= 0 {
		ttl = resolver.DefaultTTL
	}

	opts := render.Options{
		Assets:     flags.Assets,
		Repeat:     flags.Repeat,
		Interval:   flags.Interval,
		UseCache:   cfg.Cache.Enabled && !flags.NoCache,
		TTL:        ttl,
		Debug:      flags.Debug,
		ShortNames: render.NewShortNames(cfg.Ticker.ShortNames),
	}

	logger.Debug("starting ticker",
		zap.Strings("assets", opts.Assets),
		zap.Bool("repeat", opts.Repeat),
		zap.Duration("interval", opts.Interval),
		zap.Bool("cache", opts.UseCache),
		zap.String("cache_dir", store.Dir()),
		zap.Duration("ttl", opts.TTL),
	)

	loop := render.NewLoop(res, render.NewLineWriter(out, flags.Repeat), opts, logger)
	return loop.Run(ctx)
}
