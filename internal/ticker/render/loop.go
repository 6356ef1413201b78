package render

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cryptoticker/internal/ticker"

	"go.uber.org/zap"
)

// Resolver returns a fresh-enough snapshot for one asset.
type Resolver interface {
	Resolve(ctx context.Context, id string, useCache bool, ttl time.Duration) (*ticker.Currency, error)
}

// Options controls a ticker run.
type Options struct {
	Assets     []string
	Repeat     bool
	Interval   time.Duration
	UseCache   bool
	TTL        time.Duration
	Debug      bool
	ShortNames ShortNames
}

type Loop struct {
	resolver Resolver
	out      *LineWriter
	opts     Options
	logger   *zap.Logger
}

func NewLoop(resolver Resolver, out *LineWriter, opts Options, logger *zap.Logger) *Loop {
	if opts.ShortNames == nil {
		opts.ShortNames = NewShortNames(nil)
	}
	return &Loop{
		resolver: resolver,
		out:      out,
		opts:     opts,
		logger:   logger,
	}
}

// Run renders one pass, or repeats forever when Repeat is set.
// In repeat mode it returns nil once ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	for pass := 1; ; pass++ {
		line := l.Pass(ctx)
		if err := l.out.WriteLine(line); err != nil {
			return fmt.Errorf("write ticker line: %w", err)
		}
		l.logger.Debug("rendered pass", zap.Int("pass", pass), zap.Int("assets", len(l.opts.Assets)))

		if !l.opts.Repeat {
			return nil
		}
		if err := sleep(ctx, l.opts.Interval); err != nil {
			l.logger.Debug("ticker stopped", zap.Int("passes", pass), zap.Error(err))
			return nil
		}
	}
}

// Pass resolves every asset in order and joins their tokens into one line.
// A failing asset never aborts the pass.
func (l *Loop) Pass(ctx context.Context) string {
	var b strings.Builder
	for _, id := range l.opts.Assets {
		b.WriteString(l.token(ctx, id))
	}
	return b.String()
}

func (l *Loop) token(ctx context.Context, id string) string {
	c, err := l.resolver.Resolve(ctx, id, l.opts.UseCache, l.opts.TTL)
	if err != nil {
		l.logger.Debug("resolve failed", zap.String("asset", id), zap.Stringer("kind", ticker.KindOf(err)), zap.Error(err))
		if l.opts.Debug {
			return err.Error() + "\n"
		}
		return id + ":error "
	}
	return l.opts.ShortNames.Display(id) + ":" + c.PriceOrNull() + " "
}

// sleep blocks for d or until ctx is done. A zero d only checks ctx.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
