// cryptoticker prints a one-line price ticker for a list of assets.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cryptoticker/config"
	"cryptoticker/internal/ticker/runner"
	"cryptoticker/logger"
	"cryptoticker/pkg/coinmarketcap"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type runFunc func(ctx context.Context, cfg *config.Config, flags runner.Flags) error

func main() {
	coinmarketcap.UserAgent = "cryptoticker/" + version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(run).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(fn runFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cryptoticker <TICKER>...",
		Short:   "Print a one-line cryptocurrency price ticker",
		Long:    "Fetch USD prices for one or more assets and print them on a single line,\noptionally refreshing in place at a fixed interval.",
		Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()

			// argument errors end here; runtime failures don't need usage
			cmd.SilenceUsage = true

			configFile, _ := flags.GetString("config")
			var (
				cfg *config.Config
				err error
			)
			if configFile != "" {
				cfg, err = config.LoadFromFile(configFile)
			} else {
				cfg, err = config.Load()
			}
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			repeat, _ := flags.GetBool("interval")
			debug, _ := flags.GetBool("debug")
			verbose, _ := flags.GetBool("verbose")
			noCache, _ := flags.GetBool("no-cache")

			interval := cfg.Ticker.Interval
			if flags.Changed("interval-time") {
				secs, _ := flags.GetUint64("interval-time")
				interval = time.Duration(secs) * time.Second
			}

			return fn(cmd.Context(), cfg, runner.Flags{
				Assets:   args,
				Repeat:   repeat,
				Interval: interval,
				Debug:    debug || verbose,
				NoCache:  noCache,
			})
		},
	}

	cmd.Flags().BoolP("interval", "i", false, "refresh the ticker line in place until interrupted")
	cmd.Flags().Uint64P("interval-time", "t", 90, "seconds to wait between refreshes")
	cmd.Flags().BoolP("debug", "d", false, "print error details instead of placeholders")
	cmd.Flags().BoolP("verbose", "v", false, "alias for --debug")
	cmd.Flags().MarkHidden("verbose")
	cmd.Flags().Bool("no-cache", false, "always fetch from the API")
	cmd.Flags().String("config", "", "config file path (default: ./config/config.yaml)")

	// usage errors go to stdout, stderr is reserved for logs
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stdout)

	return cmd
}

func run(ctx context.Context, cfg *config.Config, flags runner.Flags) error {
	if flags.Debug {
		cfg.Log.Level = "debug"
	}

	// zap logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	if err := runner.StartTicker(ctx, cfg, flags, os.Stdout, log); err != nil {
		log.Error("ticker failed", zap.Error(err))
		return err
	}
	if flags.Repeat {
		fmt.Fprintln(os.Stdout)
	}
	return nil
}
