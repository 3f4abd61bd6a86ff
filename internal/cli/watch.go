package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var watchInterval time.Duration

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Continuously process the spool at a fixed interval",
	Long: `Watch drains the intake spool, then re-checks for new claim emails on
every interval tick until interrupted. In-flight claims always finish before
shutdown so no claim is left half-registered.

Example:
  claimwatch watch
  claimwatch watch --interval 30s`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "poll interval (default: processing.interval from config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	a, err := buildApp(cfg, logger)
	if err != nil {
		return err
	}

	interval := watchInterval
	if interval <= 0 {
		interval = cfg.Processing.Interval
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = a.pipeline.Watch(ctx, a.spool, interval)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
