package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/clearhull/claimwatch/internal/model"
	"github.com/clearhull/claimwatch/internal/report"
	"github.com/clearhull/claimwatch/internal/worker"
)

var processWorkers int

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process all spooled claim emails once",
	Long: `Process drains the intake spool: every captured claim email is analyzed,
checked against the registry for duplicates, scored for fraud, and reported.
Already-processed emails are skipped; failed claims stay in the spool for a
later retry.

Example:
  claimwatch process
  claimwatch process --workers 4`,
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().IntVar(&processWorkers, "workers", 1, "concurrent claims (values above 1 widen the duplicate-check race window)")
}

func runProcess(cmd *cobra.Command, args []string) error {
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var results []model.ProcessingResult
	if processWorkers > 1 {
		results, err = a.pipeline.ProcessSpoolConcurrent(ctx, a.spool, worker.NewPool(processWorkers))
	} else {
		results, err = a.pipeline.ProcessSpool(ctx, a.spool)
	}
	if err != nil && ctx.Err() == nil {
		return err
	}

	summary := report.Summarize(results, cfg.Fraud.Threshold, time.Now())
	if len(results) > 0 {
		path, err := report.WriteSummary(cfg.ReportsDir(), summary)
		if err != nil {
			return err
		}
		fmt.Printf("Summary written to %s\n", path)
	}

	fmt.Printf("Processed %d: %d completed, %d failed, %d skipped, %d duplicates, %d high fraud risk\n",
		summary.TotalProcessed, summary.Successful, summary.Failed, summary.Skipped,
		summary.Duplicates, summary.HighFraudRisk)
	return nil
}
