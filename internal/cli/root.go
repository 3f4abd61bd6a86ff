// Package cli implements the claimwatch command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clearhull/claimwatch/internal/config"
	"github.com/clearhull/claimwatch/internal/logging"
)

const version = "0.2.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "claimwatch",
	Short: "Claimwatch - marine claim intake, de-duplication and fraud triage",
	Long: `Claimwatch processes captured marine insurance claim emails: it extracts
attachment text, runs hosted-model claim analysis, decides whether each
claim duplicates a registered one, scores it for fraud likelihood, and
renders a per-claim report.

Decisions are persisted to an append-only claim registry, so reprocessing
the same emails is safe and duplicates never pollute the registry.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("claimwatch v" + version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.claimwatch/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the effective configuration: explicit --config path,
// or the default location if present, plus CLAIMWATCH_* env overrides.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			candidate := home + "/.claimwatch/config.yaml"
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Log.Level, cfg.Log.Format)
}
