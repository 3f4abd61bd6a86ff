package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default returns the built-in configuration. DataDir resolves under the
// user's home directory; callers override it via config file or env.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".claimwatch")

	return &Config{
		LLM: LLMConfig{
			Provider:          "", // Disabled until configured
			Model:             "gpt-4o-mini",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 0.5,
			MaxTokens:         2048,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     filepath.Join(base, "cache"),
			TTL:     24 * time.Hour,
		},
		Dedup: DedupConfig{
			DuplicateThreshold: 0.8,
			SemanticSampleSize: 10,
		},
		Fraud: FraudConfig{
			Threshold: 0.7,
		},
		Storage: StorageConfig{
			DataDir: filepath.Join(base, "data"),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Processing: ProcessingConfig{
			Interval: time.Minute,
		},
	}
}
