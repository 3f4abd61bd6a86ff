// Package config provides configuration loading, defaults, and validation
// for claimwatch.
package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// Config is the full claimwatch configuration tree.
type Config struct {
	LLM        LLMConfig        `mapstructure:"llm" yaml:"llm"`
	Cache      CacheConfig      `mapstructure:"cache" yaml:"cache"`
	Dedup      DedupConfig      `mapstructure:"dedup" yaml:"dedup"`
	Fraud      FraudConfig      `mapstructure:"fraud" yaml:"fraud"`
	Storage    StorageConfig    `mapstructure:"storage" yaml:"storage"`
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
	Processing ProcessingConfig `mapstructure:"processing" yaml:"processing"`
}

// LLMConfig configures the hosted analysis model.
type LLMConfig struct {
	// Provider selects the backend: "openai" or "" (disabled).
	Provider string        `mapstructure:"provider" yaml:"provider"`
	Model    string        `mapstructure:"model" yaml:"model"`
	APIKey   string        `mapstructure:"api_key" yaml:"api_key,omitempty"`
	BaseURL  string        `mapstructure:"base_url" yaml:"base_url,omitempty"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
	// RequestsPerSecond throttles calls to the hosted model.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	MaxTokens         int     `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// CacheConfig configures the model response cache.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled" yaml:"enabled"`
	Dir     string        `mapstructure:"dir" yaml:"dir"`
	TTL     time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// DedupConfig configures the duplicate resolution engine.
type DedupConfig struct {
	// DuplicateThreshold is the similarity ratio above which two claims are
	// flagged as similar.
	DuplicateThreshold float64 `mapstructure:"duplicate_threshold" yaml:"duplicate_threshold"`
	// SemanticSampleSize caps how many registry entries are sent to the
	// hosted model per semantic check. A registry larger than the cap is
	// truncated (and logged); this is a cost bound, not an accuracy choice.
	SemanticSampleSize int `mapstructure:"semantic_sample_size" yaml:"semantic_sample_size"`
}

// FraudConfig configures the fraud scoring engine.
type FraudConfig struct {
	// Threshold is the fraud score above which a claim gets the
	// investigation-tier recommendations.
	Threshold float64 `mapstructure:"threshold" yaml:"threshold"`
}

// StorageConfig points at the data directory. Registry, reports, and the
// intake spool all live under it.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // console or json
}

// ProcessingConfig configures continuous watch mode.
type ProcessingConfig struct {
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
}

// RegistryPath returns the path of the durable claim registry file.
func (c *Config) RegistryPath() string {
	return filepath.Join(c.Storage.DataDir, "processed_claims.json")
}

// ProcessedEmailsPath returns the path of the processed-email index file.
func (c *Config) ProcessedEmailsPath() string {
	return filepath.Join(c.Storage.DataDir, "processed_emails.json")
}

// ReportsDir returns the directory claim reports are rendered into.
func (c *Config) ReportsDir() string {
	return filepath.Join(c.Storage.DataDir, "reports")
}

// SpoolDir returns the intake spool directory for captured email envelopes.
func (c *Config) SpoolDir() string {
	return filepath.Join(c.Storage.DataDir, "spool")
}

// Validate checks value ranges that would otherwise surface as confusing
// behavior deep inside the engines.
func (c *Config) Validate() error {
	if c.Dedup.DuplicateThreshold <= 0 || c.Dedup.DuplicateThreshold > 1 {
		return fmt.Errorf("dedup.duplicate_threshold must be in (0,1], got %v", c.Dedup.DuplicateThreshold)
	}
	if c.Dedup.SemanticSampleSize < 0 {
		return fmt.Errorf("dedup.semantic_sample_size must be >= 0, got %d", c.Dedup.SemanticSampleSize)
	}
	if c.Fraud.Threshold < 0 || c.Fraud.Threshold > 1 {
		return fmt.Errorf("fraud.threshold must be in [0,1], got %v", c.Fraud.Threshold)
	}
	if c.LLM.RequestsPerSecond < 0 {
		return fmt.Errorf("llm.requests_per_second must be >= 0, got %v", c.LLM.RequestsPerSecond)
	}
	if c.Storage.DataDir == "" {
		return fmt.Errorf("storage.data_dir must not be empty")
	}
	return nil
}
