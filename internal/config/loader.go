package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for all settings.
const envPrefix = "CLAIMWATCH"

// newViper builds a viper instance with the project conventions: YAML files,
// CLAIMWATCH_ env prefix, automatic env binding, and "." → "_" key mapping so
// that "llm.api_key" resolves to CLAIMWATCH_LLM_API_KEY.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// setDefaults registers every key with viper. Unmarshal only resolves keys
// viper knows about, so env-only overrides need the full key set registered.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.api_key", d.LLM.APIKey)
	v.SetDefault("llm.base_url", d.LLM.BaseURL)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("llm.requests_per_second", d.LLM.RequestsPerSecond)
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)

	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.ttl", d.Cache.TTL)

	v.SetDefault("dedup.duplicate_threshold", d.Dedup.DuplicateThreshold)
	v.SetDefault("dedup.semantic_sample_size", d.Dedup.SemanticSampleSize)

	v.SetDefault("fraud.threshold", d.Fraud.Threshold)

	v.SetDefault("storage.data_dir", d.Storage.DataDir)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("processing.interval", d.Processing.Interval)
}

// Load reads the YAML file at configPath (optional — pass "" to rely on env
// vars and defaults only), merges CLAIMWATCH_* environment overrides on top
// of the defaults, and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return nil, fmt.Errorf("config: read %q: %w", configPath, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
