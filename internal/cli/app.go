package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/clearhull/claimwatch/internal/analyze"
	"github.com/clearhull/claimwatch/internal/cache"
	"github.com/clearhull/claimwatch/internal/config"
	"github.com/clearhull/claimwatch/internal/dedup"
	"github.com/clearhull/claimwatch/internal/extract"
	"github.com/clearhull/claimwatch/internal/fraud"
	"github.com/clearhull/claimwatch/internal/llm"
	"github.com/clearhull/claimwatch/internal/pipeline"
	"github.com/clearhull/claimwatch/internal/registry"
	"github.com/clearhull/claimwatch/internal/report"
)

// app bundles everything a processing command needs.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	pipeline *pipeline.Pipeline
	spool    *pipeline.Spool
	claims   *registry.Registry
}

// buildApp wires the full pipeline from configuration.
func buildApp(cfg *config.Config, logger *zap.Logger) (*app, error) {
	provider, err := llm.NewProvider(llm.ConfigFrom(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}
	if provider == nil {
		logger.Warn("no model provider configured, engines run degraded (set llm.provider)")
	} else if cfg.Cache.Enabled {
		store := cache.NewStore(cfg.Cache.Dir, cfg.Cache.TTL)
		provider = llm.NewCachedProvider(provider, store, cfg.Cache.TTL, logger)
	}

	claims, err := registry.Open(cfg.RegistryPath(), logger)
	if err != nil {
		return nil, err
	}
	emails, err := registry.OpenProcessedEmails(cfg.ProcessedEmailsPath(), logger)
	if err != nil {
		return nil, err
	}

	var semantic *dedup.SemanticMatcher
	if provider != nil {
		semantic = dedup.NewSemanticMatcher(provider, cfg.Dedup.SemanticSampleSize, logger)
	}

	p := pipeline.New(pipeline.Options{
		Extractor: extract.NewPlainText(),
		Analyzer:  analyze.New(provider, logger),
		Resolver:  dedup.NewResolver(cfg.Dedup.DuplicateThreshold, semantic, logger),
		Scorer:    fraud.NewScorer(provider, cfg.Fraud.Threshold, logger),
		Claims:    claims,
		Emails:    emails,
		Renderer:  report.NewRenderer(cfg.ReportsDir(), logger),
	}, logger)

	return &app{
		cfg:      cfg,
		logger:   logger,
		pipeline: p,
		spool:    pipeline.NewSpool(cfg.SpoolDir(), logger),
		claims:   claims,
	}, nil
}
