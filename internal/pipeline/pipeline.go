// Package pipeline orchestrates per-claim processing: extract, analyze,
// duplicate check, fraud check, report, register. Engine failures degrade
// inside the engines; the only failures that abort a claim are persistence
// and report writes, and an aborted claim is never marked registered or
// processed, so a later run retries it.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/clearhull/claimwatch/internal/analyze"
	"github.com/clearhull/claimwatch/internal/dedup"
	"github.com/clearhull/claimwatch/internal/extract"
	"github.com/clearhull/claimwatch/internal/fraud"
	"github.com/clearhull/claimwatch/internal/model"
	"github.com/clearhull/claimwatch/internal/registry"
	"github.com/clearhull/claimwatch/internal/report"
)

// Stage names recorded on failed results.
const (
	StageReport   = "report"
	StageRegister = "register"
)

// Pipeline wires the engines around the claim registry.
type Pipeline struct {
	extractor extract.Extractor
	analyzer  *analyze.Analyzer
	resolver  *dedup.Resolver
	scorer    *fraud.Scorer
	claims    *registry.Registry
	emails    *registry.ProcessedEmails
	renderer  *report.Renderer
	now       func() time.Time
	logger    *zap.Logger
}

// Options collects the pipeline collaborators.
type Options struct {
	Extractor extract.Extractor
	Analyzer  *analyze.Analyzer
	Resolver  *dedup.Resolver
	Scorer    *fraud.Scorer
	Claims    *registry.Registry
	Emails    *registry.ProcessedEmails
	Renderer  *report.Renderer
}

// New creates a Pipeline.
func New(opts Options, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		extractor: opts.Extractor,
		analyzer:  opts.Analyzer,
		resolver:  opts.Resolver,
		scorer:    opts.Scorer,
		claims:    opts.Claims,
		emails:    opts.Emails,
		renderer:  opts.Renderer,
		now:       time.Now,
		logger:    logger,
	}
}

// WithClock overrides the time source.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// ProcessEnvelope runs one captured claim email through the full pipeline.
func (p *Pipeline) ProcessEnvelope(ctx context.Context, env model.Envelope) model.ProcessingResult {
	email := env.Email
	result := model.ProcessingResult{
		EmailID:     email.ID,
		Subject:     email.Subject,
		SenderEmail: email.SenderEmail,
		ProcessedAt: p.now(),
	}

	if p.emails.Seen(email) {
		p.logger.Info("email already processed, skipping", zap.String("email_id", email.ID))
		result.Status = model.StatusSkipped
		return result
	}

	p.logger.Info("processing claim email",
		zap.String("email_id", email.ID),
		zap.String("subject", email.Subject))

	// Extracted: per-attachment failures degrade to empty content inside.
	content := extract.Content(env, p.extractor, p.logger)

	// Analyzed: never fails, worst case a default analysis.
	analysis, analysisOutcome := p.analyzer.Analyze(ctx, content, email)
	result.ClaimNumber = analysis.ClaimNumber

	// DupChecked: resolved against a snapshot, no registry lock held.
	verdict := p.resolver.Resolve(ctx, analysis, p.registeredCandidates())
	result.IsDuplicate = verdict.IsDuplicate
	result.DuplicateOf = verdict.DuplicateOf

	// FraudChecked.
	assessment := p.scorer.Assess(ctx, analysis, email)
	result.FraudScore = assessment.FraudScore

	// Reported.
	reportPath, err := p.renderer.Render(report.Report{
		Email:     email,
		Analysis:  analysis,
		Duplicate: verdict,
		Fraud:     assessment,
	})
	if err != nil {
		p.logger.Error("report rendering failed",
			zap.String("claim_number", analysis.ClaimNumber),
			zap.Error(err))
		result.Status = model.StatusFailed
		result.FailedStage = StageReport
		return result
	}
	result.ReportPath = reportPath

	// Registered: duplicates must never create registry entries.
	if !verdict.IsDuplicate {
		entry := model.RegistryEntry{
			EmailID:         email.ID,
			Subject:         email.Subject,
			SenderEmail:     email.SenderEmail,
			ProcessedAt:     result.ProcessedAt.UTC().Format(time.RFC3339),
			FraudScore:      assessment.FraudScore,
			AnalysisSummary: analysis.AnalysisSummary,
			Analysis:        analysis,
		}
		inserted, err := p.claims.Register(analysis.ClaimNumber, entry)
		if err != nil {
			p.logger.Error("claim registration failed, will retry on a later run",
				zap.String("claim_number", analysis.ClaimNumber),
				zap.Error(err))
			result.Status = model.StatusFailed
			result.FailedStage = StageRegister
			return result
		}
		if !inserted {
			// Same claim number, different enough content to dodge all three
			// duplicate layers. Keep the first entry, flag the collision.
			p.logger.Warn("claim number already registered with different content",
				zap.String("claim_number", analysis.ClaimNumber))
		}
	}

	if err := p.emails.Mark(email); err != nil {
		p.logger.Error("marking email processed failed, will retry on a later run",
			zap.String("email_id", email.ID),
			zap.Error(err))
		result.Status = model.StatusFailed
		result.FailedStage = StageRegister
		return result
	}

	result.Status = model.StatusCompleted
	p.logResult(result, analysisOutcome, verdict, assessment)
	return result
}

func (p *Pipeline) registeredCandidates() []dedup.Candidate {
	snapshot := p.claims.Snapshot()
	candidates := make([]dedup.Candidate, 0, len(snapshot))
	for _, reg := range snapshot {
		candidates = append(candidates, dedup.Candidate{ID: reg.ClaimID, Analysis: reg.Entry.Analysis})
	}
	return candidates
}

func (p *Pipeline) logResult(result model.ProcessingResult, analysisOutcome model.Outcome, verdict model.DuplicateVerdict, assessment model.FraudAssessment) {
	p.logger.Info("claim processed",
		zap.String("claim_number", result.ClaimNumber),
		zap.String("status", string(result.Status)),
		zap.Bool("is_duplicate", result.IsDuplicate),
		zap.String("duplicate_of", result.DuplicateOf),
		zap.Float64("fraud_score", result.FraudScore),
		zap.String("risk_level", string(assessment.RiskLevel)),
		zap.String("analysis_outcome", string(analysisOutcome)),
		zap.String("dedup_outcome", string(verdict.Outcome)),
		zap.String("fraud_outcome", string(assessment.Outcome)),
		zap.String("report", result.ReportPath))
}
