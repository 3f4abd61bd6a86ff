package fraud

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/clearhull/claimwatch/internal/llm"
	"github.com/clearhull/claimwatch/internal/model"
)

const (
	// Blend weights for the final score.
	modelWeight = 0.6
	ruleWeight  = 0.4

	// neutralModelScore stands in when the model pass is unavailable.
	neutralModelScore = 0.5

	maxRedFlags        = 10
	maxRecommendations = 5
)

const fraudSystemPrompt = "You are a fraud detection specialist in marine insurance. Respond only with the requested JSON."

const fraudInstructions = `Analyze this claim for potential fraud indicators.

STRUCTURE YOUR FRAUD ANALYSIS AS JSON:

{
  "fraud_indicators": [
    "List of specific fraud indicators found",
    "Each indicator with brief explanation"
  ],
  "red_flags": [
    "List of red flags requiring investigation"
  ],
  "confidence": 0.75,
  "risk_level": "LOW/MEDIUM/HIGH",
  "recommendations": [
    "Specific investigation steps",
    "Verification requirements"
  ]
}

Look for patterns like: inflated values, duplicate claims, staged incidents, document tampering, suspicious timing, etc.`

// Scorer blends the rule pass with the hosted-model assessment.
type Scorer struct {
	provider  llm.Provider // nil means rules-only with a neutral model score
	threshold float64
	now       func() time.Time
	logger    *zap.Logger
}

// NewScorer creates a Scorer. threshold is the score above which the
// investigation-tier recommendations apply.
func NewScorer(provider llm.Provider, threshold float64, logger *zap.Logger) *Scorer {
	return &Scorer{provider: provider, threshold: threshold, now: time.Now, logger: logger}
}

// WithClock overrides the time source. Tests use it to pin the recent-loss
// rule.
func (s *Scorer) WithClock(now func() time.Time) *Scorer {
	s.now = now
	return s
}

// modelAssessment is the parsed model response.
type modelAssessment struct {
	FraudIndicators []string `json:"fraud_indicators"`
	Confidence      *float64 `json:"confidence"`
	Recommendations []string `json:"recommendations"`
}

// Assess scores one claim. It never returns an error: a model failure
// substitutes the neutral score and marks the assessment degraded, so a
// claim is never left unscored.
func (s *Scorer) Assess(ctx context.Context, analysis model.ClaimAnalysis, email model.EmailContext) model.FraudAssessment {
	rules := EvaluateRules(analysis, email, s.now())

	outcome := model.OutcomeOK
	modelScore := neutralModelScore
	var ai modelAssessment

	switch {
	case s.provider == nil:
		outcome = model.OutcomeDegraded
	default:
		parsed, err := s.modelPass(ctx, analysis, email)
		if err != nil {
			s.logger.Warn("model fraud pass failed, using neutral score", zap.Error(err))
			outcome = model.OutcomeDegraded
		} else {
			ai = parsed
			if ai.Confidence != nil {
				modelScore = clamp01(*ai.Confidence)
			}
		}
	}

	score := modelScore*modelWeight + rules.Score*ruleWeight
	if score > 1.0 {
		score = 1.0
	}

	return model.FraudAssessment{
		FraudScore:      score,
		RiskLevel:       model.RiskLevelForScore(score),
		RuleScore:       rules.Score,
		RedFlags:        buildRedFlags(rules.Triggers, ai.FraudIndicators),
		Recommendations: buildRecommendations(score, s.threshold, ai.Recommendations),
		Outcome:         outcome,
	}
}

func (s *Scorer) modelPass(ctx context.Context, analysis model.ClaimAnalysis, email model.EmailContext) (modelAssessment, error) {
	analysisJSON, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return modelAssessment{}, fmt.Errorf("marshal analysis: %w", err)
	}

	prompt := fmt.Sprintf(`%s

CLAIM ANALYSIS DATA:
%s

EMAIL CONTEXT:
- Subject: %s
- Sender: %s
- Date: %s

Analyze this marine insurance claim for potential fraud indicators and provide a detailed assessment.`,
		fraudInstructions, analysisJSON, email.Subject, email.SenderEmail, email.Date)

	resp, err := s.provider.Complete(ctx, llm.Request{System: fraudSystemPrompt, Prompt: prompt})
	if err != nil {
		return modelAssessment{}, fmt.Errorf("fraud model pass: %w", err)
	}

	data, err := llm.ParseFencedJSON(resp.Content)
	if err != nil {
		return modelAssessment{}, fmt.Errorf("fraud model response: %w", err)
	}

	var parsed modelAssessment
	if err := json.Unmarshal(data, &parsed); err != nil {
		return modelAssessment{}, fmt.Errorf("fraud model response: %w", err)
	}
	return parsed, nil
}

// buildRedFlags lists the triggered rules first, then the model's
// indicators, capped at maxRedFlags.
func buildRedFlags(triggers, indicators []string) []string {
	flags := make([]string, 0, len(triggers)+len(indicators))
	flags = append(flags, triggers...)
	flags = append(flags, indicators...)
	if len(flags) > maxRedFlags {
		flags = flags[:maxRedFlags]
	}
	return flags
}

// buildRecommendations picks the tier for the score, appends the model's
// suggestions, and deduplicates preserving first occurrence.
func buildRecommendations(score, threshold float64, aiRecs []string) []string {
	var recs []string
	switch {
	case score > threshold:
		recs = []string{
			"Immediate investigation required",
			"Contact insured party for verification",
			"Review supporting documentation carefully",
			"Consider involving special investigations unit",
		}
	case score > 0.5:
		recs = []string{
			"Enhanced documentation review recommended",
			"Verify loss details with independent sources",
			"Check claim history of insured party",
		}
	default:
		recs = []string{"Standard processing procedures applicable"}
	}
	recs = append(recs, aiRecs...)

	seen := make(map[string]bool, len(recs))
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		if seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
		if len(out) == maxRecommendations {
			break
		}
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
