package dedup

import (
	"context"

	"go.uber.org/zap"

	"github.com/clearhull/claimwatch/internal/model"
)

// Candidate is one registered claim as seen by the duplicate layers:
// its registry ID plus the analysis fields compared against.
type Candidate struct {
	ID       string
	Analysis model.ClaimAnalysis
}

// Resolver merges the three duplicate detection layers into one verdict.
type Resolver struct {
	threshold float64
	semantic  *SemanticMatcher // nil disables the semantic layer
	logger    *zap.Logger
}

// NewResolver creates a resolver. threshold is the similarity ratio a fuzzy
// match must exceed; semantic may be nil.
func NewResolver(threshold float64, semantic *SemanticMatcher, logger *zap.Logger) *Resolver {
	return &Resolver{threshold: threshold, semantic: semantic, logger: logger}
}

// Resolve decides whether current duplicates any registered claim.
//
// The exact and similarity layers are pure and cannot fail. A semantic-layer
// failure degrades the verdict: the other layers' candidates stand, the
// outcome is marked degraded, and no claim is called a duplicate on the
// strength of an error. Resolve never returns an error.
func (r *Resolver) Resolve(ctx context.Context, current model.ClaimAnalysis, registered []Candidate) model.DuplicateVerdict {
	if len(registered) == 0 {
		return model.DuplicateVerdict{Outcome: model.OutcomeOK}
	}

	exact := r.exactMatches(current, registered)
	similar := r.similarMatches(current, registered)

	outcome := model.OutcomeOK
	errMsg := ""
	var semantic []model.MatchCandidate
	if r.semantic != nil {
		var err error
		semantic, err = r.semantic.Check(ctx, current, registered)
		if err != nil {
			r.logger.Warn("semantic layer failed, verdict degraded", zap.Error(err))
			outcome = model.OutcomeDegraded
			errMsg = err.Error()
		}
	}

	all := make([]model.MatchCandidate, 0, len(exact)+len(similar)+len(semantic))
	all = append(all, exact...)
	all = append(all, similar...)
	all = append(all, semantic...)

	if len(all) == 0 {
		return model.DuplicateVerdict{Outcome: outcome, Err: errMsg}
	}

	// Highest confidence wins; ties keep the earlier candidate, so the
	// exact layer beats later layers at equal confidence.
	best := all[0]
	for _, m := range all[1:] {
		if m.Confidence > best.Confidence {
			best = m
		}
	}

	return model.DuplicateVerdict{
		IsDuplicate:  true,
		Confidence:   best.Confidence,
		DuplicateOf:  best.ClaimID,
		MatchType:    best.MatchType,
		AllMatches:   all,
		TotalMatches: len(all),
		Outcome:      outcome,
		Err:          errMsg,
	}
}

func (r *Resolver) exactMatches(current model.ClaimAnalysis, registered []Candidate) []model.MatchCandidate {
	fp := Fingerprint(current)

	var matches []model.MatchCandidate
	for _, c := range registered {
		if Fingerprint(c.Analysis) == fp {
			matches = append(matches, model.MatchCandidate{
				ClaimID:        c.ID,
				MatchType:      model.MatchExact,
				Confidence:     1.0,
				MatchingFields: []string{"full_claim_fingerprint"},
			})
		}
	}
	return matches
}

func (r *Resolver) similarMatches(current model.ClaimAnalysis, registered []Candidate) []model.MatchCandidate {
	text := ComparisonText(current)

	var matches []model.MatchCandidate
	for _, c := range registered {
		similarity := Similarity(text, ComparisonText(c.Analysis))
		if similarity > r.threshold {
			matches = append(matches, model.MatchCandidate{
				ClaimID:        c.ID,
				MatchType:      model.MatchSimilar,
				Confidence:     similarity,
				MatchingFields: []string{"claim_content"},
			})
		}
	}
	return matches
}
