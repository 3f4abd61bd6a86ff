package dedup

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clearhull/claimwatch/internal/llm"
	"github.com/clearhull/claimwatch/internal/model"
)

type scriptedProvider struct {
	content string
	err     error
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) IsAvailable(ctx context.Context) bool { return true }

func (p *scriptedProvider) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &llm.Response{Content: p.content}, nil
}

func TestResolveEmptyRegistry(t *testing.T) {
	r := NewResolver(0.8, nil, zap.NewNop())

	verdict := r.Resolve(context.Background(), claimFixture(), nil)

	assert.False(t, verdict.IsDuplicate)
	assert.Equal(t, 0.0, verdict.Confidence)
	assert.Equal(t, model.OutcomeOK, verdict.Outcome)
}

func TestResolveExactMatch(t *testing.T) {
	r := NewResolver(0.8, nil, zap.NewNop())

	registered := []Candidate{{ID: "CLM-2024-001", Analysis: claimFixture()}}
	verdict := r.Resolve(context.Background(), claimFixture(), registered)

	assert.True(t, verdict.IsDuplicate)
	assert.Equal(t, 1.0, verdict.Confidence)
	assert.Equal(t, "CLM-2024-001", verdict.DuplicateOf)
	assert.Equal(t, model.MatchExact, verdict.MatchType)
	assert.Equal(t, model.OutcomeOK, verdict.Outcome)
}

func TestResolveSimilarMatch(t *testing.T) {
	r := NewResolver(0.8, nil, zap.NewNop())

	existing := claimFixture()
	current := claimFixture()
	current.LossDescription = "Hull damage while berthing" // Reworded, fingerprint differs via nothing — description is non-identity
	current.ClaimAmount = 150000.51                        // Break the fingerprint

	verdict := r.Resolve(context.Background(), current, []Candidate{{ID: "CLM-2024-001", Analysis: existing}})

	require.True(t, verdict.IsDuplicate)
	assert.Equal(t, model.MatchSimilar, verdict.MatchType)
	assert.Greater(t, verdict.Confidence, 0.8)
	assert.Less(t, verdict.Confidence, 1.0)
}

func TestResolveBelowThresholdNotDuplicate(t *testing.T) {
	r := NewResolver(0.8, nil, zap.NewNop())

	other := model.ClaimAnalysis{
		ClaimNumber:     "CLM-9999",
		InsuredParty:    "Pacific Tankers Ltd",
		LossDate:        "2023-01-02",
		LossLocation:    "Singapore Strait",
		ClaimAmount:     75000,
		LossDescription: "Cargo water ingress in hold 3",
	}

	verdict := r.Resolve(context.Background(), claimFixture(), []Candidate{{ID: "CLM-9999", Analysis: other}})

	assert.False(t, verdict.IsDuplicate)
	assert.Zero(t, verdict.TotalMatches)
	assert.Equal(t, model.OutcomeOK, verdict.Outcome)
}

func TestResolveExactWinsTieOverLaterLayers(t *testing.T) {
	// The same registered claim matches both exactly (1.0) and semantically
	// (1.0): the earlier exact candidate must win the tie.
	provider := &scriptedProvider{content: `{"matching_claims": [{"claim_id": "CLM-2024-001", "similarity_score": 1.0}]}`}
	sem := NewSemanticMatcher(provider, 10, zap.NewNop())
	r := NewResolver(0.8, sem, zap.NewNop())

	verdict := r.Resolve(context.Background(), claimFixture(), []Candidate{{ID: "CLM-2024-001", Analysis: claimFixture()}})

	require.True(t, verdict.IsDuplicate)
	assert.Equal(t, model.MatchExact, verdict.MatchType)
	assert.Equal(t, 1.0, verdict.Confidence)
	// Exact, similar and semantic all matched.
	assert.Equal(t, 3, verdict.TotalMatches)
}

func TestResolveSemanticFailureDegrades(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("model unavailable")}
	sem := NewSemanticMatcher(provider, 10, zap.NewNop())
	r := NewResolver(0.8, sem, zap.NewNop())

	other := model.ClaimAnalysis{ClaimNumber: "CLM-9999", InsuredParty: "Pacific Tankers Ltd", LossDescription: "Cargo water ingress"}
	verdict := r.Resolve(context.Background(), claimFixture(), []Candidate{{ID: "CLM-9999", Analysis: other}})

	// Fail open: an errored semantic layer never declares a duplicate.
	assert.False(t, verdict.IsDuplicate)
	assert.Equal(t, model.OutcomeDegraded, verdict.Outcome)
	assert.NotEmpty(t, verdict.Err)
}

func TestResolveSemanticFailureKeepsPureLayerMatches(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("model unavailable")}
	sem := NewSemanticMatcher(provider, 10, zap.NewNop())
	r := NewResolver(0.8, sem, zap.NewNop())

	verdict := r.Resolve(context.Background(), claimFixture(), []Candidate{{ID: "CLM-2024-001", Analysis: claimFixture()}})

	assert.True(t, verdict.IsDuplicate)
	assert.Equal(t, 1.0, verdict.Confidence)
	assert.Equal(t, model.OutcomeDegraded, verdict.Outcome)
}

func TestResolveInvariantDuplicateImpliesMatches(t *testing.T) {
	r := NewResolver(0.8, nil, zap.NewNop())

	verdict := r.Resolve(context.Background(), claimFixture(), []Candidate{{ID: "CLM-2024-001", Analysis: claimFixture()}})
	assert.Equal(t, verdict.IsDuplicate, verdict.TotalMatches > 0)
	assert.Len(t, verdict.AllMatches, verdict.TotalMatches)
}
