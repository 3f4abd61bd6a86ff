package dedup

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clearhull/claimwatch/internal/llm"
	"github.com/clearhull/claimwatch/internal/model"
)

type recordingProvider struct {
	content string
	prompt  string
}

func (p *recordingProvider) Name() string { return "recording" }

func (p *recordingProvider) IsAvailable(ctx context.Context) bool { return true }

func (p *recordingProvider) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	p.prompt = req.Prompt
	return &llm.Response{Content: p.content}, nil
}

func TestSemanticCheckEmptyRegistry(t *testing.T) {
	m := NewSemanticMatcher(&recordingProvider{}, 10, zap.NewNop())

	candidates, err := m.Check(context.Background(), claimFixture(), nil)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestSemanticCheckParsesMatches(t *testing.T) {
	provider := &recordingProvider{content: "```json\n" + `{
		"is_duplicate": true,
		"confidence": 0.85,
		"matching_claims": [
			{"claim_id": "CLM-1", "similarity_score": 0.92, "matching_fields": ["amount", "dates"]},
			{"claim_id": "CLM-GHOST", "similarity_score": 0.99}
		]
	}` + "\n```"}
	m := NewSemanticMatcher(provider, 10, zap.NewNop())

	registered := []Candidate{
		{ID: "CLM-1", Analysis: model.ClaimAnalysis{ClaimNumber: "CLM-1"}},
		{ID: "CLM-2", Analysis: model.ClaimAnalysis{ClaimNumber: "CLM-2"}},
	}

	candidates, err := m.Check(context.Background(), claimFixture(), registered)
	require.NoError(t, err)

	// CLM-GHOST is not registered and must be dropped.
	require.Len(t, candidates, 1)
	assert.Equal(t, "CLM-1", candidates[0].ClaimID)
	assert.Equal(t, model.MatchAIDetected, candidates[0].MatchType)
	assert.Equal(t, 0.92, candidates[0].Confidence)
	assert.Equal(t, []string{"amount", "dates"}, candidates[0].MatchingFields)
}

func TestSemanticCheckDefaultConfidence(t *testing.T) {
	provider := &recordingProvider{content: `{"matching_claims": [{"claim_id": "CLM-1"}]}`}
	m := NewSemanticMatcher(provider, 10, zap.NewNop())

	registered := []Candidate{{ID: "CLM-1"}}
	candidates, err := m.Check(context.Background(), claimFixture(), registered)
	require.NoError(t, err)

	require.Len(t, candidates, 1)
	assert.Equal(t, 0.7, candidates[0].Confidence)
	assert.Equal(t, []string{"ai_analysis"}, candidates[0].MatchingFields)
}

func TestSemanticCheckSamplesLargeRegistry(t *testing.T) {
	provider := &recordingProvider{content: `{"matching_claims": []}`}
	m := NewSemanticMatcher(provider, 3, zap.NewNop())

	var registered []Candidate
	for i := 0; i < 8; i++ {
		registered = append(registered, Candidate{
			ID:       fmt.Sprintf("CLM-%03d", i),
			Analysis: model.ClaimAnalysis{ClaimNumber: fmt.Sprintf("CLM-%03d", i)},
		})
	}

	_, err := m.Check(context.Background(), claimFixture(), registered)
	require.NoError(t, err)

	// Only the first sampleSize claims appear in the prompt.
	for i := 0; i < 3; i++ {
		assert.Contains(t, provider.prompt, fmt.Sprintf("CLM-%03d", i))
	}
	for i := 3; i < 8; i++ {
		assert.NotContains(t, provider.prompt, fmt.Sprintf("CLM-%03d", i))
	}
}

func TestSemanticCheckUnparseableResponse(t *testing.T) {
	provider := &recordingProvider{content: "I think claim one matches."}
	m := NewSemanticMatcher(provider, 10, zap.NewNop())

	_, err := m.Check(context.Background(), claimFixture(), []Candidate{{ID: "CLM-1"}})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "semantic result"))
}
