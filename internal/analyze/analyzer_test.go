package analyze

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clearhull/claimwatch/internal/llm"
	"github.com/clearhull/claimwatch/internal/model"
)

type fakeProvider struct {
	content string
	err     error
	prompts []string
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) IsAvailable(ctx context.Context) bool { return true }

func (p *fakeProvider) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	p.prompts = append(p.prompts, req.Prompt)
	if p.err != nil {
		return nil, p.err
	}
	return &llm.Response{Content: p.content, Model: "fake"}, nil
}

func TestAnalyzeStructuredResponse(t *testing.T) {
	provider := &fakeProvider{content: "```json\n" + `{
		"claim_number": "CLM-2024-001",
		"insured_party": "Nordic Shipping AS",
		"loss_date": "2024-03-15",
		"loss_location": "Port of Rotterdam",
		"claim_amount": 150000.50,
		"currency": "EUR",
		"loss_description": "Hull damage during berthing",
		"analysis_summary": "Standard hull claim",
		"key_findings": ["Berthing incident"],
		"recommendations": ["Obtain survey report"],
		"confidence_score": 0.9
	}` + "\n```"}

	a := New(provider, zap.NewNop())
	analysis, outcome := a.Analyze(context.Background(), "claim text", model.EmailContext{Subject: "Claim CLM-2024-001"})

	assert.Equal(t, model.OutcomeOK, outcome)
	assert.Equal(t, "CLM-2024-001", analysis.ClaimNumber)
	assert.Equal(t, "Nordic Shipping AS", analysis.InsuredParty)
	assert.Equal(t, 150000.50, analysis.ClaimAmount)
	assert.Equal(t, "EUR", analysis.Currency)
	assert.Equal(t, 0.9, analysis.ConfidenceScore)
}

func TestAnalyzeStringAmount(t *testing.T) {
	provider := &fakeProvider{content: `{"claim_number": "CLM-7", "claim_amount": "USD 1,500,000"}`}

	a := New(provider, zap.NewNop())
	analysis, outcome := a.Analyze(context.Background(), "text", model.EmailContext{})

	assert.Equal(t, model.OutcomeOK, outcome)
	assert.Equal(t, 1500000.0, analysis.ClaimAmount)
	// Missing fields get their sentinels.
	assert.Equal(t, "Unknown", analysis.InsuredParty)
	assert.Equal(t, "USD", analysis.Currency)
}

func TestAnalyzeUnparseableResponseDegrades(t *testing.T) {
	provider := &fakeProvider{content: "The claim CLM-555 looks like hull damage but I cannot produce JSON."}

	a := New(provider, zap.NewNop())
	analysis, outcome := a.Analyze(context.Background(), "document text", model.EmailContext{})

	assert.Equal(t, model.OutcomeDegraded, outcome)
	assert.Equal(t, "CLM-555", analysis.ClaimNumber)
	assert.Equal(t, 0.5, analysis.ConfidenceScore)
	assert.Contains(t, analysis.Recommendations[0], "manually")
}

func TestAnalyzeProviderErrorFails(t *testing.T) {
	provider := &fakeProvider{err: errors.New("upstream down")}

	a := New(provider, zap.NewNop())
	analysis, outcome := a.Analyze(context.Background(), "Claim Number: CLM-42 hull damage", model.EmailContext{})

	assert.Equal(t, model.OutcomeFailed, outcome)
	// Claim identity still derives from the document.
	assert.Equal(t, "CLM-42", analysis.ClaimNumber)
	assert.Equal(t, 0.0, analysis.ConfidenceScore)
}

func TestAnalyzeNilProviderFails(t *testing.T) {
	a := New(nil, zap.NewNop())
	analysis, outcome := a.Analyze(context.Background(), "some claim text", model.EmailContext{})

	assert.Equal(t, model.OutcomeFailed, outcome)
	assert.NotEmpty(t, analysis.ClaimNumber)
}

func TestAnalyzeTruncatesContent(t *testing.T) {
	provider := &fakeProvider{content: `{"claim_number": "CLM-1"}`}
	a := New(provider, zap.NewNop())

	long := strings.Repeat("x", maxContentLen+5000)
	_, outcome := a.Analyze(context.Background(), long, model.EmailContext{})

	assert.Equal(t, model.OutcomeOK, outcome)
	require.Len(t, provider.prompts, 1)
	assert.Less(t, len(provider.prompts[0]), maxContentLen+2000)
}

func TestExtractClaimNumber(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Claim Number: CLM-2024-0042 attached", "CLM-2024-0042"},
		{"Re: Claim: ABC-123", "ABC-123"},
		{"reference #MAR12345 enclosed", "MAR12345"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractClaimNumber(tt.text), "text: %s", tt.text)
	}
}

func TestExtractClaimNumberFallbackIsDeterministic(t *testing.T) {
	a := ExtractClaimNumber("no identifiers here at all")
	b := ExtractClaimNumber("no identifiers here at all")

	assert.Equal(t, a, b)
	assert.Regexp(t, `^CLM-\d{5}$`, a)
}
