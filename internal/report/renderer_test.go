package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clearhull/claimwatch/internal/model"
)

func reportFixture() Report {
	return Report{
		Email: model.EmailContext{
			ID:          "email-1",
			Subject:     "Claim submission CLM-2024-001",
			SenderEmail: "claims@nordicshipping.no",
			Date:        "2024-06-01",
		},
		Analysis: model.ClaimAnalysis{
			ClaimNumber:     "CLM-2024-001",
			InsuredParty:    "Nordic Shipping AS",
			LossDate:        "2024-03-15",
			LossLocation:    "Port of Rotterdam",
			ClaimAmount:     150000.50,
			Currency:        "EUR",
			LossDescription: "Hull damage during berthing",
			KeyFindings:     []string{"Berthing incident"},
			ConfidenceScore: 0.9,
		},
		Duplicate: model.DuplicateVerdict{Outcome: model.OutcomeOK},
		Fraud: model.FraudAssessment{
			FraudScore:      0.3,
			RiskLevel:       model.RiskVeryLow,
			RuleScore:       0,
			Recommendations: []string{"Standard processing procedures applicable"},
			Outcome:         model.OutcomeOK,
		},
	}
}

func fixedClock() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestRenderWritesJSONAndMarkdown(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir, zap.NewNop()).WithClock(fixedClock)

	path, err := r.Render(reportFixture())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "claim_CLM-2024-001_20240601T120000Z.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "CLM-2024-001", decoded.Analysis.ClaimNumber)

	md, err := os.ReadFile(strings.TrimSuffix(path, ".json") + ".md")
	require.NoError(t, err)
	text := string(md)
	assert.Contains(t, text, "# Claim Report: CLM-2024-001")
	assert.Contains(t, text, "Nordic Shipping AS")
	assert.Contains(t, text, "150000.50 EUR")
	assert.Contains(t, text, "Standard processing procedures applicable")
}

func TestRenderDuplicateSection(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir, zap.NewNop()).WithClock(fixedClock)

	rep := reportFixture()
	rep.Duplicate = model.DuplicateVerdict{
		IsDuplicate:  true,
		Confidence:   1.0,
		DuplicateOf:  "CLM-2024-000",
		MatchType:    model.MatchExact,
		TotalMatches: 1,
		Outcome:      model.OutcomeOK,
	}

	path, err := r.Render(rep)
	require.NoError(t, err)

	md, err := os.ReadFile(strings.TrimSuffix(path, ".json") + ".md")
	require.NoError(t, err)
	assert.Contains(t, string(md), "Duplicate of: CLM-2024-000 (exact, confidence 1.00)")
}

func TestRenderSanitizesClaimNumber(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir, zap.NewNop()).WithClock(fixedClock)

	rep := reportFixture()
	rep.Analysis.ClaimNumber = "CLM/2024 001"

	path, err := r.Render(rep)
	require.NoError(t, err)
	assert.Contains(t, filepath.Base(path), "claim_CLM_2024_001_")
}
