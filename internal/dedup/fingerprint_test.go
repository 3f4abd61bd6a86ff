package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clearhull/claimwatch/internal/model"
)

func claimFixture() model.ClaimAnalysis {
	return model.ClaimAnalysis{
		ClaimNumber:     "CLM-2024-001",
		InsuredParty:    "Nordic Shipping AS",
		LossDate:        "2024-03-15",
		LossLocation:    "Port of Rotterdam",
		ClaimAmount:     150000.50,
		LossDescription: "Hull damage during berthing",
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	a := claimFixture()
	b := claimFixture()

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.Len(t, Fingerprint(a), 64)
}

func TestFingerprintSensitiveToIdentityFields(t *testing.T) {
	base := claimFixture()

	mutations := []func(*model.ClaimAnalysis){
		func(c *model.ClaimAnalysis) { c.ClaimNumber = "CLM-2024-002" },
		func(c *model.ClaimAnalysis) { c.InsuredParty = "Baltic Shipping AS" },
		func(c *model.ClaimAnalysis) { c.ClaimAmount = 150000.51 },
		func(c *model.ClaimAnalysis) { c.LossDate = "2024-03-16" },
		func(c *model.ClaimAnalysis) { c.LossLocation = "Port of Hamburg" },
	}
	for i, mutate := range mutations {
		claim := claimFixture()
		mutate(&claim)
		assert.NotEqual(t, Fingerprint(base), Fingerprint(claim), "mutation %d", i)
	}
}

func TestFingerprintIgnoresNonIdentityFields(t *testing.T) {
	a := claimFixture()
	b := claimFixture()
	b.LossDescription = "Completely different wording"
	b.AnalysisSummary = "Other summary"
	b.ConfidenceScore = 0.1

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
}

func TestFingerprintNoNormalization(t *testing.T) {
	a := claimFixture()
	b := claimFixture()
	b.InsuredParty = "nordic shipping as"

	// Case differences are intentionally distinct at this layer.
	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))
}

func TestComparisonText(t *testing.T) {
	text := ComparisonText(claimFixture())

	assert.Equal(t, "CLM-2024-001 Nordic Shipping AS Hull damage during berthing Port of Rotterdam 150000.5", text)
}

func TestComparisonTextSkipsEmptyFields(t *testing.T) {
	text := ComparisonText(model.ClaimAnalysis{ClaimNumber: "CLM-1"})

	assert.Equal(t, "CLM-1 0", text)
}
