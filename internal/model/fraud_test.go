package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskLevelForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  RiskLevel
	}{
		{0.85, RiskHigh},
		{0.8, RiskHigh},
		{0.65, RiskMedium},
		{0.6, RiskMedium},
		{0.45, RiskLow},
		{0.4, RiskLow},
		{0.39, RiskVeryLow},
		{0.1, RiskVeryLow},
		{0.0, RiskVeryLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RiskLevelForScore(tt.score), "score %v", tt.score)
	}
}
