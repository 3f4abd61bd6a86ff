package model

// RiskLevel classifies a blended fraud score into an operational band.
type RiskLevel string

const (
	RiskVeryLow RiskLevel = "VERY_LOW"
	RiskLow     RiskLevel = "LOW"
	RiskMedium  RiskLevel = "MEDIUM"
	RiskHigh    RiskLevel = "HIGH"
)

// RiskLevelForScore maps a fraud score to its risk band. The thresholds are
// fixed design constants: >=0.8 HIGH, >=0.6 MEDIUM, >=0.4 LOW, else VERY_LOW.
func RiskLevelForScore(score float64) RiskLevel {
	switch {
	case score >= 0.8:
		return RiskHigh
	case score >= 0.6:
		return RiskMedium
	case score >= 0.4:
		return RiskLow
	default:
		return RiskVeryLow
	}
}

// FraudAssessment is the blended rule-based + model-based fraud estimate for
// one claim.
type FraudAssessment struct {
	FraudScore      float64   `json:"fraud_score"` // [0,1], 0.6*model + 0.4*rules
	RiskLevel       RiskLevel `json:"risk_level"`
	RuleScore       float64   `json:"rule_based_score"`
	RedFlags        []string  `json:"red_flags,omitempty"`       // Rule descriptions first, then model indicators; capped at 10
	Recommendations []string  `json:"recommendations,omitempty"` // Deduplicated, capped at 5
	Outcome         Outcome   `json:"outcome"`
}
