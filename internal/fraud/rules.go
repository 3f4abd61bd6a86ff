// Package fraud scores claims for fraud likelihood by blending deterministic
// rules with a hosted-model assessment.
package fraud

import (
	"regexp"
	"strings"
	"time"

	"github.com/clearhull/claimwatch/internal/model"
)

// highAmountThreshold is the claim amount above which the amount rule fires.
const highAmountThreshold = 1_000_000

// recentLossDays: losses reported within this window of the loss date are
// treated as potential backdating.
const recentLossDays = 7

var (
	vagueLocations    = []string{"unknown", "tbd", "n/a"}
	suspiciousDomains = []string{"temp-mail", "throwaway", "guerrillamail"}
	urgencyWords      = []string{"urgent", "immediate", "asap", "emergency"}

	// Auto-generated mailbox names: a long digit run right before the @.
	numericMailbox = regexp.MustCompile(`\d{6,}@`)
)

// RuleResult is the outcome of the deterministic rule pass.
type RuleResult struct {
	Score    float64  // Sum of triggered rule weights, capped at 1.0
	Triggers []string // Human-readable description per triggered rule, in rule order
}

// EvaluateRules runs the fixed rule set over a claim and its source email.
// now supplies the current time so the recent-loss rule is testable.
func EvaluateRules(a model.ClaimAnalysis, email model.EmailContext, now time.Time) RuleResult {
	var r RuleResult

	if a.ClaimAmount > highAmountThreshold {
		r.add(0.3, "High claim amount")
	}
	if suspiciousDate(a.LossDate, now) {
		r.add(0.2, "Suspicious date pattern")
	}
	if containsAny(strings.ToLower(a.LossLocation), vagueLocations) {
		r.add(0.1, "Vague location")
	}
	if suspiciousEmail(strings.ToLower(email.SenderEmail)) {
		r.add(0.2, "Suspicious sender email")
	}
	if containsAny(strings.ToLower(email.Subject), urgencyWords) {
		r.add(0.1, "Urgency language")
	}

	if r.Score > 1.0 {
		r.Score = 1.0
	}
	return r
}

func (r *RuleResult) add(weight float64, trigger string) {
	r.Score += weight
	r.Triggers = append(r.Triggers, trigger)
}

// suspiciousDate flags missing dates and very recent losses. An unparseable
// non-sentinel date is left to the model-based pass.
func suspiciousDate(date string, now time.Time) bool {
	switch strings.ToLower(strings.TrimSpace(date)) {
	case "", "unknown", "n/a":
		return true
	}

	loss, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false
	}
	return now.Sub(loss) < recentLossDays*24*time.Hour
}

func suspiciousEmail(email string) bool {
	if containsAny(email, suspiciousDomains) {
		return true
	}
	return numericMailbox.MatchString(email)
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
