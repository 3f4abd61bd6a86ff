package model

// RegistryEntry is the durable record kept for every accepted (non-duplicate)
// claim. Entries are keyed by claim number, created exactly once, and never
// mutated afterwards.
type RegistryEntry struct {
	EmailID         string  `json:"email_id"`
	Subject         string  `json:"subject"`
	SenderEmail     string  `json:"sender_email"`
	ProcessedAt     string  `json:"processed_at"` // RFC 3339
	FraudScore      float64 `json:"fraud_score"`
	AnalysisSummary string  `json:"analysis_summary,omitempty"`

	// Analysis retains the fields the duplicate detection layers compare
	// against: fingerprint tuple and similarity text.
	Analysis ClaimAnalysis `json:"analysis"`
}
