package model

// MatchType identifies which detection layer produced a match candidate.
type MatchType string

const (
	MatchExact      MatchType = "exact"       // Identical claim fingerprint
	MatchSimilar    MatchType = "similar"     // Fuzzy text similarity above threshold
	MatchAIDetected MatchType = "ai_detected" // Semantic match reported by the hosted model
)

// MatchCandidate is one potential duplicate found by a detection pass.
// Candidates are transient: they live inside a DuplicateVerdict and are
// never persisted individually.
type MatchCandidate struct {
	ClaimID        string    `json:"claim_id"`
	MatchType      MatchType `json:"match_type"`
	Confidence     float64   `json:"confidence"` // [0,1]
	MatchingFields []string  `json:"matching_fields"`
}

// DuplicateVerdict is the merged decision of all duplicate detection layers
// for one incoming claim.
//
// Invariants: IsDuplicate == (TotalMatches > 0); DuplicateOf is the ClaimID
// of the highest-confidence candidate, ties broken by first-seen order.
type DuplicateVerdict struct {
	IsDuplicate  bool             `json:"is_duplicate"`
	Confidence   float64          `json:"confidence"`
	DuplicateOf  string           `json:"duplicate_of,omitempty"`
	MatchType    MatchType        `json:"match_type,omitempty"`
	AllMatches   []MatchCandidate `json:"all_matches,omitempty"`
	TotalMatches int              `json:"total_matches_found"`
	Outcome      Outcome          `json:"outcome"`
	Err          string           `json:"error,omitempty"` // Set when Outcome is degraded or failed
}
