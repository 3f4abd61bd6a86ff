package model

import "time"

// ProcessingStatus is the terminal state of one claim's trip through the
// pipeline.
type ProcessingStatus string

const (
	StatusCompleted ProcessingStatus = "completed"
	StatusFailed    ProcessingStatus = "failed"
	StatusSkipped   ProcessingStatus = "skipped" // Source email already processed
)

// ProcessingResult is what the orchestrator returns for one claim. A failed
// claim is reported as StatusFailed with the aborting stage recorded; it is
// never disguised as a completed result with sentinel fields.
type ProcessingResult struct {
	EmailID     string           `json:"email_id"`
	ClaimNumber string           `json:"claim_number,omitempty"`
	Subject     string           `json:"subject"`
	SenderEmail string           `json:"sender_email"`
	Status      ProcessingStatus `json:"processing_status"`
	FailedStage string           `json:"failed_stage,omitempty"`
	FraudScore  float64          `json:"fraud_score"`
	IsDuplicate bool             `json:"is_duplicate"`
	DuplicateOf string           `json:"duplicate_of,omitempty"`
	ReportPath  string           `json:"report_path,omitempty"`
	ProcessedAt time.Time        `json:"processed_at"`
}
