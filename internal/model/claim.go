package model

// ClaimAnalysis is the structured result of analyzing one claim document.
// It is produced by the hosted-model analyzer and consumed by the duplicate
// resolution and fraud scoring engines.
type ClaimAnalysis struct {
	ClaimNumber     string   `json:"claim_number"`               // May be synthesized when absent from the document
	InsuredParty    string   `json:"insured_party"`              // Free text, "Unknown" sentinel allowed
	LossDate        string   `json:"loss_date"`                  // Free text date, "Unknown" sentinel allowed
	LossLocation    string   `json:"loss_location"`              // Free text, "Unknown" sentinel allowed
	ClaimAmount     float64  `json:"claim_amount"`               // >= 0
	Currency        string   `json:"currency"`                   // Defaults to "USD"
	LossDescription string   `json:"loss_description"`           //
	AnalysisSummary string   `json:"analysis_summary,omitempty"` //
	KeyFindings     []string `json:"key_findings,omitempty"`     // Ordered
	Recommendations []string `json:"recommendations,omitempty"`  // Ordered
	ConfidenceScore float64  `json:"confidence_score"`           // [0,1]
}

// EmailContext is an immutable snapshot of the source email's envelope,
// captured once when the email enters the pipeline.
type EmailContext struct {
	ID              string `json:"id"`
	Subject         string `json:"subject"`
	SenderEmail     string `json:"sender_email"`
	Date            string `json:"date"`
	AttachmentCount int    `json:"attachment_count"` // >= 0
}

// Attachment is one raw email attachment handed to the text extraction
// collaborator.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// Envelope is a captured claim email as written to the intake spool: the
// envelope context plus its raw attachments.
type Envelope struct {
	Email       EmailContext `json:"email"`
	Body        string       `json:"body,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}
