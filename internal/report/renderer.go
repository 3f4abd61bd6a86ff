// Package report renders per-claim processing reports. PDF layout is an
// external collaborator; this package produces the JSON record plus a
// human-readable Markdown summary next to it.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/clearhull/claimwatch/internal/model"
)

// Report is the full processing record for one claim.
type Report struct {
	Email       model.EmailContext     `json:"email"`
	Analysis    model.ClaimAnalysis    `json:"claim_analysis"`
	Duplicate   model.DuplicateVerdict `json:"duplicate_check"`
	Fraud       model.FraudAssessment  `json:"fraud_analysis"`
	GeneratedAt time.Time              `json:"generated_at"`
}

// Renderer writes reports into a directory.
type Renderer struct {
	dir    string
	now    func() time.Time
	logger *zap.Logger
}

// NewRenderer creates a renderer that writes under dir.
func NewRenderer(dir string, logger *zap.Logger) *Renderer {
	return &Renderer{dir: dir, now: time.Now, logger: logger}
}

// WithClock overrides the time source for deterministic file names in tests.
func (r *Renderer) WithClock(now func() time.Time) *Renderer {
	r.now = now
	return r
}

// Render writes the JSON report and its Markdown companion, returning the
// JSON path. File names embed the claim number and a timestamp so repeated
// runs never clobber earlier reports.
func (r *Renderer) Render(rep Report) (string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("report: create dir: %w", err)
	}

	rep.GeneratedAt = r.now()
	base := fmt.Sprintf("claim_%s_%s", sanitize(rep.Analysis.ClaimNumber), rep.GeneratedAt.UTC().Format("20060102T150405Z"))

	jsonPath := filepath.Join(r.dir, base+".json")
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", fmt.Errorf("report: marshal: %w", err)
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return "", fmt.Errorf("report: write %q: %w", jsonPath, err)
	}

	mdPath := filepath.Join(r.dir, base+".md")
	if err := os.WriteFile(mdPath, []byte(renderMarkdown(rep)), 0o644); err != nil {
		return "", fmt.Errorf("report: write %q: %w", mdPath, err)
	}

	r.logger.Info("report rendered",
		zap.String("claim_number", rep.Analysis.ClaimNumber),
		zap.String("path", jsonPath))
	return jsonPath, nil
}

func renderMarkdown(rep Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Claim Report: %s\n\n", rep.Analysis.ClaimNumber)
	fmt.Fprintf(&b, "Generated: %s\n\n", rep.GeneratedAt.UTC().Format(time.RFC3339))

	b.WriteString("## Source Email\n\n")
	fmt.Fprintf(&b, "- Subject: %s\n", rep.Email.Subject)
	fmt.Fprintf(&b, "- Sender: %s\n", rep.Email.SenderEmail)
	fmt.Fprintf(&b, "- Date: %s\n", rep.Email.Date)
	fmt.Fprintf(&b, "- Attachments: %d\n\n", rep.Email.AttachmentCount)

	b.WriteString("## Claim Analysis\n\n")
	fmt.Fprintf(&b, "- Insured party: %s\n", rep.Analysis.InsuredParty)
	fmt.Fprintf(&b, "- Loss date: %s\n", rep.Analysis.LossDate)
	fmt.Fprintf(&b, "- Loss location: %s\n", rep.Analysis.LossLocation)
	fmt.Fprintf(&b, "- Claim amount: %.2f %s\n", rep.Analysis.ClaimAmount, rep.Analysis.Currency)
	fmt.Fprintf(&b, "- Confidence: %.2f\n\n", rep.Analysis.ConfidenceScore)
	if rep.Analysis.LossDescription != "" {
		fmt.Fprintf(&b, "%s\n\n", rep.Analysis.LossDescription)
	}
	writeList(&b, "Key findings", rep.Analysis.KeyFindings)

	b.WriteString("## Duplicate Check\n\n")
	fmt.Fprintf(&b, "- Duplicate: %t\n", rep.Duplicate.IsDuplicate)
	if rep.Duplicate.IsDuplicate {
		fmt.Fprintf(&b, "- Duplicate of: %s (%s, confidence %.2f)\n", rep.Duplicate.DuplicateOf, rep.Duplicate.MatchType, rep.Duplicate.Confidence)
		fmt.Fprintf(&b, "- Matches found: %d\n", rep.Duplicate.TotalMatches)
	}
	fmt.Fprintf(&b, "- Outcome: %s\n\n", rep.Duplicate.Outcome)

	b.WriteString("## Fraud Assessment\n\n")
	fmt.Fprintf(&b, "- Fraud score: %.2f (%s)\n", rep.Fraud.FraudScore, rep.Fraud.RiskLevel)
	fmt.Fprintf(&b, "- Rule-based score: %.2f\n", rep.Fraud.RuleScore)
	fmt.Fprintf(&b, "- Outcome: %s\n\n", rep.Fraud.Outcome)
	writeList(&b, "Red flags", rep.Fraud.RedFlags)
	writeList(&b, "Recommendations", rep.Fraud.Recommendations)

	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

// sanitize keeps file names portable.
func sanitize(s string) string {
	if s == "" {
		return "unknown"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
