// Package analyze runs the hosted-model claim analysis and normalizes its
// output into a ClaimAnalysis the downstream engines can rely on.
package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/clearhull/claimwatch/internal/llm"
	"github.com/clearhull/claimwatch/internal/model"
)

// maxContentLen caps how much document text goes into the prompt.
const maxContentLen = 10000

const systemPrompt = "You are a senior marine insurance claims analyst. Respond only with the requested JSON."

const analysisInstructions = `Thoroughly analyze the provided marine insurance claim document.

STRUCTURE YOUR ANALYSIS AS JSON WITH THESE FIELDS:

{
  "claim_number": "Extracted claim number",
  "insured_party": "Name of insured party/organization",
  "loss_date": "Date of loss incident (YYYY-MM-DD format)",
  "loss_location": "Geographic location of loss",
  "claim_amount": "Numeric claim amount",
  "currency": "Currency of claim amount",
  "loss_description": "Detailed description of the loss incident",
  "key_findings": ["List of 3-5 most important findings"],
  "recommendations": ["List of 3-5 actionable recommendations"],
  "confidence_score": 0.85,
  "analysis_summary": "Brief overall assessment summary"
}

Focus on marine insurance specifics: hull damage, cargo claims, liability issues, salvage operations, general average, etc.`

// Analyzer turns raw claim text into a structured ClaimAnalysis.
type Analyzer struct {
	provider llm.Provider // nil means the hosted model is disabled
	logger   *zap.Logger
}

// New creates an Analyzer. provider may be nil.
func New(provider llm.Provider, logger *zap.Logger) *Analyzer {
	return &Analyzer{provider: provider, logger: logger}
}

// Analyze sends the claim content to the model and parses the response.
// It never returns an error: a model failure yields the default analysis
// with OutcomeFailed, a parse failure yields a text-derived analysis with
// OutcomeDegraded. Either way the claim number is always usable.
func (a *Analyzer) Analyze(ctx context.Context, content string, email model.EmailContext) (model.ClaimAnalysis, model.Outcome) {
	if len(content) > maxContentLen {
		a.logger.Debug("truncating claim content",
			zap.Int("original_len", len(content)),
			zap.Int("max_len", maxContentLen))
		content = content[:maxContentLen]
	}

	if a.provider == nil {
		a.logger.Warn("no model provider configured, using default analysis")
		return defaultAnalysis(content), model.OutcomeFailed
	}

	resp, err := a.provider.Complete(ctx, llm.Request{
		System: systemPrompt,
		Prompt: buildPrompt(content, email),
	})
	if err != nil {
		a.logger.Error("claim analysis failed", zap.Error(err))
		return defaultAnalysis(content), model.OutcomeFailed
	}

	analysis, err := parseAnalysis(resp.Content)
	if err != nil {
		a.logger.Warn("could not parse structured analysis, falling back to text", zap.Error(err))
		return textAnalysis(resp.Content, content), model.OutcomeDegraded
	}

	normalize(&analysis, content)
	return analysis, model.OutcomeOK
}

func buildPrompt(content string, email model.EmailContext) string {
	return fmt.Sprintf(`%s

EMAIL CONTEXT:
- Subject: %s
- Sender: %s
- Date: %s
- Attachments: %d

CLAIM DOCUMENT CONTENT:
%s

Please analyze this marine insurance claim thoroughly and provide a structured JSON response.`,
		analysisInstructions, email.Subject, email.SenderEmail, email.Date, email.AttachmentCount, content)
}

// rawAnalysis tolerates the shapes models actually emit: claim_amount may be
// a number or a quoted string with currency noise.
type rawAnalysis struct {
	ClaimNumber     string          `json:"claim_number"`
	InsuredParty    string          `json:"insured_party"`
	LossDate        string          `json:"loss_date"`
	LossLocation    string          `json:"loss_location"`
	ClaimAmount     json.RawMessage `json:"claim_amount"`
	Currency        string          `json:"currency"`
	LossDescription string          `json:"loss_description"`
	AnalysisSummary string          `json:"analysis_summary"`
	KeyFindings     []string        `json:"key_findings"`
	Recommendations []string        `json:"recommendations"`
	ConfidenceScore float64         `json:"confidence_score"`
}

func parseAnalysis(response string) (model.ClaimAnalysis, error) {
	data, err := llm.ParseFencedJSON(response)
	if err != nil {
		return model.ClaimAnalysis{}, err
	}

	var raw rawAnalysis
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.ClaimAnalysis{}, fmt.Errorf("unmarshal analysis: %w", err)
	}

	return model.ClaimAnalysis{
		ClaimNumber:     strings.TrimSpace(raw.ClaimNumber),
		InsuredParty:    strings.TrimSpace(raw.InsuredParty),
		LossDate:        strings.TrimSpace(raw.LossDate),
		LossLocation:    strings.TrimSpace(raw.LossLocation),
		ClaimAmount:     parseAmount(raw.ClaimAmount),
		Currency:        strings.TrimSpace(raw.Currency),
		LossDescription: strings.TrimSpace(raw.LossDescription),
		AnalysisSummary: strings.TrimSpace(raw.AnalysisSummary),
		KeyFindings:     raw.KeyFindings,
		Recommendations: raw.Recommendations,
		ConfidenceScore: raw.ConfidenceScore,
	}, nil
}

// parseAmount accepts a JSON number or a quoted string like "USD 1,500,000".
func parseAmount(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return num
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}

	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s)
	num, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return num
}

// normalize fills the gaps a partially-compliant model response leaves.
func normalize(a *model.ClaimAnalysis, content string) {
	if a.ClaimNumber == "" {
		a.ClaimNumber = ExtractClaimNumber(content)
	}
	if a.InsuredParty == "" {
		a.InsuredParty = "Unknown"
	}
	if a.LossDate == "" {
		a.LossDate = "Unknown"
	}
	if a.LossLocation == "" {
		a.LossLocation = "Unknown"
	}
	if a.Currency == "" {
		a.Currency = "USD"
	}
	if a.ClaimAmount < 0 {
		a.ClaimAmount = 0
	}
	if a.ConfidenceScore < 0 {
		a.ConfidenceScore = 0
	}
	if a.ConfidenceScore > 1 {
		a.ConfidenceScore = 1
	}
}

// textAnalysis structures an unparseable model response: the claim stays
// processable, flagged for manual review.
func textAnalysis(response, content string) model.ClaimAnalysis {
	description := response
	if len(description) > 500 {
		description = description[:500]
	}
	claimNumber := ExtractClaimNumber(response)
	if strings.HasPrefix(claimNumber, "CLM-") && !strings.Contains(response, claimNumber) {
		// Synthesized from the response hash; prefer the document content.
		claimNumber = ExtractClaimNumber(content)
	}

	return model.ClaimAnalysis{
		ClaimNumber:     claimNumber,
		InsuredParty:    "Unknown",
		LossDate:        "Unknown",
		LossLocation:    "Unknown",
		ClaimAmount:     0,
		Currency:        "USD",
		LossDescription: description,
		AnalysisSummary: response,
		KeyFindings:     []string{"Analysis completed but structured parsing failed"},
		Recommendations: []string{"Review claim manually for detailed assessment"},
		ConfidenceScore: 0.5,
	}
}

// defaultAnalysis is the safe structure returned when no model output exists
// at all. The claim number is still derived from the document so the claim
// keeps a stable registry identity.
func defaultAnalysis(content string) model.ClaimAnalysis {
	return model.ClaimAnalysis{
		ClaimNumber:     ExtractClaimNumber(content),
		InsuredParty:    "Unknown",
		LossDate:        "Unknown",
		LossLocation:    "Unknown",
		ClaimAmount:     0,
		Currency:        "USD",
		LossDescription: "Analysis failed",
		AnalysisSummary: "AI analysis could not be completed",
		KeyFindings:     []string{"Analysis system error"},
		Recommendations: []string{"Manual review required"},
		ConfidenceScore: 0,
	}
}

var claimNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Claim\s*Number[:\s]+([A-Z0-9-]+)`),
	regexp.MustCompile(`(?i)Claim[:\s]+([A-Z0-9-]+)`),
	regexp.MustCompile(`(?i)\b(CLM[A-Z0-9-]*\d+)\b`),
	regexp.MustCompile(`#([A-Z]{2,3}\d{5,})`),
}

// ExtractClaimNumber finds a claim number in free text, falling back to a
// deterministic synthetic number derived from the text itself.
func ExtractClaimNumber(text string) string {
	for _, pattern := range claimNumberPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return strings.TrimRight(m[1], "-")
		}
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(text))
	return fmt.Sprintf("CLM-%05d", h.Sum32()%100000)
}
