package dedup

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/clearhull/claimwatch/internal/llm"
	"github.com/clearhull/claimwatch/internal/model"
)

const semanticSystemPrompt = "You are a claims processing expert. Respond only with the requested JSON."

const semanticInstructions = `Determine if the current claim is a duplicate or variation of previously processed claims.

STRUCTURE YOUR DUPLICATE ANALYSIS AS JSON:

{
  "is_duplicate": true,
  "confidence": 0.85,
  "matching_claims": [
    {
      "claim_id": "ID of matching claim",
      "match_type": "exact/similar/variant",
      "similarity_score": 0.95,
      "matching_fields": ["claim_number", "amount", "dates"],
      "differences": ["minor variations found"]
    }
  ],
  "match_reasoning": "Explanation of why claims are considered duplicates",
  "recommendation": "How to handle the duplicate finding"
}

Compare: claim numbers, insured parties, loss details, amounts, dates, and descriptive elements.`

// SemanticMatcher asks the hosted model whether the incoming claim is a
// reworded or restructured copy of a registered one. It catches what the
// fingerprint and similarity layers cannot: same loss, different words.
type SemanticMatcher struct {
	provider   llm.Provider
	sampleSize int
	logger     *zap.Logger
}

// NewSemanticMatcher creates a matcher. sampleSize caps how many registered
// claims go into each prompt.
func NewSemanticMatcher(provider llm.Provider, sampleSize int, logger *zap.Logger) *SemanticMatcher {
	return &SemanticMatcher{provider: provider, sampleSize: sampleSize, logger: logger}
}

// Check returns the model's match candidates against the registered claims.
// Candidates naming a claim ID that is not in the registered set are
// discarded: the model is not allowed to invent registry entries.
func (m *SemanticMatcher) Check(ctx context.Context, current model.ClaimAnalysis, registered []Candidate) ([]model.MatchCandidate, error) {
	if len(registered) == 0 {
		return nil, nil
	}

	sample := registered
	if m.sampleSize > 0 && len(sample) > m.sampleSize {
		m.logger.Warn("semantic check sampling registry",
			zap.Int("registered", len(registered)),
			zap.Int("sample_size", m.sampleSize))
		sample = sample[:m.sampleSize]
	}

	prompt, err := m.buildPrompt(current, sample)
	if err != nil {
		return nil, err
	}

	resp, err := m.provider.Complete(ctx, llm.Request{
		System: semanticSystemPrompt,
		Prompt: prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("semantic duplicate check: %w", err)
	}

	known := make(map[string]bool, len(registered))
	for _, c := range registered {
		known[c.ID] = true
	}

	return parseSemanticResult(resp.Content, known)
}

func (m *SemanticMatcher) buildPrompt(current model.ClaimAnalysis, sample []Candidate) (string, error) {
	currentJSON, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal current claim: %w", err)
	}

	registered := make(map[string]model.ClaimAnalysis, len(sample))
	for _, c := range sample {
		registered[c.ID] = c.Analysis
	}
	registeredJSON, err := json.MarshalIndent(registered, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal registered claims: %w", err)
	}

	return fmt.Sprintf(`%s

CURRENT CLAIM:
%s

PREVIOUSLY PROCESSED CLAIMS:
%s

Analyze if the current claim is a duplicate or variation of any previously processed claims.
Consider similarities in: claim details, amounts, dates, parties involved, and loss descriptions.`,
		semanticInstructions, currentJSON, registeredJSON), nil
}

// semanticResult accepts both the documented "matching_claims" key and the
// shorter "matches" some models produce.
type semanticResult struct {
	MatchingClaims []semanticMatch `json:"matching_claims"`
	Matches        []semanticMatch `json:"matches"`
}

type semanticMatch struct {
	ClaimID         string   `json:"claim_id"`
	SimilarityScore float64  `json:"similarity_score"`
	Confidence      float64  `json:"confidence"`
	MatchingFields  []string `json:"matching_fields"`
}

func parseSemanticResult(content string, known map[string]bool) ([]model.MatchCandidate, error) {
	data, err := llm.ParseFencedJSON(content)
	if err != nil {
		return nil, fmt.Errorf("semantic result: %w", err)
	}

	var result semanticResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("semantic result: %w", err)
	}

	raw := result.MatchingClaims
	if len(raw) == 0 {
		raw = result.Matches
	}

	var candidates []model.MatchCandidate
	for _, m := range raw {
		if !known[m.ClaimID] {
			continue
		}

		confidence := m.SimilarityScore
		if confidence == 0 {
			confidence = m.Confidence
		}
		if confidence == 0 {
			confidence = 0.7
		}
		if confidence > 1 {
			confidence = 1
		}

		fields := m.MatchingFields
		if len(fields) == 0 {
			fields = []string{"ai_analysis"}
		}

		candidates = append(candidates, model.MatchCandidate{
			ClaimID:        m.ClaimID,
			MatchType:      model.MatchAIDetected,
			Confidence:     confidence,
			MatchingFields: fields,
		})
	}

	return candidates, nil
}
