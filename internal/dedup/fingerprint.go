// Package dedup decides whether an incoming claim duplicates a registered
// one. Three layers run in order of cost: exact fingerprint equality, fuzzy
// text similarity, and a hosted-model semantic check. Their candidates are
// merged into a single DuplicateVerdict.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/clearhull/claimwatch/internal/model"
)

// Fingerprint returns the content-derived identity digest for exact-duplicate
// detection: a SHA-256 over the ordered identity tuple joined with '|'.
// Fields are hashed verbatim; normalization is deliberately left to the
// similarity layer so literal equality stays literal.
func Fingerprint(a model.ClaimAnalysis) string {
	fields := []string{
		a.ClaimNumber,
		a.InsuredParty,
		strconv.FormatFloat(a.ClaimAmount, 'f', -1, 64),
		a.LossDate,
		a.LossLocation,
	}

	sum := sha256.Sum256([]byte(strings.Join(fields, "|")))
	return hex.EncodeToString(sum[:])
}

// ComparisonText builds the free-text form of a claim used by the fuzzy
// similarity layer. Empty fields are skipped; the amount is always present.
func ComparisonText(a model.ClaimAnalysis) string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.ClaimNumber, a.InsuredParty, a.LossDescription, a.LossLocation} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, strconv.FormatFloat(a.ClaimAmount, 'f', -1, 64))
	return strings.Join(parts, " ")
}
