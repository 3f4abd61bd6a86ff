package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/clearhull/claimwatch/internal/model"
)

// Summary aggregates one processing run.
type Summary struct {
	TotalProcessed int                      `json:"total_processed"`
	Successful     int                      `json:"successful"`
	Failed         int                      `json:"failed"`
	Skipped        int                      `json:"skipped"`
	Duplicates     int                      `json:"duplicates_found"`
	HighFraudRisk  int                      `json:"high_fraud_risk"`
	GeneratedAt    time.Time                `json:"processing_timestamp"`
	Results        []model.ProcessingResult `json:"results"`
}

// Summarize builds a Summary from run results. fraudThreshold decides what
// counts as high fraud risk.
func Summarize(results []model.ProcessingResult, fraudThreshold float64, now time.Time) Summary {
	s := Summary{
		TotalProcessed: len(results),
		GeneratedAt:    now,
		Results:        results,
	}
	for _, r := range results {
		switch r.Status {
		case model.StatusCompleted:
			s.Successful++
		case model.StatusFailed:
			s.Failed++
		case model.StatusSkipped:
			s.Skipped++
		}
		if r.IsDuplicate {
			s.Duplicates++
		}
		if r.FraudScore > fraudThreshold {
			s.HighFraudRisk++
		}
	}
	return s
}

// WriteSummary persists the summary under dir with a timestamped name and
// returns the path.
func WriteSummary(dir string, s Summary) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("summary: create dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("processing_summary_%s.json", s.GeneratedAt.UTC().Format("20060102_150405")))
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("summary: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("summary: write %q: %w", path, err)
	}
	return path, nil
}
