package report

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearhull/claimwatch/internal/model"
)

func TestSummarize(t *testing.T) {
	results := []model.ProcessingResult{
		{Status: model.StatusCompleted, FraudScore: 0.2},
		{Status: model.StatusCompleted, FraudScore: 0.9, IsDuplicate: true},
		{Status: model.StatusFailed, FailedStage: "register"},
		{Status: model.StatusSkipped},
	}

	s := Summarize(results, 0.7, fixedClock())

	assert.Equal(t, 4, s.TotalProcessed)
	assert.Equal(t, 2, s.Successful)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, 1, s.Duplicates)
	assert.Equal(t, 1, s.HighFraudRisk)
}

func TestWriteSummary(t *testing.T) {
	dir := t.TempDir()
	s := Summarize([]model.ProcessingResult{{Status: model.StatusCompleted}}, 0.7, fixedClock())

	path, err := WriteSummary(dir, s)
	require.NoError(t, err)
	assert.Contains(t, path, "processing_summary_20240601_120000.json")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded Summary
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 1, decoded.TotalProcessed)
	assert.True(t, decoded.GeneratedAt.Equal(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)))
}
