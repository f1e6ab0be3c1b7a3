package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/admitscan-cli/internal/core/domain"
)

func sampleReport() *domain.Report {
	return &domain.Report{
		RunID:       "run-123",
		School:      "Example School of Medicine",
		GeneratedAt: time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC),
		Assessments: []domain.CoverageAssessment{
			{
				CategoryID:      "financial",
				CategoryName:    "Financial Information",
				State:           domain.StateAssessed,
				CoveragePercent: 50,
				Strengths: []domain.Strength{
					{Aspect: "Tuition and fees", Source: "https://example.edu/tuition", Excerpt: "Tuition is $58,000"},
				},
				Gaps:    []string{"Financial aid availability"},
				Sources: domain.SourcesWebOnly,
			},
			{
				CategoryID:    "admissions",
				CategoryName:  "Admissions Process & Requirements",
				State:         domain.StateFailed,
				FailureReason: "evaluation failed after 3 attempts",
			},
		},
		OverallCoverage: 50,
		SourceNotes:     []string{"Financial Information: evidence comes from web pages only"},
		Caveats:         []string{"no pdf content was extracted for this run"},
	}
}

func TestWriter_Write(t *testing.T) {
	dir := t.TempDir()
	writer := NewWriter(dir)

	paths, err := writer.Write(context.Background(), sampleReport())
	require.NoError(t, err)
	require.Len(t, paths, 2)

	assert.Equal(t, filepath.Join(dir, "coverage_20250601_103000.txt"), paths[0])
	assert.Equal(t, filepath.Join(dir, "coverage_20250601_103000.json"), paths[1])

	text, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	content := string(text)

	// Every category appears, including the failed one.
	assert.Contains(t, content, "Financial Information")
	assert.Contains(t, content, "Admissions Process & Requirements")
	assert.Contains(t, content, "EVALUATION FAILED")
	assert.Contains(t, content, "50.0%")
	assert.Contains(t, content, "Tuition is $58,000")
	assert.Contains(t, content, "no pdf content was extracted")

	var decoded domain.Report
	require.NoError(t, json.Unmarshal(mustRead(t, paths[1]), &decoded))
	assert.Equal(t, "run-123", decoded.RunID)
	require.Len(t, decoded.Assessments, 2)
	assert.Equal(t, domain.StateFailed, decoded.Assessments[1].State)
}

func TestWriter_Write_NilReport(t *testing.T) {
	writer := NewWriter(t.TempDir())
	_, err := writer.Write(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestWriter_Write_CancelledContext(t *testing.T) {
	writer := NewWriter(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := writer.Write(ctx, sampleReport())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderText_IsStable(t *testing.T) {
	first := renderText(sampleReport())
	second := renderText(sampleReport())
	assert.Equal(t, first, second)
	assert.True(t, strings.HasPrefix(first, strings.Repeat("=", 72)))
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}
