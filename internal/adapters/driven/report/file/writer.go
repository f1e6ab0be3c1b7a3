// Package file writes coverage reports to timestamped files on disk.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/admitscan-cli/internal/core/domain"
	"github.com/custodia-labs/admitscan-cli/internal/core/ports/driven"
)

// Ensure Writer implements the interface.
var _ driven.ReportSink = (*Writer)(nil)

// Writer persists reports as a human-readable text file plus a JSON
// file for downstream tooling, both timestamped so successive runs
// never overwrite each other.
type Writer struct {
	dir string
}

// NewWriter creates a report writer targeting dir. If dir is empty,
// reports go to ./reports.
func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = "reports"
	}
	return &Writer{dir: dir}
}

// Write renders the report and returns the paths written.
func (w *Writer) Write(ctx context.Context, report *domain.Report) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if report == nil {
		return nil, fmt.Errorf("%w: nil report", domain.ErrInvalidInput)
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return nil, fmt.Errorf("create report directory: %w", err)
	}

	stamp := report.GeneratedAt.Format("20060102_150405")
	base := filepath.Join(w.dir, fmt.Sprintf("coverage_%s", stamp))

	txtPath := base + ".txt"
	if err := os.WriteFile(txtPath, []byte(renderText(report)), 0644); err != nil {
		return nil, fmt.Errorf("write text report: %w", err)
	}

	jsonPath := base + ".json"
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return nil, fmt.Errorf("write json report: %w", err)
	}

	return []string{txtPath, jsonPath}, nil
}

// renderText formats the report for human readers. Every taxonomy
// category appears, including failed ones.
func renderText(report *domain.Report) string {
	var b strings.Builder
	line := strings.Repeat("=", 72)

	fmt.Fprintf(&b, "%s\n", line)
	fmt.Fprintf(&b, "ADMISSIONS CONTENT COVERAGE REPORT\n")
	fmt.Fprintf(&b, "%s\n", line)
	fmt.Fprintf(&b, "School:      %s\n", report.School)
	fmt.Fprintf(&b, "Generated:   %s\n", report.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Run ID:      %s\n", report.RunID)
	fmt.Fprintf(&b, "Overall:     %.1f%% coverage\n", report.OverallCoverage)

	if len(report.Caveats) > 0 {
		b.WriteString("\nCaveats:\n")
		for _, c := range report.Caveats {
			fmt.Fprintf(&b, "  ! %s\n", c)
		}
	}

	for _, a := range report.Assessments {
		fmt.Fprintf(&b, "\n%s\n", strings.Repeat("-", 72))
		fmt.Fprintf(&b, "%s\n", a.CategoryName)
		fmt.Fprintf(&b, "%s\n", strings.Repeat("-", 72))

		if a.State == domain.StateFailed {
			fmt.Fprintf(&b, "Status:    EVALUATION FAILED\n")
			fmt.Fprintf(&b, "Reason:    %s\n", a.FailureReason)
			continue
		}

		fmt.Fprintf(&b, "Coverage:  %.1f%%\n", a.CoveragePercent)
		fmt.Fprintf(&b, "Sources:   %s\n", a.Sources)

		if len(a.Strengths) > 0 {
			b.WriteString("\nStrengths:\n")
			for _, s := range a.Strengths {
				fmt.Fprintf(&b, "  + %s\n", s.Aspect)
				if s.Excerpt != "" {
					fmt.Fprintf(&b, "    %q\n", s.Excerpt)
				}
				if s.Source != "" {
					fmt.Fprintf(&b, "    (%s)\n", s.Source)
				}
			}
		}

		if len(a.Gaps) > 0 {
			b.WriteString("\nGaps:\n")
			for _, g := range a.Gaps {
				fmt.Fprintf(&b, "  - %s\n", g)
			}
		}
	}

	if len(report.SourceNotes) > 0 {
		fmt.Fprintf(&b, "\n%s\n", line)
		b.WriteString("Source notes:\n")
		for _, n := range report.SourceNotes {
			fmt.Fprintf(&b, "  * %s\n", n)
		}
	}

	fmt.Fprintf(&b, "%s\n", line)
	return b.String()
}
