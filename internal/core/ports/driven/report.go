package driven

import (
	"context"

	"github.com/custodia-labs/admitscan-cli/internal/core/domain"
)

// ReportSink renders and persists a finished coverage report.
// The core does not prescribe a format; the file adapter writes
// text and JSON renditions side by side.
type ReportSink interface {
	// Write persists the report and returns the locations it was written to.
	Write(ctx context.Context, report *domain.Report) ([]string, error)
}
