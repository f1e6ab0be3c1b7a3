package driven

import (
	"context"

	"github.com/custodia-labs/admitscan-cli/internal/core/domain"
)

// Extractor produces document units from one content source.
// Each extractor type (web scraper, PDF processor) implements this interface.
// The unit stream is the sole contract between extraction and analysis:
// the analyzer never sees HTML or PDF internals.
type Extractor interface {
	// Origin returns the origin kind this extractor produces.
	Origin() domain.OriginKind

	// Validate checks the extractor is properly configured.
	// For the web extractor this verifies the base URL; for the PDF
	// extractor it checks the input directory exists and is readable.
	Validate(ctx context.Context) error

	// Extract fetches all units from the source.
	// Returns channels for units and errors; both are closed when done.
	// Individual unit failures are sent on the error channel without
	// terminating the stream.
	Extract(ctx context.Context) (<-chan domain.DocumentUnit, <-chan error)

	// Close releases resources.
	Close() error
}
