// Package domain defines the core business entities for admitscan.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DocumentUnit: A chunk of extracted text with provenance
//   - Corpus: The ordered set of units for one institution
//   - CategoryDefinition: A pre-med information category with scoring terms
//   - ScoredUnit: A unit scored against one category
//   - CoverageAssessment: The per-category analysis outcome
//   - Report: The aggregated coverage report
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
