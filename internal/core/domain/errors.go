package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidTaxonomy indicates a malformed category definition.
	// This is fatal at startup: the analysis run does not proceed.
	ErrInvalidTaxonomy = errors.New("invalid taxonomy")

	// ErrTaxonomyConflict indicates duplicate terms or category IDs with
	// conflicting definitions. Fatal at startup, like ErrInvalidTaxonomy.
	ErrTaxonomyConflict = errors.New("taxonomy conflict")

	// ErrEmptyCorpus indicates the corpus has no units at all.
	// A corpus missing only one origin kind is not an error; the analyzer
	// proceeds and records an extraction-gap caveat.
	ErrEmptyCorpus = errors.New("corpus is empty")

	// ErrEvaluationFailed indicates the evaluation step errored, timed out,
	// or returned unparseable output after exhausting retries. The category
	// is marked FAILED; the run continues.
	ErrEvaluationFailed = errors.New("evaluation failed")

	// ErrEvaluatorUnavailable indicates no evaluation service is configured.
	ErrEvaluatorUnavailable = errors.New("evaluator unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)
