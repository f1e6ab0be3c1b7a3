package domain

import "time"

// CategoryState tracks a category's progress through the analysis pipeline.
// Transitions only move forward; FAILED and ASSESSED are terminal.
type CategoryState string

// Category pipeline states.
const (
	StatePending   CategoryState = "PENDING"
	StateScored    CategoryState = "SCORED"
	StateSelected  CategoryState = "SELECTED"
	StateEvaluated CategoryState = "EVALUATED"
	StateAssessed  CategoryState = "ASSESSED"
	StateFailed    CategoryState = "FAILED"
)

// stateOrder defines the forward progression of the pipeline.
var stateOrder = map[CategoryState]int{
	StatePending:   0,
	StateScored:    1,
	StateSelected:  2,
	StateEvaluated: 3,
	StateAssessed:  4,
}

// IsTerminal returns true for states the pipeline cannot leave.
func (s CategoryState) IsTerminal() bool {
	return s == StateAssessed || s == StateFailed
}

// CanTransition reports whether moving from s to next is a legal
// forward transition. FAILED is reachable from any non-terminal state.
func (s CategoryState) CanTransition(next CategoryState) bool {
	if s.IsTerminal() {
		return false
	}
	if next == StateFailed {
		return true
	}
	from, okFrom := stateOrder[s]
	to, okTo := stateOrder[next]
	return okFrom && okTo && to == from+1
}

// AspectJudgment is the evaluation step's verdict for one sub-aspect.
type AspectJudgment struct {
	// Aspect is the sub-aspect that was judged.
	Aspect string

	// Covered reports whether the selected content addresses the aspect.
	Covered bool

	// Confidence is the evaluator's confidence in the judgment (0-1).
	Confidence float64

	// Excerpt is a supporting quote from the content, if any.
	Excerpt string
}

// Strength is a positive coverage example tied back to its source unit.
type Strength struct {
	// Aspect is the well-covered sub-aspect.
	Aspect string

	// Source is the unit the supporting excerpt came from, when known.
	Source string

	// Excerpt is a short supporting quote.
	Excerpt string
}

// SourceBreakdown describes which origin kinds supplied the evidence.
type SourceBreakdown string

// Evidence source breakdowns.
const (
	SourcesNone    SourceBreakdown = "none"
	SourcesWebOnly SourceBreakdown = "web-only"
	SourcesPDFOnly SourceBreakdown = "pdf-only"
	SourcesBoth    SourceBreakdown = "both"
)

// BreakdownFor derives the source breakdown from selected origins.
func BreakdownFor(origins []OriginKind) SourceBreakdown {
	var web, pdf bool
	for _, o := range origins {
		switch o {
		case OriginWeb:
			web = true
		case OriginPDF:
			pdf = true
		}
	}
	switch {
	case web && pdf:
		return SourcesBoth
	case web:
		return SourcesWebOnly
	case pdf:
		return SourcesPDFOnly
	default:
		return SourcesNone
	}
}

// CoverageAssessment is the terminal analysis outcome for one category.
type CoverageAssessment struct {
	// CategoryID identifies the assessed category.
	CategoryID string

	// CategoryName is the human-readable category name.
	CategoryName string

	// State is the terminal pipeline state (ASSESSED or FAILED).
	State CategoryState

	// CoveragePercent is the aggregate coverage measure (0-100).
	CoveragePercent float64

	// Judgments holds the per-aspect verdicts from the evaluation step.
	Judgments []AspectJudgment

	// Strengths are positive coverage examples with supporting excerpts.
	Strengths []Strength

	// Gaps lists sub-aspects with no or low matched content.
	Gaps []string

	// Sources describes which origin kinds supplied the selected evidence.
	Sources SourceBreakdown

	// FailureReason carries the error for FAILED categories.
	FailureReason string
}

// NoEvidence builds the terminal assessment for a category with zero
// qualifying scored units. Not an error: coverage 0% with an explicit gap.
func NoEvidence(cat CategoryDefinition) CoverageAssessment {
	return CoverageAssessment{
		CategoryID:      cat.ID,
		CategoryName:    cat.Name,
		State:           StateAssessed,
		CoveragePercent: 0,
		Gaps:            []string{"no matching content found"},
		Sources:         SourcesNone,
	}
}

// Report is the aggregated coverage report for one analysis run.
type Report struct {
	// RunID uniquely identifies the analysis run.
	RunID string

	// School is the institution the corpus belongs to.
	School string

	// GeneratedAt is when the report was composed.
	GeneratedAt time.Time

	// Assessments holds one entry per taxonomy category, in taxonomy order.
	// FAILED categories are included, never omitted.
	Assessments []CoverageAssessment

	// OverallCoverage is the average coverage across non-FAILED categories.
	OverallCoverage float64

	// SourceNotes describes categories dominated by a single origin kind.
	SourceNotes []string

	// Caveats records extraction gaps (e.g., an origin with no units).
	Caveats []string
}

// FailedCategories returns the IDs of categories that ended FAILED.
func (r *Report) FailedCategories() []string {
	var failed []string
	for _, a := range r.Assessments {
		if a.State == StateFailed {
			failed = append(failed, a.CategoryID)
		}
	}
	return failed
}
