package domain

// ScoredUnit pairs a document unit with its relevance to one category.
// Scored units are derived, ephemeral, and recomputed every run.
type ScoredUnit struct {
	// Unit is the scored document unit.
	Unit DocumentUnit

	// CategoryID identifies the category the score applies to.
	CategoryID string

	// Score is the non-negative relevance score.
	Score float64

	// MatchedTerms is the set of must-include terms found in the unit,
	// lowercased. Empty means the score carries the penalty factor.
	MatchedTerms []string
}

// HasMustInclude returns true if at least one must-include term matched.
func (s ScoredUnit) HasMustInclude() bool {
	return len(s.MatchedTerms) > 0
}

// Selection is the budget-bounded subset of scored units passed to the
// evaluation step for one category, in rank order.
type Selection struct {
	// CategoryID identifies the category the selection was made for.
	CategoryID string

	// Units are the selected scored units, highest score first.
	Units []ScoredUnit

	// TotalSize is the combined character size of the selected units.
	// Invariant: TotalSize never exceeds the category's budget.
	TotalSize int
}

// IsEmpty returns true if nothing qualified for selection.
func (s Selection) IsEmpty() bool {
	return len(s.Units) == 0
}

// Origins returns which origin kinds contributed to the selection.
func (s Selection) Origins() []OriginKind {
	var (
		origins []OriginKind
		seen    = make(map[OriginKind]bool, 2)
	)
	for _, su := range s.Units {
		if !seen[su.Unit.Origin] {
			seen[su.Unit.Origin] = true
			origins = append(origins, su.Unit.Origin)
		}
	}
	return origins
}
