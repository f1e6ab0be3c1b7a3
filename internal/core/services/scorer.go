package services

import (
	"sort"
	"strings"

	"github.com/custodia-labs/admitscan-cli/internal/core/domain"
	"github.com/custodia-labs/admitscan-cli/internal/textclean"
)

// RelevanceScorer ranks document units against category definitions
// using weighted keyword matching. Scoring is pure: the same unit and
// category always produce the same score, with no I/O involved.
type RelevanceScorer struct {
	// penaltyFactor is applied multiplicatively when a unit matches
	// none of the category's must-include terms.
	penaltyFactor float64
}

// NewRelevanceScorer creates a scorer with the given must-include
// penalty factor. Values outside (0, 1] fall back to the default.
func NewRelevanceScorer(penaltyFactor float64) *RelevanceScorer {
	if penaltyFactor <= 0 || penaltyFactor > 1 {
		penaltyFactor = domain.DefaultPenaltyFactor
	}
	return &RelevanceScorer{penaltyFactor: penaltyFactor}
}

// Score computes the relevance of a single unit to a category.
//
// Matching is case-insensitive on word boundaries: "financial aid"
// matches "Financial Aid office" but "aid" does not match "said".
// The raw score is the sum of keyword weight times occurrence count,
// normalised by the unit's token count so long chunks are not favoured
// over dense ones. Units with empty text score zero.
func (s *RelevanceScorer) Score(unit domain.DocumentUnit, cat domain.CategoryDefinition) domain.ScoredUnit {
	scored := domain.ScoredUnit{Unit: unit, CategoryID: cat.ID}
	if unit.IsEmpty() {
		return scored
	}

	// The heading participates in matching but not in normalisation:
	// a unit titled "Tuition and Fees" is about tuition even when the
	// body never repeats the word.
	tokens := textclean.Tokenize(unit.Text)
	headingTokens := textclean.Tokenize(unit.Heading)
	all := make([]string, 0, len(tokens)+len(headingTokens))
	all = append(all, headingTokens...)
	all = append(all, tokens...)

	raw := 0.0
	for term, weight := range cat.Keywords {
		if n := countTerm(all, term); n > 0 {
			raw += weight * float64(n)
		}
	}
	if raw == 0 {
		return scored
	}
	// A symbol-only body tokenizes to nothing even when the heading
	// matched; fall back to the combined count to keep scores finite.
	denom := len(tokens)
	if denom == 0 {
		denom = len(all)
	}
	scored.Score = raw / float64(denom)

	for _, must := range cat.MustInclude {
		if countTerm(all, must) > 0 {
			scored.MatchedTerms = append(scored.MatchedTerms, strings.ToLower(must))
		}
	}
	sort.Strings(scored.MatchedTerms)
	if !scored.HasMustInclude() && len(cat.MustInclude) > 0 {
		scored.Score *= s.penaltyFactor
	}
	return scored
}

// ScoreAll scores every unit in the corpus against the category.
// The result preserves corpus order; ranking is the selector's job.
func (s *RelevanceScorer) ScoreAll(corpus *domain.Corpus, cat domain.CategoryDefinition) []domain.ScoredUnit {
	out := make([]domain.ScoredUnit, 0, corpus.Len())
	for _, unit := range corpus.Units {
		out = append(out, s.Score(unit, cat))
	}
	return out
}

// countTerm counts non-overlapping occurrences of a term, which may be
// a multi-word phrase, within a token stream.
func countTerm(tokens []string, term string) int {
	want := textclean.Tokenize(term)
	if len(want) == 0 || len(want) > len(tokens) {
		return 0
	}
	count := 0
	for i := 0; i+len(want) <= len(tokens); i++ {
		match := true
		for j, w := range want {
			if tokens[i+j] != w {
				match = false
				break
			}
		}
		if match {
			count++
			i += len(want) - 1
		}
	}
	return count
}
