package services

import (
	"sort"

	"github.com/custodia-labs/admitscan-cli/internal/core/domain"
)

// ContentSelector packs the highest-scoring units into a category's
// character budget. Like the scorer it is pure and deterministic.
type ContentSelector struct{}

// NewContentSelector creates a selector.
func NewContentSelector() *ContentSelector {
	return &ContentSelector{}
}

// Select ranks scored units and greedily fills the budget.
//
// Ranking is score descending with corpus position ascending as the
// tiebreaker, so two runs over the same corpus always pick the same
// units. Units with a non-positive score never qualify. Selection
// stops at the first unit that would overflow the budget, with one
// exception: while the selection is still empty, oversized candidates
// are skipped so that a single huge top unit cannot starve a category
// that has smaller relevant content further down the ranking.
func (s *ContentSelector) Select(categoryID string, scored []domain.ScoredUnit, budget int) domain.Selection {
	sel := domain.Selection{CategoryID: categoryID}
	if budget <= 0 {
		return sel
	}

	ranked := make([]domain.ScoredUnit, 0, len(scored))
	for _, su := range scored {
		if su.Score > 0 {
			ranked = append(ranked, su)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Unit.Position < ranked[j].Unit.Position
	})

	for _, su := range ranked {
		size := su.Unit.Size()
		if sel.TotalSize+size > budget {
			if sel.IsEmpty() {
				continue
			}
			break
		}
		sel.Units = append(sel.Units, su)
		sel.TotalSize += size
	}
	return sel
}
