package driven

import (
	"context"

	"github.com/custodia-labs/admitscan-cli/internal/core/domain"
)

// Evaluator judges how well selected content covers a category's aspects.
// The production implementation is backed by an LLM; tests inject a
// deterministic mock. Malformed or empty results must be returned as
// errors so the analyzer's retry policy applies.
type Evaluator interface {
	// Evaluate submits the provenance-tagged content for one category and
	// returns one judgment per sub-aspect.
	Evaluate(ctx context.Context, category domain.CategoryDefinition, content string) (*Evaluation, error)
}

// Evaluation is the evaluation step's structured response.
type Evaluation struct {
	// Judgments holds exactly one entry per category aspect, in aspect order.
	Judgments []domain.AspectJudgment
}
