package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/admitscan-cli/internal/core/domain"
	"github.com/custodia-labs/admitscan-cli/internal/core/ports/driven"
)

// Ensure CoverageEvaluator implements the interfaces.
var (
	_ driven.Evaluator        = (*CoverageEvaluator)(nil)
	_ driven.PromptStoreAware = (*CoverageEvaluator)(nil)
)

// Evaluation call parameters. A low temperature keeps judgments stable
// across retries of the same content.
const (
	evalTemperature = 0.2
	evalMaxTokens   = 2000
)

// defaultCoveragePrompt is the fallback prompt when no PromptStore is configured.
const defaultCoveragePrompt = `You are assessing admissions content from %s for prospective medical students.

Category: %s
Description: %s

For each aspect below, judge whether the provided content covers it:
%s

Respond with ONLY a JSON array, one object per aspect, in the same order:
[{"aspect": "<aspect text>", "covered": true/false, "confidence": <0.0-1.0>, "excerpt": "<short supporting quote, or empty>"}]

Rules:
- "covered" is true only when the content substantively addresses the aspect, not when it is merely mentioned.
- "excerpt" must be a verbatim quote from the content when covered is true.
- Do not include any text outside the JSON array.

Content:
%s`

// defaultCoverageSystemPrompt is the fallback system message when no
// PromptStore is configured.
const defaultCoverageSystemPrompt = `You are a meticulous admissions content auditor. You judge coverage strictly from the provided content and never use outside knowledge about the school. You respond with valid JSON only.`

// CoverageEvaluator judges category coverage using an LLM service.
type CoverageEvaluator struct {
	llm         driven.LLMService
	school      string
	promptStore driven.PromptStore
}

// NewCoverageEvaluator creates an evaluator for one school's content.
func NewCoverageEvaluator(llm driven.LLMService, school string) (*CoverageEvaluator, error) {
	if llm == nil {
		return nil, domain.ErrLLMUnavailable
	}
	return &CoverageEvaluator{llm: llm, school: school}, nil
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the evaluator uses hardcoded default prompts.
func (e *CoverageEvaluator) SetPromptStore(store driven.PromptStore) {
	e.promptStore = store
}

// Evaluate submits the selected content for one category and parses the
// per-aspect judgments from the model's JSON response.
func (e *CoverageEvaluator) Evaluate(ctx context.Context, category domain.CategoryDefinition, content string) (*driven.Evaluation, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: no content to evaluate", domain.ErrEvaluationFailed)
	}

	var aspects strings.Builder
	for i, aspect := range category.Aspects {
		fmt.Fprintf(&aspects, "%d. %s\n", i+1, aspect)
	}

	promptTemplate := e.loadPrompt(driven.PromptCoverage, defaultCoveragePrompt)
	prompt := fmt.Sprintf(promptTemplate,
		e.school, category.Name, category.Description, aspects.String(), content)

	messages := []driven.ChatMessage{
		{Role: "system", Content: e.loadPrompt(driven.PromptCoverageSystem, defaultCoverageSystemPrompt)},
		{Role: "user", Content: prompt},
	}

	raw, err := e.llm.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   evalMaxTokens,
		Temperature: evalTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("evaluate category %s: %w", category.ID, err)
	}

	judgments, err := parseJudgments(raw)
	if err != nil {
		return nil, fmt.Errorf("category %s: %w", category.ID, err)
	}
	return &driven.Evaluation{Judgments: judgments}, nil
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (e *CoverageEvaluator) loadPrompt(name, fallback string) string {
	if e.promptStore == nil {
		return fallback
	}
	prompt, err := e.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}

// aspectResult is the expected JSON shape of one judgment in the
// model's response.
type aspectResult struct {
	Aspect     string  `json:"aspect"`
	Covered    bool    `json:"covered"`
	Confidence float64 `json:"confidence"`
	Excerpt    string  `json:"excerpt"`
}

// parseJudgments extracts the JSON judgment array from a model
// response. Models wrap JSON in markdown fences or prose often enough
// that scanning for the array delimiters is the robust option.
func parseJudgments(raw string) ([]domain.AspectJudgment, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("%w: response contains no JSON array", domain.ErrEvaluationFailed)
	}

	var results []aspectResult
	if err := json.Unmarshal([]byte(raw[start:end+1]), &results); err != nil {
		return nil, fmt.Errorf("%w: malformed judgment JSON: %v", domain.ErrEvaluationFailed, err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: judgment array is empty", domain.ErrEvaluationFailed)
	}

	judgments := make([]domain.AspectJudgment, 0, len(results))
	for _, r := range results {
		if strings.TrimSpace(r.Aspect) == "" {
			return nil, fmt.Errorf("%w: judgment missing aspect", domain.ErrEvaluationFailed)
		}
		judgments = append(judgments, domain.AspectJudgment{
			Aspect:     r.Aspect,
			Covered:    r.Covered,
			Confidence: clamp01(r.Confidence),
			Excerpt:    strings.TrimSpace(r.Excerpt),
		})
	}
	return judgments, nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
