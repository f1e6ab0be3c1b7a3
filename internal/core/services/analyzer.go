package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/admitscan-cli/internal/core/domain"
	"github.com/custodia-labs/admitscan-cli/internal/core/ports/driven"
	"github.com/custodia-labs/admitscan-cli/internal/logger"
)

// CoverageAnalyzer orchestrates the full per-category pipeline:
// score, select, evaluate, aggregate. Categories are independent of
// each other; one category failing its evaluation never blocks the
// rest of the run.
type CoverageAnalyzer struct {
	taxonomy  domain.Taxonomy
	scorer    *RelevanceScorer
	selector  *ContentSelector
	evaluator driven.Evaluator
	settings  domain.AnalysisSettings
}

// NewCoverageAnalyzer creates an analyzer over the given taxonomy.
// An invalid taxonomy or a missing evaluator is fatal here, before any
// work starts, rather than surfacing midway through a run.
func NewCoverageAnalyzer(taxonomy domain.Taxonomy, evaluator driven.Evaluator, settings domain.AnalysisSettings) (*CoverageAnalyzer, error) {
	if err := taxonomy.Validate(); err != nil {
		return nil, err
	}
	if evaluator == nil {
		return nil, domain.ErrEvaluatorUnavailable
	}
	if settings.Concurrency < 1 {
		settings.Concurrency = 1
	}
	if settings.MaxAttempts < 1 {
		settings.MaxAttempts = 1
	}
	if !settings.Aggregation.IsValid() {
		settings.Aggregation = domain.AggregationFraction
	}
	return &CoverageAnalyzer{
		taxonomy:  taxonomy,
		scorer:    NewRelevanceScorer(settings.PenaltyFactor),
		selector:  NewContentSelector(),
		evaluator: evaluator,
		settings:  settings,
	}, nil
}

// ValidateCoverage runs the pipeline for every category in the
// taxonomy and returns the aggregated report.
//
// The report always carries one assessment per category, in taxonomy
// order, whether the category ended ASSESSED or FAILED. On context
// cancellation the partial report is returned together with the
// context's error; categories that never ran are marked FAILED with
// the cancellation as their reason.
func (a *CoverageAnalyzer) ValidateCoverage(ctx context.Context, corpus *domain.Corpus) (*domain.Report, error) {
	if corpus == nil || corpus.IsEmpty() {
		return nil, fmt.Errorf("nothing to analyze: %w", domain.ErrEmptyCorpus)
	}

	logger.Section("Coverage Analysis")
	logger.Info("analyzing %d units across %d categories (concurrency %d)",
		corpus.Len(), len(a.taxonomy), a.settings.Concurrency)

	assessments := make([]domain.CoverageAssessment, len(a.taxonomy))

	var eg errgroup.Group
	eg.SetLimit(a.settings.Concurrency)
	for i, cat := range a.taxonomy {
		i, cat := i, cat
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				assessments[i] = failedAssessment(cat, domain.StatePending, err)
				return nil
			}
			assessments[i] = a.analyzeCategory(ctx, cat, corpus)
			return nil
		})
	}
	// Workers record failures in their assessment slot instead of
	// returning them, so Wait never yields an error here.
	_ = eg.Wait()

	report := a.composeReport(corpus, assessments)
	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// analyzeCategory walks one category through the pipeline states and
// always returns a terminal assessment.
func (a *CoverageAnalyzer) analyzeCategory(ctx context.Context, cat domain.CategoryDefinition, corpus *domain.Corpus) domain.CoverageAssessment {
	state := domain.StatePending

	scored := a.scorer.ScoreAll(corpus, cat)
	state = advance(state, domain.StateScored)

	budget := cat.EffectiveBudget(a.settings.DefaultBudget)
	selection := a.selector.Select(cat.ID, scored, budget)
	state = advance(state, domain.StateSelected)

	if selection.IsEmpty() {
		logger.Info("category %s: no qualifying content", cat.ID)
		return domain.NoEvidence(cat)
	}
	logger.Debug("category %s: selected %d units (%d chars of %d budget)",
		cat.ID, len(selection.Units), selection.TotalSize, budget)

	eval, err := a.evaluateWithRetry(ctx, cat, assembleContent(selection))
	if err != nil {
		logger.Warn("category %s: evaluation failed: %v", cat.ID, err)
		return failedAssessment(cat, state, err)
	}
	state = advance(state, domain.StateEvaluated)

	assessment := a.aggregate(cat, selection, eval.Judgments)
	advance(state, domain.StateAssessed)
	return assessment
}

// evaluateWithRetry calls the evaluator with per-attempt timeouts and
// exponential backoff between attempts.
func (a *CoverageAnalyzer) evaluateWithRetry(ctx context.Context, cat domain.CategoryDefinition, content string) (*driven.Evaluation, error) {
	delay := a.settings.RetryBaseDelay
	var lastErr error
	for attempt := 1; attempt <= a.settings.MaxAttempts; attempt++ {
		if attempt > 1 {
			logger.Debug("category %s: retrying evaluation (attempt %d/%d) after %s",
				cat.ID, attempt, a.settings.MaxAttempts, delay)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		callCtx := ctx
		var cancel context.CancelFunc
		if a.settings.EvalTimeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, a.settings.EvalTimeout)
		}
		eval, err := a.evaluator.Evaluate(callCtx, cat, content)
		if cancel != nil {
			cancel()
		}
		if err == nil && eval != nil && len(eval.Judgments) > 0 {
			return eval, nil
		}
		if err == nil {
			err = fmt.Errorf("evaluator returned no judgments: %w", domain.ErrEvaluationFailed)
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("evaluation failed after %d attempts: %w", a.settings.MaxAttempts, lastErr)
}

// aggregate folds per-aspect judgments into the terminal assessment.
// Aspects the evaluator never judged count as uncovered.
func (a *CoverageAnalyzer) aggregate(cat domain.CategoryDefinition, selection domain.Selection, judgments []domain.AspectJudgment) domain.CoverageAssessment {
	byAspect := make(map[string]domain.AspectJudgment, len(judgments))
	for _, j := range judgments {
		byAspect[strings.ToLower(strings.TrimSpace(j.Aspect))] = j
	}

	var (
		ordered       []domain.AspectJudgment
		strengths     []domain.Strength
		gaps          []string
		covered       int
		confidenceSum float64
	)
	for _, aspect := range cat.Aspects {
		j, ok := byAspect[strings.ToLower(aspect)]
		if !ok {
			j = domain.AspectJudgment{Aspect: aspect, Covered: false}
		}
		j.Aspect = aspect
		ordered = append(ordered, j)
		if j.Covered {
			covered++
			confidenceSum += j.Confidence
			strengths = append(strengths, domain.Strength{
				Aspect:  aspect,
				Source:  excerptSource(selection, j.Excerpt),
				Excerpt: j.Excerpt,
			})
		} else {
			gaps = append(gaps, aspect)
		}
	}

	var percent float64
	if n := len(cat.Aspects); n > 0 {
		switch a.settings.Aggregation {
		case domain.AggregationConfidence:
			percent = confidenceSum / float64(n) * 100
		default:
			percent = float64(covered) / float64(n) * 100
		}
	}

	return domain.CoverageAssessment{
		CategoryID:      cat.ID,
		CategoryName:    cat.Name,
		State:           domain.StateAssessed,
		CoveragePercent: percent,
		Judgments:       ordered,
		Strengths:       strengths,
		Gaps:            gaps,
		Sources:         domain.BreakdownFor(selection.Origins()),
	}
}

// composeReport assembles the run-level report from the per-category
// assessments. Overall coverage averages ASSESSED categories only;
// a transient evaluation failure should not read as 0% coverage.
func (a *CoverageAnalyzer) composeReport(corpus *domain.Corpus, assessments []domain.CoverageAssessment) *domain.Report {
	report := &domain.Report{
		RunID:       uuid.NewString(),
		School:      corpus.School,
		GeneratedAt: time.Now().UTC(),
		Assessments: assessments,
	}

	assessed := 0
	sum := 0.0
	for _, as := range assessments {
		if as.State != domain.StateAssessed {
			continue
		}
		assessed++
		sum += as.CoveragePercent
		switch as.Sources {
		case domain.SourcesWebOnly:
			report.SourceNotes = append(report.SourceNotes,
				fmt.Sprintf("%s: evidence comes from web pages only", as.CategoryName))
		case domain.SourcesPDFOnly:
			report.SourceNotes = append(report.SourceNotes,
				fmt.Sprintf("%s: evidence comes from PDF documents only", as.CategoryName))
		}
	}
	if assessed > 0 {
		report.OverallCoverage = sum / float64(assessed)
	}

	for _, origin := range corpus.MissingOrigins() {
		report.Caveats = append(report.Caveats,
			fmt.Sprintf("no %s content was extracted for this run", origin))
	}
	if failed := report.FailedCategories(); len(failed) > 0 {
		report.Caveats = append(report.Caveats,
			fmt.Sprintf("evaluation failed for: %s", strings.Join(failed, ", ")))
	}
	return report
}

// assembleContent concatenates the selected units with provenance
// markers so the evaluator can quote sources back.
func assembleContent(selection domain.Selection) string {
	var b strings.Builder
	for i, su := range selection.Units {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%s] %s", su.Unit.Origin, su.Unit.Source)
		if su.Unit.Heading != "" {
			fmt.Fprintf(&b, " | %s", su.Unit.Heading)
		}
		b.WriteByte('\n')
		b.WriteString(su.Unit.Text)
	}
	return b.String()
}

// excerptSource attributes an evaluator excerpt to the selected unit
// containing it, falling back to the top-ranked unit's source.
func excerptSource(selection domain.Selection, excerpt string) string {
	excerpt = strings.TrimSpace(excerpt)
	if excerpt != "" {
		needle := strings.ToLower(excerpt)
		for _, su := range selection.Units {
			if strings.Contains(strings.ToLower(su.Unit.Text), needle) {
				return su.Unit.Source
			}
		}
	}
	if !selection.IsEmpty() {
		return selection.Units[0].Unit.Source
	}
	return ""
}

// failedAssessment records a terminal failure for one category.
func failedAssessment(cat domain.CategoryDefinition, from domain.CategoryState, err error) domain.CoverageAssessment {
	advance(from, domain.StateFailed)
	return domain.CoverageAssessment{
		CategoryID:    cat.ID,
		CategoryName:  cat.Name,
		State:         domain.StateFailed,
		FailureReason: err.Error(),
	}
}

// advance asserts a legal state transition. Illegal transitions are
// programming errors, not runtime conditions.
func advance(from, to domain.CategoryState) domain.CategoryState {
	if !from.CanTransition(to) {
		panic(fmt.Sprintf("illegal category state transition %s -> %s", from, to))
	}
	return to
}
