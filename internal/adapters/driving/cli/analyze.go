package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/admitscan-cli/internal/adapters/driven/ai"
	reportfile "github.com/custodia-labs/admitscan-cli/internal/adapters/driven/report/file"
	"github.com/custodia-labs/admitscan-cli/internal/core/domain"
	"github.com/custodia-labs/admitscan-cli/internal/core/services"
	"github.com/custodia-labs/admitscan-cli/internal/corpus"
)

var (
	analyzeSchool     string
	analyzeCorpusPath string
	analyzeCorpusDir  string
	analyzeTaxonomy   string
	analyzeReportsDir string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Assess taxonomy coverage of the extracted corpus",
	Long: `Scores the corpus against each taxonomy category, selects the most
relevant content under the category budget, and asks the configured LLM
to judge which aspects the content actually covers. The resulting
report is printed as a summary table and written to the reports
directory in text and JSON form.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeSchool, "school", "", "school whose corpus to analyze")
	analyzeCmd.Flags().StringVar(&analyzeCorpusPath, "corpus", "", "corpus file path (overrides --school lookup)")
	analyzeCmd.Flags().StringVar(&analyzeCorpusDir, "corpus-dir", "corpus", "directory corpus files are stored in")
	analyzeCmd.Flags().StringVar(&analyzeTaxonomy, "taxonomy", "", "taxonomy TOML file (default: built-in taxonomy)")
	analyzeCmd.Flags().StringVar(&analyzeReportsDir, "reports-dir", "reports", "directory report files are written to")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	corpusPath := analyzeCorpusPath
	if corpusPath == "" {
		if analyzeSchool == "" {
			return errors.New("either --school or --corpus is required")
		}
		corpusPath = corpus.DefaultPath(analyzeCorpusDir, analyzeSchool)
	}

	loaded, err := corpus.Load(corpusPath)
	if err != nil {
		return fmt.Errorf("load corpus: %w (run 'admitscan scrape' or 'admitscan pdf' first)", err)
	}

	taxonomy, err := loadTaxonomyOrDefault(analyzeTaxonomy)
	if err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Print("Connecting to LLM provider... ")
	llm, err := ai.CreateAndValidateLLMService(&settings.LLM)
	if err != nil {
		cmd.Println("FAILED")
		return err
	}
	if llm == nil {
		cmd.Println("FAILED")
		return errors.New("no LLM provider configured; run 'admitscan settings llm'")
	}
	defer llm.Close()
	cmd.Println("OK")

	evaluator, err := ai.NewCoverageEvaluator(llm, loaded.School)
	if err != nil {
		return err
	}
	evaluator.SetPromptStore(promptStore)

	analyzer, err := services.NewCoverageAnalyzer(taxonomy, evaluator, settings.Analysis)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd.Printf("Analyzing %d units across %d categories...\n", loaded.Len(), len(taxonomy))

	report, runErr := analyzer.ValidateCoverage(ctx, loaded)
	if runErr != nil && report == nil {
		return runErr
	}
	if runErr != nil {
		cmd.Printf("Analysis interrupted: %v (partial report follows)\n", runErr)
	}

	cmd.Println()
	cmd.Println(renderSummary(report))

	writer := reportfile.NewWriter(analyzeReportsDir)
	paths, err := writer.Write(context.Background(), report)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	for _, path := range paths {
		cmd.Printf("Report written to %s\n", path)
	}

	return runErr
}

// Summary table styles, matching the palette used across the project.
var (
	summaryTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	summaryGoodStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
	summaryWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF"))
	summaryBadStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
	summaryMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
)

// renderSummary formats the report as a styled table for the terminal.
func renderSummary(report *domain.Report) string {
	var b strings.Builder

	b.WriteString(summaryTitleStyle.Render(fmt.Sprintf("Coverage for %s", report.School)))
	b.WriteString("\n\n")

	nameWidth := 0
	for _, a := range report.Assessments {
		if len(a.CategoryName) > nameWidth {
			nameWidth = len(a.CategoryName)
		}
	}

	for _, a := range report.Assessments {
		name := fmt.Sprintf("%-*s", nameWidth, a.CategoryName)
		if a.State == domain.StateFailed {
			b.WriteString(fmt.Sprintf("  %s  %s\n", name,
				summaryBadStyle.Render("FAILED: "+a.FailureReason)))
			continue
		}
		percent := fmt.Sprintf("%5.1f%%", a.CoveragePercent)
		b.WriteString(fmt.Sprintf("  %s  %s  %s\n", name,
			coverageStyle(a.CoveragePercent).Render(percent),
			summaryMutedStyle.Render(fmt.Sprintf("sources: %s, gaps: %d", a.Sources, len(a.Gaps)))))
	}

	b.WriteString("\n")
	overall := fmt.Sprintf("Overall coverage: %.1f%%", report.OverallCoverage)
	b.WriteString(coverageStyle(report.OverallCoverage).Bold(true).Render(overall))
	b.WriteString("\n")

	for _, caveat := range report.Caveats {
		b.WriteString(summaryWarnStyle.Render("! " + caveat))
		b.WriteString("\n")
	}

	return b.String()
}

// coverageStyle picks a colour for a coverage percentage.
func coverageStyle(percent float64) lipgloss.Style {
	switch {
	case percent >= 75:
		return summaryGoodStyle
	case percent >= 40:
		return summaryWarnStyle
	default:
		return summaryBadStyle
	}
}
