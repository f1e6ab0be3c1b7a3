package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/admitscan-cli/internal/core/domain"
	"github.com/custodia-labs/admitscan-cli/internal/corpus"
	"github.com/custodia-labs/admitscan-cli/internal/extractors/pdf"
)

var (
	pdfSchool    string
	pdfOutputDir string
	pdfWatch     bool
)

var pdfCmd = &cobra.Command{
	Use:   "pdf <directory>",
	Short: "Extract text from a directory of PDF documents",
	Long: `Processes every PDF in the directory (cost of attendance sheets,
scholarship brochures, admissions requirements and the like) into text
units and appends them to the school's corpus file.

With --watch, the directory is monitored and re-processed whenever a
PDF is added or changed, until interrupted.

` + pdf.InstallInstructions(),
	Args: cobra.ExactArgs(1),
	RunE: runPDF,
}

func init() {
	pdfCmd.Flags().StringVar(&pdfSchool, "school", "", "school name the corpus belongs to (required)")
	pdfCmd.Flags().StringVar(&pdfOutputDir, "output-dir", "corpus", "directory for corpus files")
	pdfCmd.Flags().BoolVar(&pdfWatch, "watch", false, "re-extract when the directory changes")
	_ = pdfCmd.MarkFlagRequired("school")
	rootCmd.AddCommand(pdfCmd)
}

func runPDF(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	extractor := pdf.New(args[0])
	defer extractor.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := extractor.Validate(ctx); err != nil {
		return err
	}

	if err := extractPDFs(ctx, cmd, extractor, args[0]); err != nil {
		return err
	}

	if !pdfWatch {
		return nil
	}

	cmd.Printf("Watching %s for changes (Ctrl-C to stop)...\n", args[0])
	err := extractor.Watch(ctx, func() {
		if err := extractPDFs(ctx, cmd, extractor, args[0]); err != nil {
			cmd.Printf("Re-extraction failed: %v\n", err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func extractPDFs(ctx context.Context, cmd *cobra.Command, extractor *pdf.Extractor, dir string) error {
	cmd.Printf("Processing PDFs in %s...\n", dir)

	units, failures := collectUnits(ctx, extractor)
	if len(units) == 0 {
		if failures > 0 {
			return fmt.Errorf("no content extracted from %s (%d files failed)\n%s",
				dir, failures, pdf.InstallInstructions())
		}
		return fmt.Errorf("no PDF content found in %s", dir)
	}

	path := corpus.DefaultPath(pdfOutputDir, pdfSchool)
	if err := corpus.Save(path, domain.NewCorpus(pdfSchool, units)); err != nil {
		return fmt.Errorf("save corpus: %w", err)
	}

	cmd.Printf("Extracted %d units (%d files failed).\n", len(units), failures)
	cmd.Printf("Corpus saved to %s\n", path)
	return nil
}
