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
	"github.com/custodia-labs/admitscan-cli/internal/extractors/web"
)

var (
	scrapeSchool    string
	scrapeOutputDir string
	scrapeMaxPages  int
	scrapeSeeds     []string
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <base-url>",
	Short: "Scrape an admissions website into the corpus",
	Long: `Crawls a medical school's website starting from the base URL,
following same-host links about admissions, tuition, scholarships and
financial aid. Extracted text units are appended to the school's corpus
file for later analysis.`,
	Args: cobra.ExactArgs(1),
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().StringVar(&scrapeSchool, "school", "", "school name the corpus belongs to (required)")
	scrapeCmd.Flags().StringVar(&scrapeOutputDir, "output-dir", "corpus", "directory for corpus files")
	scrapeCmd.Flags().IntVar(&scrapeMaxPages, "max-pages", 0, "override the crawl page limit")
	scrapeCmd.Flags().StringArrayVar(&scrapeSeeds, "seed", nil, "extra site-relative path to crawl (repeatable)")
	_ = scrapeCmd.MarkFlagRequired("school")
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	maxPages := settings.Scrape.MaxPages
	if scrapeMaxPages > 0 {
		maxPages = scrapeMaxPages
	}

	extractor, err := web.New(web.Config{
		BaseURL:   args[0],
		SeedPaths: scrapeSeeds,
		MaxPages:  maxPages,
		RateLimit: web.RateLimitConfig{
			RequestsPerSecond: settings.Scrape.RequestsPerSecond,
			BurstSize:         settings.Scrape.Burst,
		},
		Timeout: settings.Scrape.Timeout,
	})
	if err != nil {
		return err
	}
	defer extractor.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd.Printf("Scraping %s...\n", args[0])

	units, failures := collectUnits(ctx, extractor)
	if len(units) == 0 {
		return fmt.Errorf("no content extracted from %s", args[0])
	}

	path := corpus.DefaultPath(scrapeOutputDir, scrapeSchool)
	if err := corpus.Save(path, domain.NewCorpus(scrapeSchool, units)); err != nil {
		return fmt.Errorf("save corpus: %w", err)
	}

	cmd.Printf("Extracted %d units (%d pages failed).\n", len(units), failures)
	cmd.Printf("Corpus saved to %s\n", path)
	return nil
}
