package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/admitscan-cli/internal/adapters/driven/ai"
	configfile "github.com/custodia-labs/admitscan-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/admitscan-cli/internal/core/ports/driven"
	"github.com/custodia-labs/admitscan-cli/internal/core/services"
	"github.com/custodia-labs/admitscan-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Shared services, wired once in initServices. Tests inject their own
// and the wiring step leaves them alone.
var (
	settingsService *services.SettingsService
	promptStore     driven.PromptStore
)

var (
	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "admitscan",
	Short: "Check how well admissions content covers what pre-meds need to know",
	Long: `admitscan scrapes a medical school's admissions website and PDF
documents, then uses an LLM to assess how well the collected content
covers a taxonomy of pre-med informational categories: admissions,
financial aid, curriculum, research, clinical training, student life
and special programs.

Typical workflow:
  admitscan settings llm                         configure the evaluation LLM
  admitscan scrape https://school.edu --school "School of Medicine"
  admitscan pdf ./pdfs --school "School of Medicine"
  admitscan analyze --school "School of Medicine"`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.admitscan)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initServices wires the settings service and prompt store. Commands
// that were given fakes by tests skip the wiring.
func initServices(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if settingsService == nil {
		store, err := configfile.NewConfigStore(configDir)
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		settingsService = services.NewSettingsService(store, ai.ValidateLLMConfig)
	}

	if promptStore == nil {
		promptDir := ""
		if configDir != "" {
			promptDir = filepath.Join(configDir, "prompts")
		}
		store, err := configfile.NewPromptStore(promptDir)
		if err != nil {
			return fmt.Errorf("load prompts: %w", err)
		}
		promptStore = store
	}

	return nil
}
