package cli

import (
	"bytes"
	"testing"

	"github.com/custodia-labs/admitscan-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/admitscan-cli/internal/core/services"
)

// stubPromptStore returns canned prompts for tests.
type stubPromptStore struct {
	prompts map[string]string
}

func (s *stubPromptStore) Load(name string) (string, error) {
	return s.prompts[name], nil
}

func (s *stubPromptStore) Reload() {}

// setupTestServices injects in-memory services so commands never touch
// the user's real configuration directory. The returned store lets
// tests seed configuration values.
func setupTestServices(t *testing.T) *memory.ConfigStore {
	t.Helper()

	oldSettings := settingsService
	oldPrompts := promptStore
	t.Cleanup(func() {
		settingsService = oldSettings
		promptStore = oldPrompts
	})

	store := memory.NewConfigStore()
	settingsService = services.NewSettingsService(store, nil)
	promptStore = &stubPromptStore{prompts: map[string]string{}}

	// Flag values persist across Execute calls; restore the defaults so
	// tests do not leak state into each other.
	analyzeSchool, analyzeCorpusPath, analyzeTaxonomy = "", "", ""
	analyzeCorpusDir, analyzeReportsDir = "corpus", "reports"
	scrapeSchool, scrapeOutputDir, scrapeMaxPages, scrapeSeeds = "", "corpus", 0, nil
	pdfSchool, pdfOutputDir, pdfWatch = "", "corpus", false

	return store
}

// executeCommand runs the root command with args and captures output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}
