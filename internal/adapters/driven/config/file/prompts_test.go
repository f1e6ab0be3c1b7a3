package file

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/admitscan-cli/internal/core/ports/driven"
)

func TestNewPromptStore_WithCustomDir(t *testing.T) {
	dir := t.TempDir()

	store, err := NewPromptStore(dir)

	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())
}

func TestNewPromptStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}

	store, err := NewPromptStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".admitscan", "prompts"), store.Dir())
}

func TestPromptStore_Load_CreatesDefaultFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	// Load triggers lazy init
	_, err = store.Load(driven.PromptCoverage)
	require.NoError(t, err)

	// Check files were created
	files := []string{
		"coverage.txt",
		"coverage_system.txt",
		"README.md",
	}
	for _, f := range files {
		path := filepath.Join(dir, f)
		_, err := os.Stat(path)
		assert.NoError(t, err, "expected file %s to exist", f)
	}
}

func TestPromptStore_Load_ReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptCoverage)
	require.NoError(t, err)
	assert.Contains(t, prompt, "JSON array")
	assert.Equal(t, 5, strings.Count(prompt, "%s"))
}

func TestPromptStore_Load_UserEditsWin(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	// First load creates the default file.
	_, err = store.Load(driven.PromptCoverageSystem)
	require.NoError(t, err)

	custom := "You are a terse auditor."
	path := filepath.Join(dir, "coverage_system.txt")
	require.NoError(t, os.WriteFile(path, []byte(custom), 0600))

	// Stale until the cache is cleared.
	store.Reload()
	prompt, err := store.Load(driven.PromptCoverageSystem)
	require.NoError(t, err)
	assert.Equal(t, custom, prompt)
}

func TestPromptStore_Load_UnknownPrompt(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = store.Load("does_not_exist")
	assert.Error(t, err)
}
