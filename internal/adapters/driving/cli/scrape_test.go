package cli

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/admitscan-cli/internal/core/domain"
	"github.com/custodia-labs/admitscan-cli/internal/corpus"
)

const scrapeTestPage = `<html><body>
<h1>Financial Aid</h1>
<p>Need-based scholarships cover full tuition for qualifying students.</p>
</body></html>`

func TestScrape_RequiresSchoolFlag(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand(t, "scrape", "https://example.edu")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "school")
}

func TestScrape_InvalidBaseURL(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand(t, "scrape", "not-a-url", "--school", "Example")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestScrape_WritesCorpus(t *testing.T) {
	store := setupTestServices(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(scrapeTestPage))
	}))
	defer server.Close()

	// The polite default rate would make this test crawl for seconds.
	require.NoError(t, store.Set("scrape.requests_per_second", 500.0))
	require.NoError(t, store.Set("scrape.burst", 10))

	outputDir := t.TempDir()
	output, err := executeCommand(t, "scrape", server.URL,
		"--school", "Example School of Medicine",
		"--output-dir", outputDir,
		"--max-pages", "1",
		"--seed", "/")
	require.NoError(t, err)
	assert.Contains(t, output, "Corpus saved to")

	path := corpus.DefaultPath(outputDir, "Example School of Medicine")
	loaded, err := corpus.Load(path)
	require.NoError(t, err)
	require.NotZero(t, loaded.Len())
	assert.Equal(t, "Financial Aid", loaded.Units[0].Heading)
	assert.Contains(t, loaded.Units[0].Text, "scholarships")
}
