package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/admitscan-cli/internal/core/domain"
)

func writeTaxonomyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taxonomy.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadTaxonomy(t *testing.T) {
	t.Run("loads a valid file", func(t *testing.T) {
		path := writeTaxonomyFile(t, `
[[category]]
id = "financial"
name = "Financial Information"
description = "Costs and financial support"
aspects = ["Tuition and fees", "Financial aid availability"]
must_include = ["tuition"]
budget = 4000

[[category.keyword]]
term = "tuition"
weight = 2.0

[[category.keyword]]
term = "financial aid"
weight = 2.0
`)

		taxonomy, err := LoadTaxonomy(path)
		require.NoError(t, err)
		require.Len(t, taxonomy, 1)

		cat := taxonomy[0]
		assert.Equal(t, "financial", cat.ID)
		assert.Equal(t, 4000, cat.Budget)
		assert.Equal(t, []string{"tuition"}, cat.MustInclude)
		assert.InDelta(t, 2.0, cat.Keywords["tuition"], 1e-9)
		assert.InDelta(t, 2.0, cat.Keywords["financial aid"], 1e-9)
	})

	t.Run("rejects conflicting keyword weights", func(t *testing.T) {
		path := writeTaxonomyFile(t, `
[[category]]
id = "financial"
name = "Financial Information"
aspects = ["Tuition and fees"]

[[category.keyword]]
term = "tuition"
weight = 2.0

[[category.keyword]]
term = "tuition"
weight = 1.0
`)

		_, err := LoadTaxonomy(path)
		assert.ErrorIs(t, err, domain.ErrTaxonomyConflict)
	})

	t.Run("collapses equal-weight repeats", func(t *testing.T) {
		path := writeTaxonomyFile(t, `
[[category]]
id = "financial"
name = "Financial Information"
aspects = ["Tuition and fees"]

[[category.keyword]]
term = "Tuition"
weight = 2.0

[[category.keyword]]
term = "tuition"
weight = 2.0
`)

		taxonomy, err := LoadTaxonomy(path)
		require.NoError(t, err)
		assert.Len(t, taxonomy[0].Keywords, 1)
	})

	t.Run("rejects duplicate category IDs", func(t *testing.T) {
		path := writeTaxonomyFile(t, `
[[category]]
id = "financial"
name = "Financial Information"
aspects = ["Tuition and fees"]

[[category.keyword]]
term = "tuition"
weight = 2.0

[[category]]
id = "financial"
name = "Financial Again"
aspects = ["Tuition and fees"]

[[category.keyword]]
term = "tuition"
weight = 2.0
`)

		_, err := LoadTaxonomy(path)
		assert.ErrorIs(t, err, domain.ErrTaxonomyConflict)
	})

	t.Run("rejects categories without keywords", func(t *testing.T) {
		path := writeTaxonomyFile(t, `
[[category]]
id = "financial"
name = "Financial Information"
aspects = ["Tuition and fees"]
`)

		_, err := LoadTaxonomy(path)
		assert.ErrorIs(t, err, domain.ErrInvalidTaxonomy)
	})

	t.Run("rejects malformed TOML", func(t *testing.T) {
		path := writeTaxonomyFile(t, `[[category`)
		_, err := LoadTaxonomy(path)
		assert.ErrorIs(t, err, domain.ErrInvalidTaxonomy)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := LoadTaxonomy(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})
}

func TestWriteDefaultTaxonomy_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.toml")

	require.NoError(t, WriteDefaultTaxonomy(path))

	taxonomy, err := LoadTaxonomy(path)
	require.NoError(t, err)
	assert.Len(t, taxonomy, len(domain.DefaultTaxonomy()))

	financial := taxonomy.Get("financial")
	require.NotNil(t, financial)
	assert.Equal(t, []string{"tuition"}, financial.MustInclude)
	assert.InDelta(t, 2.0, financial.Keywords["tuition"], 1e-9)

	// Never clobber an existing file.
	assert.Error(t, WriteDefaultTaxonomy(path))
}
