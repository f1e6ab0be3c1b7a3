package file

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/admitscan-cli/internal/core/domain"
)

// taxonomyFile is the TOML shape of a taxonomy override file.
type taxonomyFile struct {
	Category []categoryEntry `toml:"category"`
}

// categoryEntry is one [[category]] table.
type categoryEntry struct {
	ID          string         `toml:"id"`
	Name        string         `toml:"name"`
	Description string         `toml:"description"`
	Aspects     []string       `toml:"aspects"`
	MustInclude []string       `toml:"must_include"`
	Budget      int            `toml:"budget"`
	Keyword     []keywordEntry `toml:"keyword"`
}

// keywordEntry is one [[category.keyword]] table. Keywords use the
// array-of-tables form rather than an inline map so a file assembled
// from multiple sources can carry repeats; repeats with equal weights
// collapse silently, repeats with different weights are a conflict.
type keywordEntry struct {
	Term   string  `toml:"term"`
	Weight float64 `toml:"weight"`
}

// LoadTaxonomy reads category definitions from a TOML file and
// validates the result. The file fully replaces the built-in taxonomy;
// use WriteDefaultTaxonomy to produce a starting point for editing.
func LoadTaxonomy(path string) (domain.Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy file: %w", err)
	}

	var parsed taxonomyFile
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("%w: parse taxonomy file: %v", domain.ErrInvalidTaxonomy, err)
	}

	taxonomy := make(domain.Taxonomy, 0, len(parsed.Category))
	for _, entry := range parsed.Category {
		keywords, err := collectKeywords(entry)
		if err != nil {
			return nil, err
		}
		taxonomy = append(taxonomy, domain.CategoryDefinition{
			ID:          entry.ID,
			Name:        entry.Name,
			Description: entry.Description,
			Aspects:     entry.Aspects,
			MustInclude: entry.MustInclude,
			Keywords:    keywords,
			Budget:      entry.Budget,
		})
	}

	if err := taxonomy.Validate(); err != nil {
		return nil, err
	}
	return taxonomy, nil
}

// collectKeywords folds keyword entries into a weight map, rejecting
// the same term declared with two different weights.
func collectKeywords(entry categoryEntry) (map[string]float64, error) {
	keywords := make(map[string]float64, len(entry.Keyword))
	for _, kw := range entry.Keyword {
		term := strings.ToLower(strings.TrimSpace(kw.Term))
		if term == "" {
			return nil, fmt.Errorf("%w: category %q has a keyword with no term",
				domain.ErrInvalidTaxonomy, entry.ID)
		}
		if existing, ok := keywords[term]; ok && existing != kw.Weight {
			return nil, fmt.Errorf("%w: category %q declares keyword %q with weights %v and %v",
				domain.ErrTaxonomyConflict, entry.ID, term, existing, kw.Weight)
		}
		keywords[term] = kw.Weight
	}
	return keywords, nil
}

// WriteDefaultTaxonomy writes the built-in taxonomy to path in the
// editable TOML format. Existing files are not overwritten.
func WriteDefaultTaxonomy(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("taxonomy file already exists: %s", path)
	}

	out := taxonomyFile{}
	for _, cat := range domain.DefaultTaxonomy() {
		entry := categoryEntry{
			ID:          cat.ID,
			Name:        cat.Name,
			Description: cat.Description,
			Aspects:     cat.Aspects,
			MustInclude: cat.MustInclude,
			Budget:      cat.Budget,
		}
		for _, term := range sortedTerms(cat.Keywords) {
			entry.Keyword = append(entry.Keyword, keywordEntry{Term: term, Weight: cat.Keywords[term]})
		}
		out.Category = append(out.Category, entry)
	}

	data, err := toml.Marshal(out)
	if err != nil {
		return fmt.Errorf("marshal taxonomy: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// sortedTerms returns map keys in a stable order for marshalling.
func sortedTerms(keywords map[string]float64) []string {
	terms := make([]string, 0, len(keywords))
	for term := range keywords {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}
