package domain

import (
	"fmt"
	"strings"
)

// CategoryDefinition describes one pre-med information category.
// Definitions are loaded once at startup and never mutated.
type CategoryDefinition struct {
	// ID is the stable category identifier (e.g., "financial").
	ID string

	// Name is the human-readable category name.
	Name string

	// Description explains what the category covers.
	Description string

	// Aspects are the sub-aspects the evaluation step judges individually.
	Aspects []string

	// MustInclude are terms whose presence marks full-confidence relevance.
	// Matching is case-insensitive whole-word/phrase matching. A unit with
	// no must-include match is down-weighted, not dropped.
	MustInclude []string

	// Keywords maps relevance terms to their scoring weights.
	Keywords map[string]float64

	// Budget is the per-category selection budget in characters.
	// Zero means the configured default applies.
	Budget int
}

// Validate checks the category definition for configuration errors.
func (c CategoryDefinition) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: category ID is empty", ErrInvalidTaxonomy)
	}
	if c.Name == "" {
		return fmt.Errorf("%w: category %q has no name", ErrInvalidTaxonomy, c.ID)
	}
	if len(c.Aspects) == 0 {
		return fmt.Errorf("%w: category %q has no aspects", ErrInvalidTaxonomy, c.ID)
	}
	if len(c.Keywords) == 0 {
		return fmt.Errorf("%w: category %q has no keywords", ErrInvalidTaxonomy, c.ID)
	}
	for term, weight := range c.Keywords {
		if strings.TrimSpace(term) == "" {
			return fmt.Errorf("%w: category %q has an empty keyword", ErrInvalidTaxonomy, c.ID)
		}
		if weight <= 0 {
			return fmt.Errorf("%w: category %q keyword %q has non-positive weight %v",
				ErrInvalidTaxonomy, c.ID, term, weight)
		}
	}
	seen := make(map[string]bool, len(c.MustInclude))
	for _, term := range c.MustInclude {
		folded := strings.ToLower(strings.TrimSpace(term))
		if folded == "" {
			return fmt.Errorf("%w: category %q has an empty must-include term", ErrInvalidTaxonomy, c.ID)
		}
		if seen[folded] {
			return fmt.Errorf("%w: category %q duplicates must-include term %q",
				ErrTaxonomyConflict, c.ID, folded)
		}
		seen[folded] = true
	}
	if c.Budget < 0 {
		return fmt.Errorf("%w: category %q has negative budget %d", ErrInvalidTaxonomy, c.ID, c.Budget)
	}
	return nil
}

// EffectiveBudget returns the category budget, falling back to def when unset.
func (c CategoryDefinition) EffectiveBudget(def int) int {
	if c.Budget > 0 {
		return c.Budget
	}
	return def
}

// Taxonomy is the ordered set of category definitions for one run.
type Taxonomy []CategoryDefinition

// Validate checks every definition and rejects duplicate category IDs.
// A validation failure is fatal at startup: the run does not proceed.
func (t Taxonomy) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: taxonomy is empty", ErrInvalidTaxonomy)
	}
	ids := make(map[string]bool, len(t))
	for _, cat := range t {
		if err := cat.Validate(); err != nil {
			return err
		}
		if ids[cat.ID] {
			return fmt.Errorf("%w: duplicate category ID %q", ErrTaxonomyConflict, cat.ID)
		}
		ids[cat.ID] = true
	}
	return nil
}

// Get returns the category with the given ID, or nil if unknown.
func (t Taxonomy) Get(id string) *CategoryDefinition {
	for i := range t {
		if t[i].ID == id {
			return &t[i]
		}
	}
	return nil
}

// DefaultTaxonomy returns the built-in seven pre-med information categories.
// A taxonomy file loaded at startup can replace or extend these without
// recompilation.
//
//nolint:funlen // Static configuration data.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		{
			ID:          "admissions",
			Name:        "Admissions Process & Requirements",
			Description: "Understanding the complete application process, requirements, and selection criteria",
			Aspects: []string{
				"Application process steps and timeline",
				"Academic requirements (courses, GPA)",
				"Standardized test requirements",
				"Selection criteria and evaluation process",
				"Interview process",
				"Unique admissions programs or pathways",
			},
			MustInclude: []string{"MCAT"},
			Keywords: map[string]float64{
				"admission":    2.0,
				"application":  1.5,
				"requirement":  1.5,
				"prerequisite": 1.5,
				"deadline":     1.0,
				"mcat":         2.0,
				"gpa":          1.5,
				"interview":    1.0,
				"selection":    1.0,
			},
		},
		{
			ID:          "curriculum",
			Name:        "Curriculum & Academic Experience",
			Description: "Details about the medical education program structure and learning experience",
			Aspects: []string{
				"Curriculum overview and structure",
				"Pre-clinical and clinical training",
				"Learning methods and resources",
				"Evaluation and grading systems",
				"Academic support services",
				"Unique educational programs or tracks",
			},
			MustInclude: []string{"curriculum"},
			Keywords: map[string]float64{
				"curriculum":   2.0,
				"course":       1.0,
				"program":      1.0,
				"preclinical":  1.5,
				"clerkship":    1.5,
				"rotation":     1.0,
				"grading":      1.0,
				"academic":     0.5,
				"learning":     0.5,
			},
		},
		{
			ID:          "research",
			Name:        "Research & Scholarly Opportunities",
			Description: "Available research and academic enrichment opportunities",
			Aspects: []string{
				"Research programs and opportunities",
				"Mentorship availability",
				"Funding for research",
				"Publication and presentation opportunities",
				"Special research tracks or programs",
				"Research facilities and resources",
			},
			MustInclude: []string{"research"},
			Keywords: map[string]float64{
				"research":     2.0,
				"scholarly":    1.5,
				"mentorship":   1.5,
				"publication":  1.5,
				"laboratory":   1.0,
				"funding":      1.0,
				"presentation": 0.5,
			},
		},
		{
			ID:          "clinical",
			Name:        "Clinical Experience & Training",
			Description: "Clinical exposure and hands-on training opportunities",
			Aspects: []string{
				"Clinical rotation structure",
				"Hospital and clinical sites",
				"Patient interaction opportunities",
				"Specialty exposure",
				"Early clinical exposure programs",
				"Clinical skills development",
			},
			MustInclude: []string{"clinical"},
			Keywords: map[string]float64{
				"clinical":  2.0,
				"rotation":  1.5,
				"hospital":  1.5,
				"patient":   1.5,
				"clerkship": 1.0,
				"specialty": 1.0,
				"bedside":   1.0,
				"training":  0.5,
			},
		},
		{
			ID:          "financial",
			Name:        "Financial Information",
			Description: "Complete understanding of costs and financial support",
			Aspects: []string{
				"Tuition and fees",
				"Financial aid availability",
				"Scholarships and grants",
				"Loan programs",
				"Cost of living considerations",
				"Financial planning resources",
			},
			MustInclude: []string{"tuition"},
			Keywords: map[string]float64{
				"tuition":            2.0,
				"financial aid":      2.0,
				"scholarship":        2.0,
				"fafsa":              1.5,
				"loan":               1.5,
				"cost of attendance": 1.5,
				"grant":              1.0,
				"stipend":            1.0,
				"cost":               1.0,
				"fee":                1.0,
			},
		},
		{
			ID:          "student_life",
			Name:        "Student Life & Support",
			Description: "Student experience, wellness, and support systems",
			Aspects: []string{
				"Student wellness programs",
				"Housing and living arrangements",
				"Student organizations and activities",
				"Mentoring and advising",
				"Career counseling",
				"Campus facilities and resources",
			},
			MustInclude: []string{"student life"},
			Keywords: map[string]float64{
				"student life": 2.0,
				"wellness":     1.5,
				"housing":      1.5,
				"advising":     1.5,
				"organization": 1.0,
				"counseling":   1.0,
				"mentoring":    1.0,
				"campus":       1.0,
			},
		},
		{
			ID:          "special_programs",
			Name:        "Special Programs & Opportunities",
			Description: "Unique programs, tracks, and educational opportunities",
			Aspects: []string{
				"Dual degree programs",
				"Special admission programs",
				"Research tracks",
				"Global health opportunities",
				"Community service programs",
				"Leadership development",
			},
			MustInclude: []string{"dual degree"},
			Keywords: map[string]float64{
				"dual degree":       2.0,
				"md/phd":            2.0,
				"global health":     1.5,
				"community service": 1.5,
				"track":             1.0,
				"pathway":           1.0,
				"leadership":        1.0,
			},
		},
	}
}
