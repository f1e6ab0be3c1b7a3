package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCategory() CategoryDefinition {
	return CategoryDefinition{
		ID:          "financial",
		Name:        "Financial Information",
		Description: "Costs and support",
		Aspects:     []string{"Tuition and fees"},
		MustInclude: []string{"tuition"},
		Keywords:    map[string]float64{"tuition": 2.0},
	}
}

func TestCategoryDefinition_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CategoryDefinition)
		wantErr error
	}{
		{
			name:    "valid category",
			mutate:  func(*CategoryDefinition) {},
			wantErr: nil,
		},
		{
			name:    "empty ID",
			mutate:  func(c *CategoryDefinition) { c.ID = "" },
			wantErr: ErrInvalidTaxonomy,
		},
		{
			name:    "empty name",
			mutate:  func(c *CategoryDefinition) { c.Name = "" },
			wantErr: ErrInvalidTaxonomy,
		},
		{
			name:    "no aspects",
			mutate:  func(c *CategoryDefinition) { c.Aspects = nil },
			wantErr: ErrInvalidTaxonomy,
		},
		{
			name:    "no keywords",
			mutate:  func(c *CategoryDefinition) { c.Keywords = nil },
			wantErr: ErrInvalidTaxonomy,
		},
		{
			name:    "non-positive keyword weight",
			mutate:  func(c *CategoryDefinition) { c.Keywords["fee"] = 0 },
			wantErr: ErrInvalidTaxonomy,
		},
		{
			name: "duplicate must-include differing only in case",
			mutate: func(c *CategoryDefinition) {
				c.MustInclude = []string{"tuition", "Tuition"}
			},
			wantErr: ErrTaxonomyConflict,
		},
		{
			name:    "negative budget",
			mutate:  func(c *CategoryDefinition) { c.Budget = -1 },
			wantErr: ErrInvalidTaxonomy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := validCategory()
			tt.mutate(&cat)
			err := cat.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestCategoryDefinition_EffectiveBudget(t *testing.T) {
	cat := validCategory()
	assert.Equal(t, 8000, cat.EffectiveBudget(8000))

	cat.Budget = 500
	assert.Equal(t, 500, cat.EffectiveBudget(8000))
}

func TestTaxonomy_Validate(t *testing.T) {
	t.Run("empty taxonomy", func(t *testing.T) {
		err := Taxonomy{}.Validate()
		assert.ErrorIs(t, err, ErrInvalidTaxonomy)
	})

	t.Run("duplicate category IDs", func(t *testing.T) {
		err := Taxonomy{validCategory(), validCategory()}.Validate()
		assert.ErrorIs(t, err, ErrTaxonomyConflict)
	})

	t.Run("default taxonomy is valid", func(t *testing.T) {
		assert.NoError(t, DefaultTaxonomy().Validate())
	})
}

func TestTaxonomy_Get(t *testing.T) {
	taxonomy := DefaultTaxonomy()

	cat := taxonomy.Get("financial")
	require.NotNil(t, cat)
	assert.Equal(t, "Financial Information", cat.Name)

	assert.Nil(t, taxonomy.Get("astrology"))
}

func TestDefaultTaxonomy_Content(t *testing.T) {
	taxonomy := DefaultTaxonomy()
	require.Len(t, taxonomy, 7)

	ids := make([]string, 0, len(taxonomy))
	for _, cat := range taxonomy {
		ids = append(ids, cat.ID)
		assert.NotEmpty(t, cat.MustInclude, "category %s needs a must-include term", cat.ID)
	}
	assert.Equal(t, []string{
		"admissions", "curriculum", "research", "clinical",
		"financial", "student_life", "special_programs",
	}, ids)
}
