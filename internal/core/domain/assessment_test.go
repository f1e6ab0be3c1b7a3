package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryState_CanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    CategoryState
		to      CategoryState
		allowed bool
	}{
		{"pending to scored", StatePending, StateScored, true},
		{"scored to selected", StateScored, StateSelected, true},
		{"selected to evaluated", StateSelected, StateEvaluated, true},
		{"evaluated to assessed", StateEvaluated, StateAssessed, true},
		{"pending skips to selected", StatePending, StateSelected, false},
		{"no backward transition", StateSelected, StateScored, false},
		{"any active state may fail", StateEvaluated, StateFailed, true},
		{"assessed is terminal", StateAssessed, StateFailed, false},
		{"failed is terminal", StateFailed, StateScored, false},
		{"unknown state", CategoryState("LIMBO"), StateScored, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to))
		})
	}
}

func TestCategoryState_IsTerminal(t *testing.T) {
	assert.True(t, StateAssessed.IsTerminal())
	assert.True(t, StateFailed.IsTerminal())
	assert.False(t, StatePending.IsTerminal())
	assert.False(t, StateEvaluated.IsTerminal())
}

func TestBreakdownFor(t *testing.T) {
	tests := []struct {
		name     string
		origins  []OriginKind
		expected SourceBreakdown
	}{
		{"no origins", nil, SourcesNone},
		{"web only", []OriginKind{OriginWeb}, SourcesWebOnly},
		{"pdf only", []OriginKind{OriginPDF}, SourcesPDFOnly},
		{"both", []OriginKind{OriginWeb, OriginPDF}, SourcesBoth},
		{"duplicates collapse", []OriginKind{OriginWeb, OriginWeb}, SourcesWebOnly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BreakdownFor(tt.origins))
		})
	}
}
