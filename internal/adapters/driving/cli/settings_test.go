package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/admitscan-cli/internal/core/domain"
)

// Test helper functions in settings.go

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "9",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Non-numeric input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSettingsShow_Unconfigured(t *testing.T) {
	setupTestServices(t)

	output, err := executeCommand(t, "settings", "show")
	require.NoError(t, err)

	assert.Contains(t, output, "[LLM]")
	assert.Contains(t, output, "Status: not configured")
	assert.Contains(t, output, "[Analysis]")
	assert.Contains(t, output, "[Scrape]")
	assert.Contains(t, output, "Configuration is valid.")
}

func TestSettingsShow_MasksAPIKey(t *testing.T) {
	setupTestServices(t)

	settings, err := settingsService.Get()
	require.NoError(t, err)
	settings.LLM.Provider = domain.AIProviderOpenAI
	settings.LLM.Model = "gpt-4o"
	settings.LLM.APIKey = "sk-1234567890abcdef"
	require.NoError(t, settingsService.Save(settings))

	output, err := executeCommand(t, "settings", "show")
	require.NoError(t, err)

	assert.Contains(t, output, "sk-1...cdef")
	assert.NotContains(t, output, "sk-1234567890abcdef")
	assert.Contains(t, output, "Status: configured")
}
