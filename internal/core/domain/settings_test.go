package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		provider AIProvider
		valid    bool
	}{
		{AIProviderOllama, true},
		{AIProviderOpenAI, true},
		{AIProviderAnthropic, true},
		{AIProvider("gemini"), false},
		{AIProvider(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.provider.IsValid())
		})
	}
}

func TestAIProvider_RequiresAPIKey(t *testing.T) {
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.True(t, AIProviderAnthropic.RequiresAPIKey())
}

func TestAIProvider_IsLocal(t *testing.T) {
	assert.True(t, AIProviderOllama.IsLocal())
	assert.False(t, AIProviderOpenAI.IsLocal())
	assert.False(t, AIProviderAnthropic.IsLocal())
}

func TestAIProvider_Description(t *testing.T) {
	assert.Equal(t, "Ollama (local)", AIProviderOllama.Description())
	assert.Equal(t, "OpenAI (cloud)", AIProviderOpenAI.Description())
	assert.Equal(t, "Anthropic (cloud)", AIProviderAnthropic.Description())
	assert.Equal(t, "Unknown", AIProvider("bogus").Description())
}

func TestAllLLMProviders(t *testing.T) {
	providers := AllLLMProviders()

	assert.Len(t, providers, 3)
	for _, p := range providers {
		assert.True(t, p.IsValid())
	}
}

func TestDefaultLLMModels(t *testing.T) {
	models := DefaultLLMModels()

	for _, p := range AllLLMProviders() {
		assert.NotEmpty(t, models[p], "provider %s has no default model", p)
	}
}

func TestLLMSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name       string
		settings   LLMSettings
		configured bool
	}{
		{"empty", LLMSettings{}, false},
		{"ollama without key", LLMSettings{Provider: AIProviderOllama, Model: "llama3.2"}, true},
		{"openai without key", LLMSettings{Provider: AIProviderOpenAI, Model: "gpt-4o"}, false},
		{"openai with key", LLMSettings{Provider: AIProviderOpenAI, Model: "gpt-4o", APIKey: "sk-test"}, true},
		{"anthropic with key", LLMSettings{Provider: AIProviderAnthropic, APIKey: "sk-ant"}, true},
		{"unknown provider", LLMSettings{Provider: "gemini", APIKey: "key"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.configured, tt.settings.IsConfigured())
		})
	}
}

func TestAggregationMode_IsValid(t *testing.T) {
	assert.True(t, AggregationFraction.IsValid())
	assert.True(t, AggregationConfidence.IsValid())
	assert.False(t, AggregationMode("median").IsValid())
	assert.False(t, AggregationMode("").IsValid())
}

func TestDefaultAppSettings(t *testing.T) {
	settings := DefaultAppSettings()

	assert.False(t, settings.LLM.IsConfigured())

	assert.Equal(t, DefaultPenaltyFactor, settings.Analysis.PenaltyFactor)
	assert.Equal(t, 8000, settings.Analysis.DefaultBudget)
	assert.Equal(t, 3, settings.Analysis.Concurrency)
	assert.Equal(t, 3, settings.Analysis.MaxAttempts)
	assert.Equal(t, time.Second, settings.Analysis.RetryBaseDelay)
	assert.Equal(t, 2*time.Minute, settings.Analysis.EvalTimeout)
	assert.Equal(t, AggregationFraction, settings.Analysis.Aggregation)

	assert.Equal(t, 0.5, settings.Scrape.RequestsPerSecond)
	assert.Equal(t, 1, settings.Scrape.Burst)
	assert.Equal(t, 200, settings.Scrape.MaxPages)
	assert.Equal(t, 30*time.Second, settings.Scrape.Timeout)
}
