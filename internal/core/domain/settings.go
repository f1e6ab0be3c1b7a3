package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for the evaluation step.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// AllLLMProviders returns providers that support the evaluation step.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultLLMModels returns default models for each provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible APIs).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// AggregationMode selects how per-aspect judgments fold into one
// category coverage percentage.
type AggregationMode string

const (
	// AggregationFraction reports the fraction of aspects judged covered.
	AggregationFraction AggregationMode = "fraction"

	// AggregationConfidence reports the mean per-aspect confidence.
	AggregationConfidence AggregationMode = "confidence"
)

// IsValid returns true if the aggregation mode is recognised.
func (m AggregationMode) IsValid() bool {
	return m == AggregationFraction || m == AggregationConfidence
}

// DefaultPenaltyFactor is the multiplier applied to a unit's score
// when it matches none of a category's must-include terms.
const DefaultPenaltyFactor = 0.5

// AnalysisSettings tunes the scoring, selection, and evaluation pipeline.
type AnalysisSettings struct {
	// PenaltyFactor down-weights units with no must-include match (0-1).
	PenaltyFactor float64

	// DefaultBudget is the per-category selection budget in characters,
	// applied when a category does not set its own.
	DefaultBudget int

	// Concurrency caps the number of categories evaluated in parallel.
	Concurrency int

	// MaxAttempts is how many times an evaluation call is tried before
	// the category is marked FAILED.
	MaxAttempts int

	// RetryBaseDelay is the initial backoff delay; it doubles per attempt.
	RetryBaseDelay time.Duration

	// EvalTimeout bounds each individual evaluation call.
	EvalTimeout time.Duration

	// Aggregation selects the coverage-percentage formula.
	Aggregation AggregationMode
}

// ScrapeSettings tunes the website extractor.
type ScrapeSettings struct {
	// RequestsPerSecond is the sustained crawl rate.
	RequestsPerSecond float64

	// Burst is the crawl rate burst size.
	Burst int

	// MaxPages bounds how many pages one crawl may visit.
	MaxPages int

	// Timeout bounds each page fetch.
	Timeout time.Duration
}

// AppSettings holds all application settings.
type AppSettings struct {
	// LLM holds evaluation provider settings.
	LLM LLMSettings

	// Analysis holds pipeline tuning settings.
	Analysis AnalysisSettings

	// Scrape holds website extractor settings.
	Scrape ScrapeSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The LLM provider is left unconfigured; users set it up via
// 'admitscan settings'.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		LLM: LLMSettings{},
		Analysis: AnalysisSettings{
			PenaltyFactor:  DefaultPenaltyFactor,
			DefaultBudget:  8000,
			Concurrency:    3,
			MaxAttempts:    3,
			RetryBaseDelay: time.Second,
			EvalTimeout:    2 * time.Minute,
			Aggregation:    AggregationFraction,
		},
		Scrape: ScrapeSettings{
			RequestsPerSecond: 0.5,
			Burst:             1,
			MaxPages:          200,
			Timeout:           30 * time.Second,
		},
	}
}
