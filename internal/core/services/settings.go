package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/admitscan-cli/internal/core/domain"
	"github.com/custodia-labs/admitscan-cli/internal/core/ports/driven"
)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyLLMProvider      = "llm.provider"
	keyLLMModel         = "llm.model"
	keyLLMBaseURL       = "llm.base_url"
	keyLLMAPIKey        = "llm.api_key"
	keyPenaltyFactor    = "analysis.penalty_factor"
	keyDefaultBudget    = "analysis.default_budget"
	keyConcurrency      = "analysis.concurrency"
	keyMaxAttempts      = "analysis.max_attempts"
	keyRetryBaseDelayMS = "analysis.retry_base_delay_ms"
	keyEvalTimeoutSec   = "analysis.eval_timeout_seconds"
	keyAggregation      = "analysis.aggregation"
	keyScrapeRPS        = "scrape.requests_per_second"
	keyScrapeBurst      = "scrape.burst"
	keyScrapeMaxPages   = "scrape.max_pages"
	keyScrapeTimeoutSec = "scrape.timeout_seconds"
)

// LLMConfigValidator checks that an LLM configuration is usable,
// typically by creating a service and pinging it.
type LLMConfigValidator func(settings *domain.LLMSettings) error

// SettingsService manages application settings on top of the config store.
type SettingsService struct {
	configStore driven.ConfigStore
	validateLLM LLMConfigValidator
}

// NewSettingsService creates a new settings service. The validator may
// be nil, in which case provider changes are saved without a connectivity
// check.
func NewSettingsService(configStore driven.ConfigStore, validateLLM LLMConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		validateLLM: validateLLM,
	}
}

// Get retrieves current application settings, applying defaults for
// any keys the config file does not set.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider),
			Model:    s.configStore.GetString(keyLLMModel),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Analysis: domain.AnalysisSettings{
			PenaltyFactor:  s.getFloat(keyPenaltyFactor, defaults.Analysis.PenaltyFactor),
			DefaultBudget:  s.getInt(keyDefaultBudget, defaults.Analysis.DefaultBudget),
			Concurrency:    s.getInt(keyConcurrency, defaults.Analysis.Concurrency),
			MaxAttempts:    s.getInt(keyMaxAttempts, defaults.Analysis.MaxAttempts),
			RetryBaseDelay: s.getDuration(keyRetryBaseDelayMS, time.Millisecond, defaults.Analysis.RetryBaseDelay),
			EvalTimeout:    s.getDuration(keyEvalTimeoutSec, time.Second, defaults.Analysis.EvalTimeout),
			Aggregation:    s.getAggregation(defaults.Analysis.Aggregation),
		},
		Scrape: domain.ScrapeSettings{
			RequestsPerSecond: s.getFloat(keyScrapeRPS, defaults.Scrape.RequestsPerSecond),
			Burst:             s.getInt(keyScrapeBurst, defaults.Scrape.Burst),
			MaxPages:          s.getInt(keyScrapeMaxPages, defaults.Scrape.MaxPages),
			Timeout:           s.getDuration(keyScrapeTimeoutSec, time.Second, defaults.Scrape.Timeout),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.configStore.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLM.Model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, settings.LLM.BaseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	if err := s.configStore.Set(keyPenaltyFactor, settings.Analysis.PenaltyFactor); err != nil {
		return fmt.Errorf("save penalty factor: %w", err)
	}
	if err := s.configStore.Set(keyDefaultBudget, settings.Analysis.DefaultBudget); err != nil {
		return fmt.Errorf("save default budget: %w", err)
	}
	if err := s.configStore.Set(keyConcurrency, settings.Analysis.Concurrency); err != nil {
		return fmt.Errorf("save concurrency: %w", err)
	}
	if err := s.configStore.Set(keyMaxAttempts, settings.Analysis.MaxAttempts); err != nil {
		return fmt.Errorf("save max attempts: %w", err)
	}
	if err := s.configStore.Set(keyRetryBaseDelayMS, int(settings.Analysis.RetryBaseDelay/time.Millisecond)); err != nil {
		return fmt.Errorf("save retry base delay: %w", err)
	}
	if err := s.configStore.Set(keyEvalTimeoutSec, int(settings.Analysis.EvalTimeout/time.Second)); err != nil {
		return fmt.Errorf("save eval timeout: %w", err)
	}
	if err := s.configStore.Set(keyAggregation, string(settings.Analysis.Aggregation)); err != nil {
		return fmt.Errorf("save aggregation: %w", err)
	}

	if err := s.configStore.Set(keyScrapeRPS, settings.Scrape.RequestsPerSecond); err != nil {
		return fmt.Errorf("save scrape rate: %w", err)
	}
	if err := s.configStore.Set(keyScrapeBurst, settings.Scrape.Burst); err != nil {
		return fmt.Errorf("save scrape burst: %w", err)
	}
	if err := s.configStore.Set(keyScrapeMaxPages, settings.Scrape.MaxPages); err != nil {
		return fmt.Errorf("save scrape max pages: %w", err)
	}
	if err := s.configStore.Set(keyScrapeTimeoutSec, int(settings.Scrape.Timeout/time.Second)); err != nil {
		return fmt.Errorf("save scrape timeout: %w", err)
	}

	return nil
}

// SetLLMProvider configures the evaluation LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else {
		defaults := domain.DefaultLLMModels()
		if defaultModel, ok := defaults[provider]; ok {
			settings.LLM.Model = defaultModel
		}
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		// Local providers need a base URL
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.LLM.BaseURL = ""
	}

	// Set API key
	settings.LLM.APIKey = apiKey

	if s.validateLLM != nil {
		if err := s.validateLLM(&settings.LLM); err != nil {
			return fmt.Errorf("LLM configuration rejected: %w", err)
		}
	}

	return s.Save(settings)
}

// Validate checks if current settings are internally consistent.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if settings.LLM.Provider != "" && !settings.LLM.Provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", settings.LLM.Provider)
	}
	if settings.LLM.Provider.RequiresAPIKey() && settings.LLM.APIKey == "" {
		return fmt.Errorf("provider %s requires an API key", settings.LLM.Provider)
	}
	if f := settings.Analysis.PenaltyFactor; f <= 0 || f > 1 {
		return fmt.Errorf("penalty factor %v out of range (0, 1]", f)
	}
	if settings.Analysis.DefaultBudget <= 0 {
		return fmt.Errorf("default budget must be positive")
	}
	if !settings.Analysis.Aggregation.IsValid() {
		return fmt.Errorf("unknown aggregation mode: %s", settings.Analysis.Aggregation)
	}
	if settings.Scrape.RequestsPerSecond <= 0 {
		return fmt.Errorf("scrape rate must be positive")
	}
	return nil
}

func (s *SettingsService) getProvider(key string) domain.AIProvider {
	val := s.configStore.GetString(key)
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return ""
	}
	return provider
}

func (s *SettingsService) getAggregation(def domain.AggregationMode) domain.AggregationMode {
	val := domain.AggregationMode(s.configStore.GetString(keyAggregation))
	if !val.IsValid() {
		return def
	}
	return val
}

func (s *SettingsService) getInt(key string, def int) int {
	if v := s.configStore.GetInt(key); v > 0 {
		return v
	}
	return def
}

func (s *SettingsService) getFloat(key string, def float64) float64 {
	if v := s.configStore.GetFloat(key); v > 0 {
		return v
	}
	return def
}

func (s *SettingsService) getDuration(key string, unit time.Duration, def time.Duration) time.Duration {
	if v := s.configStore.GetInt(key); v > 0 {
		return time.Duration(v) * unit
	}
	return def
}
