// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
//
// The core services depend only on these interfaces; concrete adapters
// (LLM providers, config files, report writers, extractors) live under
// internal/adapters and internal/extractors and are injected at startup.
package driven
