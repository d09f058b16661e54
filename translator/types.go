package translator

import (
	"context"
	"errors"
	"time"
)

// ============================================================================
// TRANSLATOR — AI boundary for natural language → raw query plan
// ============================================================================
// The Translator is the ONLY component that calls an external AI service.
// It receives the user question plus ledger metadata (categories, a sample
// of vendor names) and returns the model's plan as an untyped map.
// It NEVER sees amounts or records. engine.Normalize turns the map into a
// canonical plan; nothing here validates enum values.
// ============================================================================

// Translator translates natural language queries into raw query plans.
type Translator interface {
	Translate(ctx context.Context, query string, pc PromptContext) (map[string]any, error)
}

// PromptContext is the ledger metadata the model may see.
type PromptContext struct {
	Today      time.Time
	Categories []string
	Vendors    []string // sample of known vendor names, may be empty
}

// Config holds translator configuration.
type Config struct {
	APIKey            string        // AI provider API key (consumer's key)
	Model             string        // Model name (e.g., "gemini-2.5-flash-lite")
	RequestsPerMinute int           // client-side rate limit; 0 disables it
	Timeout           time.Duration // per request; 0 means no timeout
}

// DefaultModel is the Gemini model used when Config.Model is empty.
const DefaultModel = "gemini-2.5-flash-lite"

// DefaultGeminiConfig returns a Config with sensible Gemini defaults.
func DefaultGeminiConfig(apiKey string) Config {
	return Config{
		APIKey:            apiKey,
		Model:             DefaultModel,
		RequestsPerMinute: 30,
		Timeout:           30 * time.Second,
	}
}

var (
	// ErrEmptyResponse is returned when the model answers with no usable text.
	ErrEmptyResponse = errors.New("translator: empty model response")

	// ErrMissingAPIKey is returned by NewGemini when no key is configured.
	ErrMissingAPIKey = errors.New("translator: missing API key")
)
