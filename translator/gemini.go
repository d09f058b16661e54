package translator

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// ============================================================================
// GEMINI TRANSLATOR — Calls Google Gemini for NL → raw plan
// ============================================================================
// Requests are paced client-side by a token bucket so batch runs stay under
// the account's quota. This is the ONLY file that makes external API calls.
// ============================================================================

// contentGenerator is the part of *genai.Models the translator uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiTranslator implements Translator using the Gemini API.
type GeminiTranslator struct {
	config  Config
	models  contentGenerator
	limiter *rate.Limiter
	log     zerolog.Logger
}

// Option configures a GeminiTranslator.
type Option func(*GeminiTranslator)

// WithLogger routes translator diagnostics to the given logger.
func WithLogger(l zerolog.Logger) Option {
	return func(g *GeminiTranslator) {
		g.log = l
	}
}

// NewGemini creates a new Gemini translator.
func NewGemini(ctx context.Context, cfg Config, opts ...Option) (*GeminiTranslator, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return newGemini(cfg, client.Models, opts...), nil
}

func newGemini(cfg Config, models contentGenerator, opts ...Option) *GeminiTranslator {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	g := &GeminiTranslator{
		config:  cfg,
		models:  models,
		limiter: newLimiter(cfg.RequestsPerMinute),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// newLimiter allows rpm requests per minute with a burst of one. A
// non-positive rpm disables limiting.
func newLimiter(rpm int) *rate.Limiter {
	if rpm <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1)
}

// Translate converts a natural language query into a raw plan.
func (g *GeminiTranslator) Translate(ctx context.Context, query string, pc PromptContext) (map[string]any, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("translator rate limit: %w", err)
	}
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	prompt := BuildPrompt(query, pc)
	g.log.Debug().Str("model", g.config.Model).Int("prompt_bytes", len(prompt)).Msg("calling gemini")

	start := time.Now()
	resp, err := g.models.GenerateContent(ctx, g.config.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}
	if resp == nil {
		return nil, ErrEmptyResponse
	}

	text := resp.Text()
	plan, err := ParseResponse(text)
	if err != nil {
		g.log.Warn().Err(err).Str("response", truncate(text, 200)).Msg("unparseable model response")
		return nil, err
	}

	g.log.Debug().
		Dur("elapsed", time.Since(start)).
		Int("fields", len(plan)).
		Msg("plan translated")
	return plan, nil
}

// RequestsPerMinute reports the configured request rate, or +Inf when
// limiting is disabled.
func (g *GeminiTranslator) RequestsPerMinute() float64 {
	if g.limiter.Limit() == rate.Inf {
		return math.Inf(1)
	}
	return float64(g.limiter.Limit()) * 60
}

// ============================================================================
// HELPERS
// ============================================================================

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
