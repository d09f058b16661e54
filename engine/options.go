package engine

import (
	"time"

	"github.com/rs/zerolog"
)

// ============================================================================
// ENGINE OPTIONS — Functional options for Normalize(), Execute() and Run()
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	TopN          int             // vendor breakdown size in summary mode
	StopWords     map[string]bool // ignored by vendor inference
	ReferenceDate time.Time       // "today" for relative time ranges
	Logger        zerolog.Logger
}

// DefaultTopN is the summary breakdown size when WithTopN is not given.
const DefaultTopN = 5

// DefaultStopWords are the words vendor inference never treats as part of a
// vendor name.
var DefaultStopWords = []string{
	"a", "an", "the", "and", "or", "of", "to", "for", "by", "with",
	"on", "at", "from", "in",
	"i", "we", "my", "our", "me", "us", "did", "do", "does", "much", "many", "how", "what", "show",
	"list", "report", "total", "totals", "spend", "spent", "spending", "cost", "costs",
	"expense", "expenses", "receipt", "receipts", "purchases", "purchase",
	"top", "vendor", "vendors", "category", "categories",
	"last", "this", "today", "yesterday", "day", "days", "week", "weeks", "month", "months",
	"quarter", "year", "ytd", "all", "time",
}

// WithTopN sets the number of vendors listed in a summary breakdown.
// Non-positive values are ignored.
func WithTopN(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.TopN = n
		}
	}
}

// WithStopWords replaces the vendor inference stop-word list.
func WithStopWords(words []string) Option {
	return func(c *config) {
		c.StopWords = toLowerSet(words)
	}
}

// WithReferenceDate sets the date relative time symbols are anchored to.
func WithReferenceDate(t time.Time) Option {
	return func(c *config) {
		c.ReferenceDate = t
	}
}

// WithLogger routes engine diagnostics to the given logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.Logger = l
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		TopN:      DefaultTopN,
		StopWords: toLowerSet(DefaultStopWords),
		Logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.ReferenceDate.IsZero() {
		cfg.ReferenceDate = time.Now()
	}
	cfg.ReferenceDate = truncateDay(cfg.ReferenceDate)
	return cfg
}
