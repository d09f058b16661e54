package main

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/spektr-org/ledgerq/engine"
	"github.com/spektr-org/ledgerq/schema"
	"github.com/spektr-org/ledgerq/translator"
)

func newAskCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Translate a question into a plan and run it",
		Example: `  ledgerq ask --source ledger.csv "top vendors last 90 days"
  ledgerq ask --source gs://books/2024.csv --format csv "list groceries this year"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			query := strings.Join(args, " ")

			records, err := a.loadSnapshot(ctx)
			if err != nil {
				return err
			}

			cfg := translator.DefaultGeminiConfig(a.apiKey)
			cfg.Model = a.model
			t, err := translator.NewGemini(ctx, cfg, translator.WithLogger(a.log))
			if err != nil {
				// Without a translator the question still runs as an
				// all-time summary, with vendor inference from its words.
				a.log.Warn().Err(err).Msg("translator unavailable, using default plan")
				return a.write(cmd, ask(ctx, nil, query, records, a.ref, a.log, a.engineOptions()))
			}
			return a.write(cmd, ask(ctx, t, query, records, a.ref, a.log, a.engineOptions()))
		},
	}
}

// ask translates a question and executes it. A nil translator or a failed
// translation falls back to an empty raw plan.
func ask(ctx context.Context, t translator.Translator, query string, records []engine.Record, ref time.Time, log zerolog.Logger, opts []engine.Option) *engine.Result {
	raw := map[string]any{}
	if t != nil {
		pc := translator.PromptContext{
			Today:      ref,
			Categories: schema.Ledger.Categories,
			Vendors:    engine.KnownVendors(records),
		}
		plan, err := t.Translate(ctx, query, pc)
		if err != nil {
			log.Warn().Err(err).Msg("translation failed, using default plan")
		} else {
			raw = plan
		}
	}
	return engine.Run(raw, records, query, opts...)
}
