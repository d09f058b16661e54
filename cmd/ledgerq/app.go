package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/spektr-org/ledgerq/engine"
	"github.com/spektr-org/ledgerq/logger"
	"github.com/spektr-org/ledgerq/store"
)

// app holds the resolved CLI settings shared by every command.
type app struct {
	source   string
	apiKey   string
	model    string
	today    string
	logLevel string
	format   string
	pretty   bool
	topN     int

	log     zerolog.Logger
	queryID string
	ref     time.Time
}

func (a *app) init(cmd *cobra.Command) error {
	a.log, a.queryID = logger.WithQueryID(logger.New(a.logLevel))
	if a.pretty {
		a.format = "pretty"
	}
	if !validFormat(a.format) {
		return fmt.Errorf("unknown --format %q (want text, json, pretty or csv)", a.format)
	}

	ref, err := parseToday(a.today, time.Now())
	if err != nil {
		return err
	}
	a.ref = ref

	cmd.SetContext(logger.WithContext(cmd.Context(), a.log))
	return nil
}

// parseToday resolves the reference date. Empty means now, in UTC.
func parseToday(s string, now time.Time) (time.Time, error) {
	if s == "" {
		y, m, d := now.UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	t, ok := engine.ParseDate(s)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid --today %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

// engineOptions builds the options every engine call shares.
func (a *app) engineOptions() []engine.Option {
	opts := []engine.Option{
		engine.WithReferenceDate(a.ref),
		engine.WithLogger(a.log),
	}
	if a.topN > 0 {
		opts = append(opts, engine.WithTopN(a.topN))
	}
	return opts
}

// loadSnapshot loads the ledger once per invocation.
func (a *app) loadSnapshot(ctx context.Context) ([]engine.Record, error) {
	if a.source == "" {
		return nil, errors.New("no ledger source: set --source or LEDGERQ_SOURCE")
	}
	src, err := store.Open(a.source)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	records, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	lg := logger.WithFields(a.log, map[string]any{
		"source":  a.source,
		"records": len(records),
		"elapsed": time.Since(start).String(),
	})
	lg.Info().Msg("snapshot loaded")
	return records, nil
}
