package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/spektr-org/ledgerq/engine"
)

func newBatchCmd(a *app) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "batch [plans.jsonl]",
		Short: "Run many JSON plans concurrently against one snapshot",
		Long: `Each input line is a raw plan object, or {"query": "...", "plan": {...}}
when the question text should drive vendor inference. Results are written
in input order.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open batch: %w", err)
				}
				defer f.Close()
				in = f
			}

			jobs, err := readJobs(in)
			if err != nil {
				return err
			}
			records, err := a.loadSnapshot(cmd.Context())
			if err != nil {
				return err
			}

			results, err := runBatch(cmd.Context(), jobs, records, workers, a.engineOptions())
			if err != nil {
				return err
			}
			a.log.Info().Int("plans", len(results)).Msg("batch complete")
			return a.write(cmd, results...)
		},
	}

	cmd.Flags().IntVar(&workers, "workers", runtime.GOMAXPROCS(0), "maximum plans evaluated at once")
	return cmd
}

// job is one batch line.
type job struct {
	query string
	plan  map[string]any
}

// readJobs parses JSON lines. Blank lines and lines starting with # are
// skipped.
func readJobs(r io.Reader) ([]job, error) {
	var jobs []job
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		raw, err := decodePlan([]byte(text))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		j := job{plan: raw}
		if inner, ok := raw["plan"].(map[string]any); ok {
			j.plan = inner
			j.query, _ = raw["query"].(string)
		}
		jobs = append(jobs, j)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read batch: %w", err)
	}
	return jobs, nil
}

// runBatch evaluates every job against the same read-only snapshot.
func runBatch(ctx context.Context, jobs []job, records []engine.Record, workers int, opts []engine.Option) ([]*engine.Result, error) {
	results := make([]*engine.Result, len(jobs))
	view := engine.NewSliceView(records)

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			plan := engine.Normalize(j.plan, opts...)
			results[i] = engine.ExecuteView(plan, view, j.query, opts...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
