package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/spektr-org/ledgerq/engine"
)

func newExecCmd(a *app) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "exec [plan.json]",
		Short: "Run a raw JSON plan (from a file or stdin)",
		Example: `  ledgerq exec --source ledger.csv plan.json
  echo '{"intent":"trend","trend":{"enabled":true}}' | ledgerq exec --source ledger.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open plan: %w", err)
				}
				defer f.Close()
				in = f
			}

			raw, err := readPlan(in)
			if err != nil {
				return err
			}
			records, err := a.loadSnapshot(cmd.Context())
			if err != nil {
				return err
			}
			return a.write(cmd, engine.Run(raw, records, query, a.engineOptions()...))
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "original question text, used for vendor inference")
	return cmd
}

// readPlan decodes one raw plan object. Numbers keep their exact digits.
func readPlan(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	return decodePlan(data)
}

func decodePlan(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}
