package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spektr-org/ledgerq/engine"
)

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "resolve <symbol>",
		Short:     "Print the date range a relative symbol covers",
		Example:   "  ledgerq resolve last_quarter --today 2024-02-15",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"this_month", "last_month", "this_year", "last_7_days", "last_90_days", "last_quarter"},
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := resolveSymbol(args[0], a)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), engine.FormatRange(r))
			return err
		},
	}
}

func resolveSymbol(symbol string, a *app) (engine.DateRange, error) {
	rel := engine.Relative(strings.ToLower(strings.TrimSpace(symbol)))
	r, ok := engine.Resolve(rel, a.ref)
	if !ok {
		return engine.DateRange{}, fmt.Errorf("cannot resolve %q to a date range", symbol)
	}
	return r, nil
}
