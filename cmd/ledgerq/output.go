package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/spektr-org/ledgerq/engine"
)

// ============================================================================
// OUTPUT — text, JSON and Sheets-ready CSV
// ============================================================================

func validFormat(f string) bool {
	switch f {
	case "text", "json", "pretty", "csv":
		return true
	}
	return false
}

func (a *app) write(cmd *cobra.Command, results ...*engine.Result) error {
	return writeResults(cmd.OutOrStdout(), a.format, results...)
}

// writeResults renders results one after another. JSON output is one
// document per line; pretty output is indented.
func writeResults(w io.Writer, format string, results ...*engine.Result) error {
	for _, r := range results {
		var err error
		switch format {
		case "json":
			err = writeJSON(w, r, false)
		case "pretty":
			err = writeJSON(w, r, true)
		case "csv":
			err = writeCSV(w, r)
		default:
			_, err = fmt.Fprintln(w, textOf(r))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func textOf(r *engine.Result) string {
	if r == nil || r.Text == "" {
		return "No result."
	}
	return r.Text
}

// writeCSV writes the result table when there is one, otherwise the text
// answer as a single row.
func writeCSV(w io.Writer, r *engine.Result) error {
	cw := csv.NewWriter(w)

	if r != nil && r.Table != nil && len(r.Table.Columns) > 0 {
		cw.Write(r.Table.Columns)
		for _, row := range r.Table.Rows {
			cw.Write(row)
		}
	} else {
		cw.Write([]string{"Summary", "Total", "Count"})
		if r == nil {
			cw.Write([]string{textOf(r), "", ""})
		} else {
			cw.Write([]string{textOf(r), engine.FormatAmount(r.Aggregation.Total), fmt.Sprint(r.Aggregation.Count)})
		}
	}

	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	var (
		out []byte
		err error
	)
	if pretty {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
