// Command ledgerq answers questions about an expense ledger.
//
// Logging:
//   - The base logger is built once from --log-level and written to stderr
//   - Every invocation is tagged with a query_id and carried in the context
//   - Stdout carries only query results
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "ledgerq",
		Short:         "Query an expense ledger in plain language",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.source, "source", envOr("LEDGERQ_SOURCE", ""), "ledger source: file path, gs://bucket/object or bq://project.dataset.table [$LEDGERQ_SOURCE]")
	flags.StringVar(&a.apiKey, "api-key", envOr("GEMINI_API_KEY", ""), "Gemini API key [$GEMINI_API_KEY]")
	flags.StringVar(&a.model, "model", envOr("LEDGERQ_MODEL", "gemini-2.5-flash-lite"), "Gemini model name [$LEDGERQ_MODEL]")
	flags.StringVar(&a.today, "today", envOr("LEDGERQ_TODAY", ""), "reference date for relative ranges, YYYY-MM-DD (default: today) [$LEDGERQ_TODAY]")
	flags.StringVar(&a.logLevel, "log-level", envOr("LEDGERQ_LOG_LEVEL", "warn"), "log level: debug, info, warn, error [$LEDGERQ_LOG_LEVEL]")
	flags.StringVar(&a.format, "format", "text", "output format: text, json, pretty, csv")
	flags.BoolVar(&a.pretty, "pretty", envBool("LEDGERQ_PRETTY", false), "shorthand for --format pretty [$LEDGERQ_PRETTY]")
	flags.IntVar(&a.topN, "top", 0, "summary breakdown size (default 5)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}

	rootCmd.AddCommand(
		newAskCmd(a),
		newExecCmd(a),
		newBatchCmd(a),
		newResolveCmd(a),
		versionCmd,
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// envOr returns the environment value for key, or def when unset or blank.
func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envBool reads a boolean environment variable. 1/true/yes/on are true,
// 0/false/no/off are false, anything else is def.
func envBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}
