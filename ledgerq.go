// Package ledgerq answers natural-language questions about an expense ledger.
//
// Usage:
//
//	import "github.com/spektr-org/ledgerq/engine"
//
//	result := engine.Run(rawPlan, records, question,
//	    engine.WithReferenceDate(today),
//	    engine.WithTopN(5),
//	)
//
// The raw plan is the loosely-typed JSON produced by the translator package.
// The engine normalizes it into a canonical Plan, filters the record snapshot,
// aggregates, and renders a summary line, a table, or a chart descriptor.
//
// The engine never calls any external service. Loading records is the job of
// the store package; talking to the language model is the job of translator.
package ledgerq
