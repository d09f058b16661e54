package helpers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spektr-org/ledgerq/engine"
	"github.com/spektr-org/ledgerq/schema"
)

// ============================================================================
// CSV HELPER — parses a ledger CSV export into []engine.Record
// ============================================================================
// Consumer reads the CSV from wherever it lives (file, GCS, Sheets export).
// The header is mapped through schema.Ledger; columns that are not part of
// the ledger are skipped and reported.
// ============================================================================

// ParseCSV parses a ledger CSV export. Rows with the wrong field count are
// skipped. It fails when the header is unreadable or lacks a required
// ledger column.
func ParseCSV(r io.Reader) ([]engine.Record, []schema.SkippedColumn, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}

	mapping, skipped, err := schema.Ledger.MapHeader(headers)
	if err != nil {
		return nil, skipped, err
	}

	var records []engine.Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		if len(row) != len(headers) || isBlank(row) {
			continue
		}

		cells := make(map[string]any, len(mapping))
		for i, key := range mapping {
			cells[key] = row[i]
		}
		records = append(records, FromRow(cells))
	}

	return records, skipped, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
