package helpers

import (
	"maps"
	"slices"
	"strings"

	"github.com/spektr-org/ledgerq/engine"
	"github.com/spektr-org/ledgerq/schema"
)

// ============================================================================
// ROW HELPER — untyped ledger rows → []engine.Record
// ============================================================================
// Rows come from spreadsheet clients, JSON exports and warehouse queries.
// Keys are matched through schema.Ledger (case- and separator-insensitive);
// unknown keys are ignored. Values are coerced the same way the plan
// normalizer coerces model output, so a bad cell never fails the snapshot.
// ============================================================================

// FromRows converts untyped rows into records, preserving order.
func FromRows(rows []map[string]any) []engine.Record {
	records := make([]engine.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, FromRow(row))
	}
	return records
}

// FromRow converts one untyped row into a record. A missing or unparseable
// amount is zero; missing dates stay zero. Categories that match the
// ledger vocabulary take its spelling. When two keys name the same
// column, the one that sorts first wins.
func FromRow(row map[string]any) engine.Record {
	var r engine.Record
	seen := make(map[string]bool, len(row))
	for _, k := range slices.Sorted(maps.Keys(row)) {
		v := row[k]
		col, ok := schema.Ledger.Lookup(k)
		if !ok || v == nil || seen[col.Key] {
			continue
		}
		seen[col.Key] = true
		switch col.Key {
		case "date":
			if t, ok := engine.ParseDate(v); ok {
				r.Date = t
			}
			r.DateText = cellText(v)
			if r.DateText == "" && !r.Date.IsZero() {
				r.DateText = r.Date.Format(engine.DateLayout)
			}
		case "processed_date":
			if t, ok := engine.ParseTimestamp(v); ok {
				r.ProcessedDate = t
			}
		case "amount":
			if d, ok := engine.AsDecimal(v); ok {
				r.Amount = d
			}
		case "vendor":
			r.Vendor = cellText(v)
		case "category":
			r.Category = cellText(v)
			if c, ok := schema.Ledger.CanonicalCategory(r.Category); ok {
				r.Category = c
			}
		case "description":
			r.Description = cellText(v)
		case "location":
			r.Location = cellText(v)
		case "payment_method":
			r.PaymentMethod = cellText(v)
		case "receipt_number":
			r.ReceiptNumber = cellText(v)
		case "receipt_link":
			r.ReceiptLink = cellText(v)
		}
	}
	return r
}

// cellText renders string cells trimmed and leaves typed values to the
// fields that know how to parse them.
func cellText(v any) string {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
