package schema

import (
	"fmt"
	"strings"
	"unicode"
)

// ============================================================================
// SCHEMA — the expense ledger's column layout and category vocabulary
// ============================================================================
// The ledger is a fixed 12-column sheet. Exports reach us with whatever
// header spelling the exporting tool chose, so every lookup goes through
// CanonicalKey ("Payment Method" == "payment_method" == "paymentMethod").
// The translator reads Categories to build its prompt.
// ============================================================================

// ColumnType is the value type stored in a ledger column.
type ColumnType string

const (
	TypeDate      ColumnType = "date"
	TypeTimestamp ColumnType = "timestamp"
	TypeText      ColumnType = "text"
	TypeAmount    ColumnType = "amount"
	TypeNumber    ColumnType = "number"
	TypeURL       ColumnType = "url"
)

// Config describes a ledger layout.
type Config struct {
	Name        string   `json:"name"`
	Version     string   `json:"version,omitempty"`
	Description string   `json:"description,omitempty"`
	Columns     []Column `json:"columns"`
	Categories  []string `json:"categories"`
}

// Column describes one ledger column.
type Column struct {
	Key         string     `json:"key"`
	DisplayName string     `json:"displayName"`
	Type        ColumnType `json:"type"`
	Required    bool       `json:"required,omitempty"`
	Aliases     []string   `json:"aliases,omitempty"` // other header spellings seen in exports
}

// SkippedColumn records a header that did not map to any ledger column.
type SkippedColumn struct {
	Column string `json:"column"`
	Reason string `json:"reason"`
}

// Ledger is the expense sheet layout, in sheet column order.
var Ledger = Config{
	Name:        "expense_ledger",
	Version:     "1",
	Description: "Business expenses extracted from receipts",
	Columns: []Column{
		{Key: "date", DisplayName: "Date", Type: TypeDate, Required: true, Aliases: []string{"transaction_date", "txn_date"}},
		{Key: "vendor", DisplayName: "Vendor", Type: TypeText, Required: true, Aliases: []string{"merchant", "payee"}},
		{Key: "amount", DisplayName: "Amount", Type: TypeAmount, Required: true, Aliases: []string{"total", "total_amount"}},
		{Key: "category", DisplayName: "Category", Type: TypeText},
		{Key: "description", DisplayName: "Description", Type: TypeText, Aliases: []string{"items", "memo"}},
		{Key: "receipt_link", DisplayName: "Receipt Link", Type: TypeURL, Aliases: []string{"receipt_url", "link"}},
		{Key: "payment_method", DisplayName: "Payment Method", Type: TypeText},
		{Key: "receipt_number", DisplayName: "Receipt Number", Type: TypeText, Aliases: []string{"receipt_no", "receipt_id"}},
		{Key: "tax_amount", DisplayName: "Tax Amount", Type: TypeAmount, Aliases: []string{"tax"}},
		{Key: "location", DisplayName: "Location", Type: TypeText, Aliases: []string{"address"}},
		{Key: "processed_date", DisplayName: "Processed Date", Type: TypeTimestamp, Aliases: []string{"processed_at", "processed", "timestamp", "created_at"}},
		{Key: "confidence", DisplayName: "Confidence", Type: TypeNumber, Aliases: []string{"ocr_confidence"}},
	},
	Categories: []string{
		"Office Supplies",
		"Groceries",
		"Travel & Transportation",
		"Meals & Entertainment",
		"Equipment & Software",
		"Professional Services",
		"Marketing & Advertising",
		"Utilities & Communications",
		"Training & Education",
		"Maintenance & Repairs",
		"Other Business Expenses",
	},
}

// CanonicalKey folds a header or field name onto a case- and
// separator-insensitive key.
func CanonicalKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// ColumnKeys returns the column keys in sheet order.
func (c Config) ColumnKeys() []string {
	keys := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		keys[i] = col.Key
	}
	return keys
}

// Lookup finds the column a header names, by key, display name or alias.
func (c Config) Lookup(header string) (Column, bool) {
	want := CanonicalKey(header)
	if want == "" {
		return Column{}, false
	}
	for _, col := range c.Columns {
		if CanonicalKey(col.Key) == want || CanonicalKey(col.DisplayName) == want {
			return col, true
		}
		for _, a := range col.Aliases {
			if CanonicalKey(a) == want {
				return col, true
			}
		}
	}
	return Column{}, false
}

// MapHeader maps each header position to a column key. Unknown headers and
// repeats of an already-mapped column are reported as skipped. It fails only
// when a required column is missing.
func (c Config) MapHeader(header []string) (map[int]string, []SkippedColumn, error) {
	mapping := make(map[int]string, len(header))
	seen := make(map[string]bool, len(header))
	var skipped []SkippedColumn

	for i, h := range header {
		col, ok := c.Lookup(h)
		switch {
		case !ok:
			skipped = append(skipped, SkippedColumn{Column: h, Reason: "not a ledger column"})
		case seen[col.Key]:
			skipped = append(skipped, SkippedColumn{Column: h, Reason: "duplicate of " + col.Key})
		default:
			mapping[i] = col.Key
			seen[col.Key] = true
		}
	}

	var missing []string
	for _, col := range c.Columns {
		if col.Required && !seen[col.Key] {
			missing = append(missing, col.Key)
		}
	}
	if len(missing) > 0 {
		return nil, skipped, fmt.Errorf("ledger header missing required columns: %s", strings.Join(missing, ", "))
	}
	return mapping, skipped, nil
}

// CanonicalCategory returns the vocabulary spelling of a category name.
func (c Config) CanonicalCategory(name string) (string, bool) {
	want := CanonicalKey(name)
	if want == "" {
		return "", false
	}
	for _, cat := range c.Categories {
		if CanonicalKey(cat) == want {
			return cat, true
		}
	}
	return "", false
}
