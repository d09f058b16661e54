package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/theory/jsonpath"
)

// ============================================================================
// COERCION — total conversions from untyped JSON values
// ============================================================================
// Every function here accepts anything a JSON decoder (or a spreadsheet
// client) can produce and either returns a typed value or reports absence.
// None of them fail.
// ============================================================================

// field is an ordered list of JSONPath candidates for one canonical field.
// Earlier paths win; later ones are synonyms and legacy spellings.
type field []*jsonpath.Path

func paths(exprs ...string) field {
	f := make(field, len(exprs))
	for i, e := range exprs {
		f[i] = jsonpath.MustParse(e)
	}
	return f
}

// values returns every non-null value the candidates select, in order.
func (f field) values(raw any) []any {
	var out []any
	for _, p := range f {
		for _, v := range p.Select(raw) {
			if v != nil {
				out = append(out, v)
			}
		}
	}
	return out
}

// first returns the first non-null value, or nil.
func (f field) first(raw any) any {
	if vs := f.values(raw); len(vs) > 0 {
		return vs[0]
	}
	return nil
}

// ============================================================================
// SCALARS
// ============================================================================

// asString renders scalars as trimmed strings. Maps, slices and bools
// are not strings.
func asString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		if s == "" || isNullWord(s) {
			return "", false
		}
		return s, true
	case json.Number:
		return x.String(), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", x), true
	case fmt.Stringer:
		return asString(x.String())
	default:
		return "", false
	}
}

// isNullWord catches models that write null as a string.
func isNullWord(s string) bool {
	switch strings.ToLower(s) {
	case "null", "none", "nil", "n/a", "undefined":
		return true
	}
	return false
}

// AsDecimal parses a number, numeric string, or currency string such as
// "$1,234.50". Anything else is absent (never zero).
func AsDecimal(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(x), true
	case float32:
		return AsDecimal(float64(x))
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int32:
		return decimal.NewFromInt(int64(x)), true
	case int64:
		return decimal.NewFromInt(x), true
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		return d, err == nil
	case string:
		s := strings.TrimSpace(x)
		s = strings.TrimPrefix(s, "$")
		s = strings.ReplaceAll(s, ",", "")
		s = strings.TrimSpace(s)
		if s == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(s)
		return d, err == nil
	default:
		return decimal.Zero, false
	}
}

func asNullDecimal(v any) decimal.NullDecimal {
	d, ok := AsDecimal(v)
	return decimal.NullDecimal{Decimal: d, Valid: ok}
}

// asPositiveInt truncates numbers toward zero; non-positive is absent.
func asPositiveInt(v any) (int, bool) {
	d, ok := AsDecimal(v)
	if !ok {
		return 0, false
	}
	n := d.IntPart()
	if n <= 0 || n > math.MaxInt32 {
		return 0, false
	}
	return int(n), true
}

// asBool accepts booleans, the usual truthy/falsy words, and numbers.
func asBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "1", "true", "yes", "on", "y":
			return true, true
		case "0", "false", "no", "off", "n":
			return false, true
		}
		return false, false
	default:
		if d, ok := AsDecimal(v); ok {
			return !d.IsZero(), true
		}
		return false, false
	}
}

// asStringSet accepts a scalar or a list and returns trimmed, de-duplicated
// strings in input order. Non-coercible input yields nil.
func asStringSet(v any) []string {
	var items []any
	switch x := v.(type) {
	case []any:
		items = x
	case []string:
		for _, s := range x {
			items = append(items, s)
		}
	default:
		items = []any{v}
	}

	seen := make(map[string]bool, len(items))
	var out []string
	for _, item := range items {
		s, ok := asString(item)
		if !ok {
			continue
		}
		key := strings.ToLower(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

// ============================================================================
// DATES
// ============================================================================

var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04:05",
	"1/2/2006 15:04:05",
	"Jan 2, 2006",
	"January 2, 2006",
	"02-Jan-2006",
}

// ParseTimestamp parses the date and timestamp spellings seen in ledger
// exports and model output.
func ParseTimestamp(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, !x.IsZero()
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return *x, !x.IsZero()
	}
	s, ok := asString(v)
	if !ok {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDate is ParseTimestamp reduced to a calendar date.
func ParseDate(v any) (time.Time, bool) {
	t, ok := ParseTimestamp(v)
	if !ok {
		return time.Time{}, false
	}
	return truncateDay(t), true
}

func asDatePtr(v any) *time.Time {
	t, ok := ParseDate(v)
	if !ok {
		return nil
	}
	return &t
}

// enumKey folds "Top-N", "top n" and "TOP_N" onto one spelling.
func enumKey(v any) (string, bool) {
	s, ok := asString(v)
	if !ok {
		return "", false
	}
	s = strings.ToLower(s)
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	return s, true
}
