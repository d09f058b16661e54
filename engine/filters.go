package engine

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================================
// FILTERS — predicate filtering via RecordView
// ============================================================================
// Single-pass filter: checks ALL constraints per record in one loop.
// Returns a SubView (index list into parent) — zero data copy.
//
// Relaxation is caller-level policy, expressed as an ordered list of steps
// (relaxSteps). The first step that yields records wins.
// ============================================================================

// DateField selects which record date the time range is tested against.
type DateField int

const (
	DateFieldTransaction DateField = iota
	DateFieldProcessed
)

// ApplyFilters returns a view of records matching every predicate.
// Vendor and category comparisons are case-insensitive.
func ApplyFilters(view RecordView, filters Filters, window DateRange, field DateField) RecordView {
	m := newMatcher(filters, window, field)

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if m.match(view.At(i)) {
			indices = append(indices, i)
		}
	}
	return newSubView(view, indices)
}

type matcher struct {
	vendors    map[string]bool
	categories map[string]bool
	min, max   decimal.NullDecimal
	needle     string
	start, end *time.Time
	field      DateField
}

func newMatcher(f Filters, window DateRange, field DateField) matcher {
	m := matcher{
		min:   f.MinAmount,
		max:   f.MaxAmount,
		start: window.Start,
		end:   window.End,
		field: field,
	}
	if len(f.Vendors) > 0 {
		m.vendors = toLowerSet(f.Vendors)
	}
	if len(f.Categories) > 0 {
		m.categories = toLowerSet(f.Categories)
	}
	m.needle = strings.ToLower(strings.TrimSpace(f.TextSearch))
	return m
}

func (m matcher) match(r Record) bool {
	if m.categories != nil && !m.categories[strings.ToLower(strings.TrimSpace(r.Category))] {
		return false
	}
	if m.vendors != nil && !m.vendors[strings.ToLower(strings.TrimSpace(r.Vendor))] {
		return false
	}
	if m.min.Valid && r.Amount.LessThan(m.min.Decimal) {
		return false
	}
	if m.max.Valid && r.Amount.GreaterThan(m.max.Decimal) {
		return false
	}
	if m.start != nil || m.end != nil {
		d := r.Date
		if m.field == DateFieldProcessed {
			d = r.ProcessedDate
		}
		// A missing date only fails a bound that is present.
		if d.IsZero() {
			return false
		}
		d = truncateDay(d)
		if m.start != nil && d.Before(*m.start) {
			return false
		}
		if m.end != nil && d.After(*m.end) {
			return false
		}
	}
	if m.needle != "" {
		haystack := strings.ToLower(r.Description + " " + r.Vendor + " " + r.Location)
		if !strings.Contains(haystack, m.needle) {
			return false
		}
	}
	return true
}

// ============================================================================
// RELAXATION — ordered fallback when the primary filter finds nothing
// ============================================================================

// RelaxStep names the filter pass that produced a result.
type RelaxStep string

const (
	RelaxNone          RelaxStep = "transaction_date"
	RelaxProcessedDate RelaxStep = "processed_date"
	RelaxNoCategory    RelaxStep = "processed_date_without_category"
)

type relaxStep struct {
	step     RelaxStep
	field    DateField
	dropCats bool
	applies  func(TimeRange, Filters) bool
}

// relaxSteps run in this fixed order, one at a time. The fallback steps
// need a relative symbol that resolved to at least one date bound.
var relaxSteps = []relaxStep{
	{
		step:    RelaxNone,
		field:   DateFieldTransaction,
		applies: func(TimeRange, Filters) bool { return true },
	},
	{
		step:  RelaxProcessedDate,
		field: DateFieldProcessed,
		applies: func(tr TimeRange, _ Filters) bool {
			return tr.Relative != RelativeNone && !tr.IsOpen()
		},
	},
	{
		step:     RelaxNoCategory,
		field:    DateFieldProcessed,
		dropCats: true,
		applies: func(tr TimeRange, f Filters) bool {
			return tr.Relative != RelativeNone && !tr.IsOpen() && len(f.Categories) > 0
		},
	},
}

// FilterWithFallback filters view by the plan's predicates, relaxing them
// step by step while the result is empty. It returns the last attempted
// result (possibly empty) and the step that produced it.
func FilterWithFallback(view RecordView, filters Filters, tr TimeRange) (RecordView, RelaxStep) {
	var (
		out  RecordView
		used RelaxStep
	)
	for _, s := range relaxSteps {
		if !s.applies(tr, filters) {
			continue
		}
		f := filters
		if s.dropCats {
			f.Categories = nil
		}
		out = ApplyFilters(view, f, tr.DateRange, s.field)
		used = s.step
		if out.Len() > 0 {
			break
		}
	}
	return out, used
}

// toLowerSet converts a string slice to a lowercase lookup set.
func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(strings.TrimSpace(item))] = true
	}
	return set
}
