package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================================
// LEDGERQ ENGINE TYPES
// ============================================================================
// Record     — one immutable ledger entry
// Plan       — canonical query plan (only ever produced by Normalize)
// Bucket     — (key, total, count) tuple shared by grouping modes
// Result     — render-ready output
// ============================================================================

// ============================================================================
// RECORD — one expense ledger entry
// ============================================================================

// Record is a single expense as supplied by the record store.
// Date is the transaction date; ProcessedDate is the ingestion timestamp.
// A zero time.Time means the field was missing or unparseable.
type Record struct {
	Date          time.Time       `json:"date"`
	DateText      string          `json:"dateText,omitempty"` // raw date string as stored
	Vendor        string          `json:"vendor"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
	Location      string          `json:"location,omitempty"`
	ProcessedDate time.Time       `json:"processedDate"`

	PaymentMethod string `json:"paymentMethod,omitempty"`
	ReceiptNumber string `json:"receiptNumber,omitempty"`
	ReceiptLink   string `json:"receiptLink,omitempty"`
}

// DateKey returns the raw date string used by date grouping.
func (r Record) DateKey() string {
	if r.DateText != "" {
		return r.DateText
	}
	if r.Date.IsZero() {
		return ""
	}
	return r.Date.Format(DateLayout)
}

// DateLayout is the ISO calendar date layout used throughout the engine.
const DateLayout = "2006-01-02"

// ============================================================================
// PLAN ENUMERATIONS
// ============================================================================

// Intent is what the user wants to know.
type Intent string

const (
	IntentSummary   Intent = "summary"
	IntentSearch    Intent = "search"
	IntentAggregate Intent = "aggregate"
	IntentTrend     Intent = "trend"
	IntentTopN      Intent = "top_n"
	IntentCompare   Intent = "compare"
)

// Relative is a calendar-anchored shorthand for a date range.
// The empty value means no relative symbol was given.
type Relative string

const (
	RelativeNone        Relative = ""
	RelativeThisMonth   Relative = "this_month"
	RelativeLastMonth   Relative = "last_month"
	RelativeThisYear    Relative = "this_year"
	RelativeLast7Days   Relative = "last_7_days"
	RelativeLast90Days  Relative = "last_90_days"
	RelativeLastQuarter Relative = "last_quarter"
	RelativeCustom      Relative = "custom"
)

// GroupBy selects the grouping dimension for aggregate mode.
type GroupBy string

const (
	GroupNone     GroupBy = "none"
	GroupVendor   GroupBy = "vendor"
	GroupCategory GroupBy = "category"
	GroupDate     GroupBy = "date"
)

// Granularity is the trend bucket width.
type Granularity string

const (
	GranularityDay     Granularity = "day"
	GranularityWeek    Granularity = "week"
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
	GranularityYear    Granularity = "year"
)

// Dimension is a ranking dimension for top-N.
type Dimension string

const (
	DimensionVendor   Dimension = "vendor"
	DimensionCategory Dimension = "category"
)

// SortBy is the field a result is ordered by.
type SortBy string

const (
	SortAmount   SortBy = "amount"
	SortDate     SortBy = "date"
	SortVendor   SortBy = "vendor"
	SortCategory SortBy = "category"
	SortCount    SortBy = "count"
	SortTotal    SortBy = "total"
)

// Direction is ascending or descending.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// OutputFormat selects the renderer.
type OutputFormat string

const (
	FormatSummary  OutputFormat = "summary"
	FormatTable    OutputFormat = "table"
	FormatDetailed OutputFormat = "detailed"
	FormatChart    OutputFormat = "chart"
)

// ChartType is a chart kind. Empty means unspecified.
type ChartType string

const (
	ChartBar  ChartType = "bar"
	ChartLine ChartType = "line"
	ChartPie  ChartType = "pie"
	ChartArea ChartType = "area"
)

// ChartDimension is a chart x-axis. Empty means unspecified.
type ChartDimension string

const (
	ChartByVendor   ChartDimension = "vendor"
	ChartByCategory ChartDimension = "category"
	ChartByDate     ChartDimension = "date"
)

// ChartMetric is a chart y-axis. Empty means unspecified.
type ChartMetric string

const (
	MetricAmount ChartMetric = "amount"
	MetricCount  ChartMetric = "count"
	MetricTotal  ChartMetric = "total"
)

// ============================================================================
// PLAN — canonical, fully-typed query plan
// ============================================================================

// DateRange is an inclusive calendar range. A nil bound is open.
type DateRange struct {
	Start *time.Time `json:"startDate"`
	End   *time.Time `json:"endDate"`
}

// IsOpen reports whether neither bound is set.
func (r DateRange) IsOpen() bool {
	return r.Start == nil && r.End == nil
}

// TimeRange is the plan's date constraint.
type TimeRange struct {
	DateRange
	Relative Relative `json:"relative,omitempty"`
}

// Filters are the non-time predicates of a plan.
type Filters struct {
	Vendors    []string            `json:"vendors,omitempty"`
	Categories []string            `json:"categories,omitempty"`
	MinAmount  decimal.NullDecimal `json:"minAmount"`
	MaxAmount  decimal.NullDecimal `json:"maxAmount"`
	TextSearch string              `json:"textSearch,omitempty"`
}

// Trend configures time-series bucketing.
type Trend struct {
	Enabled     bool        `json:"enabled"`
	Granularity Granularity `json:"granularity"`
}

// TopN configures ranking.
type TopN struct {
	Enabled   bool      `json:"enabled"`
	Dimension Dimension `json:"dimension"`
	Limit     int       `json:"limit"`
}

// Compare configures a baseline-vs-target comparison.
type Compare struct {
	Enabled  bool       `json:"enabled"`
	Baseline *TimeRange `json:"baseline,omitempty"`
	Target   *TimeRange `json:"target,omitempty"`
}

// Sort is the requested ordering. Explicit is false when the raw plan did
// not name a valid sort field and the defaults were filled in.
type Sort struct {
	By        SortBy    `json:"by"`
	Direction Direction `json:"direction"`
	Explicit  bool      `json:"explicit"`
}

// ChartSpec carries the optional chart hints from the plan.
type ChartSpec struct {
	Type      ChartType      `json:"type,omitempty"`
	Dimension ChartDimension `json:"dimension,omitempty"`
	Metric    ChartMetric    `json:"metric,omitempty"`
}

// Output selects the renderer and its hints.
type Output struct {
	Format OutputFormat `json:"format"`
	Chart  ChartSpec    `json:"chart"`
}

// Plan is the canonical query plan. Every enum field holds an allowed value.
type Plan struct {
	Intent    Intent    `json:"intent"`
	TimeRange TimeRange `json:"timeRange"`
	Filters   Filters   `json:"filters"`
	GroupBy   GroupBy   `json:"groupBy"`
	Trend     Trend     `json:"trend"`
	TopN      TopN      `json:"topN"`
	Compare   Compare   `json:"compare"`
	Sort      Sort      `json:"sort"`
	Output    Output    `json:"output"`

	// ReferenceDate is the "today" used to resolve relative symbols.
	ReferenceDate time.Time `json:"referenceDate"`
}

// ============================================================================
// AGGREGATION — intermediate computation result
// ============================================================================

// Mode is the aggregation mode chosen for a plan. Exactly one per call.
type Mode string

const (
	ModeSummary     Mode = "summary"
	ModeVendorTotal Mode = "vendor_total"
	ModeSearch      Mode = "search"
	ModeGroup       Mode = "group"
	ModeTrend       Mode = "trend"
	ModeTopN        Mode = "top_n"
	ModeCompare     Mode = "compare"
)

// Bucket is one (key, total, count) tuple.
type Bucket struct {
	Key   string          `json:"key"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`

	order int64 // chronological sort key for date-like buckets
}

// Comparison is the result of a two-window compare.
type Comparison struct {
	Baseline      DateRange       `json:"baseline"`
	Target        DateRange       `json:"target"`
	BaselineTotal decimal.Decimal `json:"baselineTotal"`
	BaselineCount int             `json:"baselineCount"`
	TargetTotal   decimal.Decimal `json:"targetTotal"`
	TargetCount   int             `json:"targetCount"`
	Delta         decimal.Decimal `json:"delta"`
	Percent       decimal.Decimal `json:"percent"`
}

// Aggregation is the tagged result of the aggregation engine.
// Mode says which of the fields below are meaningful.
type Aggregation struct {
	Mode Mode `json:"mode"`

	// Summary, vendor total, search
	Total  decimal.Decimal `json:"total"`
	Count  int             `json:"count"`
	Vendor string          `json:"vendor,omitempty"`

	// Summary breakdown, group, trend, top-N
	Dimension string   `json:"dimension,omitempty"`
	Buckets   []Bucket `json:"buckets,omitempty"`

	Comparison *Comparison `json:"comparison,omitempty"`

	// Search listing
	Records RecordView `json:"-"`
}

// ============================================================================
// RESULT — render-ready output
// ============================================================================

// Result is the engine's render-ready output.
type Result struct {
	Mode   Mode         `json:"mode"`
	Format OutputFormat `json:"format"`
	Text   string       `json:"text"`

	Table *TableData       `json:"table,omitempty"`
	Chart *ChartDescriptor `json:"chart,omitempty"`

	// Pass-through for callers that want the numbers
	Plan           Plan        `json:"plan"`
	Aggregation    Aggregation `json:"aggregation"`
	Relaxation     RelaxStep   `json:"relaxation"`
	InferredVendor string      `json:"inferredVendor,omitempty"`
}

// TableData is a fixed-column table.
type TableData struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// ChartDescriptor describes a chart without carrying the series itself.
type ChartDescriptor struct {
	Type      ChartType      `json:"type"`
	Dimension ChartDimension `json:"dimension"`
	Metric    ChartMetric    `json:"metric"`
	Points    int            `json:"points"`
}
