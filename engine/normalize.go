package engine

import "time"

// ============================================================================
// PLAN NORMALIZER — raw model output → canonical Plan
// ============================================================================
// The translator's JSON is untrusted: fields may be missing, null, the wrong
// type, outside their enumeration, or spelled with a legacy synonym
// (query_type, period, response_format). Normalize never fails. Anything it
// cannot use is replaced by a documented default.
//
// Defaults:
//   intent             summary
//   group_by           none
//   trend              disabled, month
//   top_n              disabled, dimension = group_by (vendor|category) else vendor, limit 5
//   compare            disabled
//   sort               date desc (Explicit=false)
//   output.format      summary
//   output.chart.*     unspecified
// ============================================================================

// DefaultTopNLimit is the top-N limit when the plan gives none.
const DefaultTopNLimit = 5

var (
	fieldIntent = paths("$.intent", "$.query_type", "$.queryType")

	fieldStart = paths(
		"$.time_range.start_date", "$.time_range.startDate",
		"$.timeRange.startDate", "$.timeRange.start_date", "$.start_date")
	fieldEnd = paths(
		"$.time_range.end_date", "$.time_range.endDate",
		"$.timeRange.endDate", "$.timeRange.end_date", "$.end_date")
	fieldRelative = paths(
		"$.time_range.relative", "$.time_range.period",
		"$.timeRange.relative", "$.timeRange.period", "$.relative", "$.period")

	fieldVendors    = paths("$.filters.vendors", "$.filters.vendor")
	fieldCategories = paths("$.filters.categories", "$.filters.category")
	fieldMinAmount  = paths("$.filters.min_amount", "$.filters.minAmount")
	fieldMaxAmount  = paths("$.filters.max_amount", "$.filters.maxAmount")
	fieldTextSearch = paths("$.filters.text_search", "$.filters.textSearch")

	fieldGroupBy = paths("$.group_by", "$.groupBy")

	fieldTrendEnabled     = paths("$.trend.enabled")
	fieldTrendGranularity = paths("$.trend.granularity")

	fieldTopNEnabled   = paths("$.top_n.enabled", "$.topN.enabled")
	fieldTopNDimension = paths("$.top_n.dimension", "$.topN.dimension")
	fieldTopNLimit     = paths("$.top_n.limit", "$.topN.limit")

	fieldCompareEnabled  = paths("$.compare.enabled")
	fieldCompareBaseline = paths("$.compare.baseline")
	fieldCompareTarget   = paths("$.compare.target")

	fieldSortBy        = paths("$.sort.by", "$.sort_by", "$.sortBy")
	fieldSortDirection = paths("$.sort.direction", "$.sort_direction", "$.sortDirection")

	fieldFormat         = paths("$.output.format", "$.response_format", "$.responseFormat", "$.format")
	fieldChartType      = paths("$.output.chart.type")
	fieldChartDimension = paths("$.output.chart.dimension")
	fieldChartMetric    = paths("$.output.chart.metric")

	// Inside a compare window object.
	fieldWindowStart    = paths("$.start_date", "$.startDate", "$.start")
	fieldWindowEnd      = paths("$.end_date", "$.endDate", "$.end")
	fieldWindowRelative = paths("$.relative", "$.period")
)

var (
	intents      = enumSet(IntentSummary, IntentSearch, IntentAggregate, IntentTrend, IntentTopN, IntentCompare)
	relatives    = enumSet(RelativeThisMonth, RelativeLastMonth, RelativeThisYear, RelativeLast7Days, RelativeLast90Days, RelativeLastQuarter, RelativeCustom)
	groupBys     = enumSet(GroupNone, GroupVendor, GroupCategory, GroupDate)
	granularitys = enumSet(GranularityDay, GranularityWeek, GranularityMonth, GranularityQuarter, GranularityYear)
	dimensions   = enumSet(DimensionVendor, DimensionCategory)
	sortBys      = enumSet(SortAmount, SortDate, SortVendor, SortCategory, SortCount, SortTotal)
	directions   = enumSet(Asc, Desc)
	formats      = enumSet(FormatSummary, FormatTable, FormatDetailed, FormatChart)
	chartTypes   = enumSet(ChartBar, ChartLine, ChartPie, ChartArea)
	chartDims    = enumSet(ChartByVendor, ChartByCategory, ChartByDate)
	chartMetrics = enumSet(MetricAmount, MetricCount, MetricTotal)
)

// Normalize turns an untyped raw plan into a canonical Plan. A nil or empty
// map yields an all-time summary. Relative symbols are resolved against
// WithReferenceDate (default today).
func Normalize(raw map[string]any, opts ...Option) Plan {
	cfg := applyOptions(opts)
	return normalize(raw, cfg)
}

func normalize(raw map[string]any, cfg *config) Plan {
	var doc any = raw
	if raw == nil {
		doc = map[string]any{}
	}

	p := Plan{ReferenceDate: cfg.ReferenceDate}

	p.Intent = pickEnum(doc, fieldIntent, intents, IntentSummary)

	// Time range
	p.TimeRange.Start = asDatePtr(fieldStart.first(doc))
	p.TimeRange.End = asDatePtr(fieldEnd.first(doc))
	p.TimeRange.Relative = pickEnum(doc, fieldRelative, relatives, RelativeNone)

	// Filters
	p.Filters.Vendors = asStringSet(fieldVendors.first(doc))
	p.Filters.Categories = asStringSet(fieldCategories.first(doc))
	p.Filters.MinAmount = asNullDecimal(fieldMinAmount.first(doc))
	p.Filters.MaxAmount = asNullDecimal(fieldMaxAmount.first(doc))
	if s, ok := asString(fieldTextSearch.first(doc)); ok {
		p.Filters.TextSearch = s
	}

	p.GroupBy = pickEnum(doc, fieldGroupBy, groupBys, GroupNone)

	// Trend
	p.Trend.Enabled, _ = asBool(fieldTrendEnabled.first(doc))
	p.Trend.Granularity = pickEnum(doc, fieldTrendGranularity, granularitys, GranularityMonth)

	// Top-N
	p.TopN.Enabled, _ = asBool(fieldTopNEnabled.first(doc))
	defaultDim := DimensionVendor
	if p.GroupBy == GroupCategory {
		defaultDim = DimensionCategory
	}
	p.TopN.Dimension = pickEnum(doc, fieldTopNDimension, dimensions, defaultDim)
	p.TopN.Limit = DefaultTopNLimit
	if n, ok := asPositiveInt(fieldTopNLimit.first(doc)); ok {
		p.TopN.Limit = n
	}

	// Compare
	p.Compare.Enabled, _ = asBool(fieldCompareEnabled.first(doc))
	p.Compare.Baseline = asWindow(fieldCompareBaseline.first(doc), cfg.ReferenceDate)
	p.Compare.Target = asWindow(fieldCompareTarget.first(doc), cfg.ReferenceDate)

	// Sort
	p.Sort.By = pickEnum(doc, fieldSortBy, sortBys, "")
	p.Sort.Explicit = p.Sort.By != ""
	if !p.Sort.Explicit {
		p.Sort.By = SortDate
	}
	p.Sort.Direction = pickEnum(doc, fieldSortDirection, directions, Desc)

	// Output
	p.Output.Format = pickEnum(doc, fieldFormat, formats, FormatSummary)
	p.Output.Chart.Type = pickEnum(doc, fieldChartType, chartTypes, "")
	p.Output.Chart.Dimension = pickEnum(doc, fieldChartDimension, chartDims, "")
	p.Output.Chart.Metric = pickEnum(doc, fieldChartMetric, chartMetrics, "")

	// Relative bounds are filled last and never overwrite explicit dates.
	p.TimeRange.DateRange = fillRange(p.TimeRange.DateRange, p.TimeRange.Relative, cfg.ReferenceDate)

	cfg.Logger.Debug().
		Str("intent", string(p.Intent)).
		Str("relative", string(p.TimeRange.Relative)).
		Str("group_by", string(p.GroupBy)).
		Str("format", string(p.Output.Format)).
		Msg("plan normalized")

	return p
}

// fillRange resolves rel and fills only the bounds that are still nil.
func fillRange(r DateRange, rel Relative, ref time.Time) DateRange {
	if rel == RelativeNone || (r.Start != nil && r.End != nil) {
		return r
	}
	resolved, ok := Resolve(rel, ref)
	if !ok {
		return r
	}
	if r.Start == nil {
		r.Start = resolved.Start
	}
	if r.End == nil {
		r.End = resolved.End
	}
	return r
}

// asWindow reads a compare window. A window with no resolvable bound is nil.
// The window keeps its own relative symbol.
func asWindow(v any, ref time.Time) *TimeRange {
	if _, ok := v.(map[string]any); !ok {
		return nil
	}
	r := DateRange{
		Start: asDatePtr(fieldWindowStart.first(v)),
		End:   asDatePtr(fieldWindowEnd.first(v)),
	}
	rel := pickEnum(v, fieldWindowRelative, relatives, RelativeNone)
	r = fillRange(r, rel, ref)
	if r.IsOpen() {
		return nil
	}
	return &TimeRange{DateRange: r, Relative: rel}
}

// pickEnum returns the first candidate value that belongs to allowed.
func pickEnum[T ~string](doc any, f field, allowed map[T]bool, fallback T) T {
	for _, v := range f.values(doc) {
		key, ok := enumKey(v)
		if !ok {
			continue
		}
		if allowed[T(key)] {
			return T(key)
		}
	}
	return fallback
}

func enumSet[T ~string](values ...T) map[T]bool {
	set := make(map[T]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
