package engine

// ============================================================================
// EXECUTOR — canonical plan + record snapshot → render-ready Result
// ============================================================================
// Entry points: Run(raw, records, query, opts...) and
//               Execute(plan, records, query, opts...)
//
// Pipeline:
//   1. Infer a vendor from the query text (vendor-oriented plans only)
//   2. Filter with ordered relaxation → SubView
//   3. Select one aggregation mode and aggregate
//   4. Dispatch to builder (text / table / chart)
//   5. Return Result
//
// No I/O and no shared state. Concurrent calls over independent (or
// read-only shared) snapshots need no coordination.
// ============================================================================

// Run normalizes a raw plan and executes it.
func Run(raw map[string]any, records []Record, query string, opts ...Option) *Result {
	cfg := applyOptions(opts)
	return execute(normalize(raw, cfg), NewSliceView(records), query, cfg)
}

// Execute runs a canonical plan against a record snapshot. query is the
// user's original question and may be empty; it is only used for vendor
// inference.
func Execute(plan Plan, records []Record, query string, opts ...Option) *Result {
	cfg := applyOptions(opts)
	return execute(plan, NewSliceView(records), query, cfg)
}

// ExecuteView is Execute over an existing RecordView.
func ExecuteView(plan Plan, view RecordView, query string, opts ...Option) *Result {
	cfg := applyOptions(opts)
	return execute(plan, view, query, cfg)
}

func execute(plan Plan, all RecordView, query string, cfg *config) *Result {
	plan = withDefaults(plan)
	log := cfg.Logger.With().Str("intent", string(plan.Intent)).Logger()

	// 1. Vendor inference
	var inferred string
	if query != "" && len(plan.Filters.Vendors) == 0 && vendorOriented(plan) {
		if v, ok := inferVendor(query, knownVendors(all), cfg.StopWords); ok {
			inferred = v
			plan.Filters.Vendors = []string{v}
			log.Debug().Str("vendor", v).Msg("vendor inferred from query")
		}
	}

	// 2. Filter with relaxation
	filtered, step := FilterWithFallback(all, plan.Filters, plan.TimeRange)
	log.Debug().
		Int("records", all.Len()).
		Int("matched", filtered.Len()).
		Str("relaxation", string(step)).
		Msg("filters applied")

	// 3. Aggregate
	mode := selectMode(plan)
	agg := aggregate(mode, plan, all, filtered, cfg)

	// 4. Render
	result := &Result{
		Mode:           mode,
		Format:         plan.Output.Format,
		Plan:           plan,
		Aggregation:    agg,
		Relaxation:     step,
		InferredVendor: inferred,
	}

	switch plan.Output.Format {
	case FormatChart:
		result.Chart = BuildChart(plan.Output.Chart, agg)
		result.Text = result.Chart.String()
	case FormatTable, FormatDetailed:
		result.Table = BuildTable(agg, filtered, plan.Output.Format == FormatDetailed)
		result.Text = result.Table.String()
	default:
		result.Text = BuildText(agg)
	}

	log.Debug().
		Str("mode", string(mode)).
		Str("format", string(result.Format)).
		Str("total", FormatAmount(agg.Total)).
		Int("count", agg.Count).
		Msg("query executed")

	return result
}

// withDefaults fills enum fields a hand-built Plan left empty with the
// values Normalize would have chosen.
func withDefaults(p Plan) Plan {
	if p.Intent == "" {
		p.Intent = IntentSummary
	}
	if p.GroupBy == "" {
		p.GroupBy = GroupNone
	}
	if p.Trend.Granularity == "" {
		p.Trend.Granularity = GranularityMonth
	}
	if p.TopN.Dimension == "" {
		p.TopN.Dimension = DimensionVendor
		if p.GroupBy == GroupCategory {
			p.TopN.Dimension = DimensionCategory
		}
	}
	if p.TopN.Limit <= 0 {
		p.TopN.Limit = DefaultTopNLimit
	}
	if p.Sort.By == "" {
		p.Sort.By = SortDate
		p.Sort.Explicit = false
	}
	if p.Sort.Direction == "" {
		p.Sort.Direction = Desc
	}
	if p.Output.Format == "" {
		p.Output.Format = FormatSummary
	}
	return p
}
