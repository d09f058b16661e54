package engine

import "fmt"

// ============================================================================
// CHART BUILDER — produces a ChartDescriptor from an Aggregation
// ============================================================================
// The descriptor names the chart and counts its points. The series itself
// stays in the Aggregation; drawing is left to the presentation layer.
// ============================================================================

// BuildChart describes the chart for an aggregation. Hints from the plan
// win; unset hints are derived from the mode.
func BuildChart(spec ChartSpec, agg Aggregation) *ChartDescriptor {
	d := &ChartDescriptor{
		Type:      spec.Type,
		Dimension: spec.Dimension,
		Metric:    spec.Metric,
		Points:    chartPoints(agg),
	}
	if d.Type == "" {
		d.Type = defaultChartType(agg.Mode)
	}
	if d.Dimension == "" {
		d.Dimension = defaultChartDimension(agg)
	}
	if d.Metric == "" {
		d.Metric = MetricTotal
		if agg.Mode == ModeSearch {
			d.Metric = MetricAmount
		}
	}
	return d
}

// String renders the descriptor in the single-line form shown to users.
func (d *ChartDescriptor) String() string {
	if d == nil {
		return ""
	}
	return fmt.Sprintf("chart: type=%s dimension=%s metric=%s points=%d", d.Type, d.Dimension, d.Metric, d.Points)
}

func chartPoints(agg Aggregation) int {
	switch agg.Mode {
	case ModeCompare:
		if agg.Comparison == nil {
			return 0
		}
		return 2
	case ModeSearch:
		if agg.Records == nil {
			return 0
		}
		return agg.Records.Len()
	case ModeVendorTotal:
		return 1
	default:
		return len(agg.Buckets)
	}
}

func defaultChartType(mode Mode) ChartType {
	switch mode {
	case ModeTrend:
		return ChartLine
	case ModeSummary:
		return ChartPie
	default:
		return ChartBar
	}
}

func defaultChartDimension(agg Aggregation) ChartDimension {
	switch agg.Mode {
	case ModeTrend, ModeCompare, ModeSearch:
		return ChartByDate
	}
	switch agg.Dimension {
	case string(DimensionCategory):
		return ChartByCategory
	case string(GroupDate):
		return ChartByDate
	default:
		return ChartByVendor
	}
}
