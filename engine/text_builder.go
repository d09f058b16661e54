package engine

import (
	"fmt"
	"strings"
	"time"
)

// ============================================================================
// TEXT BUILDER — one-line answers for the summary format
// ============================================================================
// Amounts are fixed to two decimals. Breakdown entries are "key: total"
// joined with "; ".
// ============================================================================

// BuildText renders an aggregation as a single human-readable string.
func BuildText(agg Aggregation) string {
	switch agg.Mode {
	case ModeVendorTotal:
		return fmt.Sprintf("Summary: %s at %s totaling %s.",
			plural(agg.Count, "expense"), agg.Vendor, FormatAmount(agg.Total))

	case ModeSearch:
		return fmt.Sprintf("Found %s totaling %s.",
			plural(agg.Count, "matching expense"), FormatAmount(agg.Total))

	case ModeTopN:
		if len(agg.Buckets) == 0 {
			return fmt.Sprintf("Top %ss: no matching expenses.", agg.Dimension)
		}
		return fmt.Sprintf("Top %d %ss by total: %s", len(agg.Buckets), agg.Dimension, joinBuckets(agg.Buckets))

	case ModeTrend:
		if len(agg.Buckets) == 0 {
			return fmt.Sprintf("Trend by %s: no matching expenses.", agg.Dimension)
		}
		return fmt.Sprintf("Trend by %s: %s", agg.Dimension, joinBuckets(agg.Buckets))

	case ModeGroup:
		if len(agg.Buckets) == 0 {
			return fmt.Sprintf("Totals by %s: no matching expenses.", agg.Dimension)
		}
		return fmt.Sprintf("Totals by %s: %s", agg.Dimension, joinBuckets(agg.Buckets))

	case ModeCompare:
		return buildCompareText(agg.Comparison)

	default:
		text := fmt.Sprintf("Summary: %s totaling %s.", plural(agg.Count, "expense"), FormatAmount(agg.Total))
		if len(agg.Buckets) > 0 {
			text += fmt.Sprintf(" By %s: %s", agg.Dimension, joinBuckets(agg.Buckets))
		}
		return text
	}
}

func buildCompareText(c *Comparison) string {
	if c == nil {
		return "Compare: no windows to compare."
	}
	return fmt.Sprintf("Compare: %s total %s (%d) vs %s total %s (%d). Change: %s (%s)",
		FormatRange(c.Baseline), FormatAmount(c.BaselineTotal), c.BaselineCount,
		FormatRange(c.Target), FormatAmount(c.TargetTotal), c.TargetCount,
		FormatAmount(c.Delta), FormatPercent(c.Percent))
}

func joinBuckets(buckets []Bucket) string {
	parts := make([]string, len(buckets))
	for i, b := range buckets {
		parts[i] = b.Key + ": " + FormatAmount(b.Total)
	}
	return strings.Join(parts, "; ")
}

// FormatRange renders an inclusive range as "start..end". Open bounds
// render as "*".
func FormatRange(r DateRange) string {
	return formatBound(r.Start) + ".." + formatBound(r.End)
}

func formatBound(t *time.Time) string {
	if t == nil {
		return "*"
	}
	return t.Format(DateLayout)
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
