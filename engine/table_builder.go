package engine

import (
	"fmt"
	"strings"
)

// ============================================================================
// TABLE BUILDER — produces TableData from records or buckets
// ============================================================================
// Rows come out in the order received. Any ordering the plan asks for has
// already been applied by the aggregators.
// ============================================================================

// RecordColumns is the header of a record listing.
var RecordColumns = []string{"Date", "Vendor", "Amount", "Category"}

// detailedColumns extend RecordColumns for the detailed format.
var detailedColumns = []string{"Description", "Location", "Payment Method", "Receipt"}

// BuildTable produces the table for an aggregation. Modes that summarize
// buckets get a bucket table; everything else lists the records in view.
func BuildTable(agg Aggregation, view RecordView, detailed bool) *TableData {
	switch agg.Mode {
	case ModeTopN, ModeTrend, ModeGroup:
		return buildBucketTable(agg)
	case ModeCompare:
		return buildCompareTable(agg.Comparison)
	case ModeSearch:
		return buildRecordTable(agg.Records, detailed)
	default:
		return buildRecordTable(view, detailed)
	}
}

// ============================================================================
// RECORD TABLE — row per record
// ============================================================================

func buildRecordTable(view RecordView, detailed bool) *TableData {
	columns := append([]string{}, RecordColumns...)
	if detailed {
		columns = append(columns, detailedColumns...)
	}

	n := 0
	if view != nil {
		n = view.Len()
	}
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		r := view.At(i)
		row := []string{r.DateKey(), r.Vendor, FormatAmount(r.Amount), r.Category}
		if detailed {
			row = append(row, r.Description, r.Location, r.PaymentMethod, r.ReceiptNumber)
		}
		rows = append(rows, row)
	}
	return &TableData{Columns: columns, Rows: rows}
}

// ============================================================================
// BUCKET TABLE — row per bucket
// ============================================================================

func buildBucketTable(agg Aggregation) *TableData {
	rows := make([][]string, 0, len(agg.Buckets))
	for _, b := range agg.Buckets {
		rows = append(rows, []string{b.Key, FormatAmount(b.Total), fmt.Sprintf("%d", b.Count)})
	}
	return &TableData{
		Columns: []string{LabelForDimension(agg.Dimension), "Total", "Count"},
		Rows:    rows,
	}
}

func buildCompareTable(c *Comparison) *TableData {
	t := &TableData{Columns: []string{"Window", "Range", "Total", "Count"}, Rows: [][]string{}}
	if c == nil {
		return t
	}
	t.Rows = append(t.Rows,
		[]string{"Baseline", FormatRange(c.Baseline), FormatAmount(c.BaselineTotal), fmt.Sprintf("%d", c.BaselineCount)},
		[]string{"Target", FormatRange(c.Target), FormatAmount(c.TargetTotal), fmt.Sprintf("%d", c.TargetCount)},
		[]string{"Change", FormatPercent(c.Percent), FormatAmount(c.Delta), fmt.Sprintf("%d", c.TargetCount-c.BaselineCount)},
	)
	return t
}

// ============================================================================
// TEXT RENDERING
// ============================================================================

// String renders the table as a header line followed by one line per row,
// cells separated by " | ".
func (t *TableData) String() string {
	if t == nil {
		return ""
	}
	lines := make([]string, 0, len(t.Rows)+1)
	lines = append(lines, strings.Join(t.Columns, " | "))
	for _, row := range t.Rows {
		lines = append(lines, strings.Join(row, " | "))
	}
	return strings.Join(lines, "\n")
}
