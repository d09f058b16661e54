package engine

import (
	"testing"

	"github.com/shopspring/decimal"
)

func mixedLedger() []Record {
	return []Record{
		rec("ACME", "2024-01-10", "Office Supplies", "10"),
		rec("PaperCo", "2024-01-11", "Office Supplies", "5.5"),
		rec("ACME", "2024-02-01", "Office Supplies", "20"),
		rec("Airline", "2024-02-03", "Travel & Transportation", "300.10"),
		rec("Diner", "2024-03-15", "Meals & Entertainment", "42.25"),
		rec("", "2024-03-16", "", "7.15"),
		rec("Diner", "", "Meals & Entertainment", "3"),
	}
}

func TestSelectModePrecedence(t *testing.T) {
	jan := windowOf("2024-01-01", "2024-01-31")
	cases := []struct {
		name string
		plan Plan
		want Mode
	}{
		{"default", Plan{Intent: IntentSummary, GroupBy: GroupNone}, ModeSummary},
		{"single vendor summary", Plan{Intent: IntentSummary, Filters: Filters{Vendors: []string{"ACME"}}}, ModeVendorTotal},
		{"search", Plan{Intent: IntentSearch, TopN: TopN{Enabled: true}}, ModeSearch},
		{"top_n flag", Plan{Intent: IntentSummary, TopN: TopN{Enabled: true}}, ModeTopN},
		{"top_n single vendor", Plan{Intent: IntentTopN, Filters: Filters{Vendors: []string{"ACME"}}}, ModeVendorTotal},
		{"trend flag", Plan{Intent: IntentAggregate, Trend: Trend{Enabled: true}}, ModeTrend},
		{"group_by", Plan{Intent: IntentSummary, GroupBy: GroupCategory}, ModeGroup},
		{"aggregate", Plan{Intent: IntentAggregate, GroupBy: GroupNone}, ModeGroup},
		{"compare wins", Plan{Intent: IntentSearch, Compare: Compare{Enabled: true, Baseline: jan, Target: jan}}, ModeCompare},
		{"compare without windows", Plan{Intent: IntentCompare, GroupBy: GroupNone}, ModeSummary},
		{"empty group_by", Plan{Intent: IntentSummary}, ModeSummary},
	}
	for _, c := range cases {
		assertEqual(t, selectMode(c.plan), c.want, c.name)
	}
}

func TestSummaryBreakdown(t *testing.T) {
	view := NewSliceView(mixedLedger())
	agg := aggregateSummary(view, 2)
	assertEqual(t, agg.Count, 7, "count")
	assertDecimal(t, agg.Total, "388.00", "total")
	assertKeys(t, agg.Buckets, "Airline", "Diner")
}

func TestSumIsExact(t *testing.T) {
	records := make([]Record, 10000)
	for i := range records {
		records[i] = rec("ACME", "2024-01-01", "X", "0.10")
	}
	total, count := SumAmounts(NewSliceView(records))
	assertEqual(t, count, 10000, "count")
	assertEqual(t, FormatAmount(total), "1000.00", "total")
	assertEqual(t, total.Equal(decimal.NewFromInt(1000)), true, "exact")
}

func TestGroupConservesTotal(t *testing.T) {
	view := NewSliceView(mixedLedger())
	want, _ := SumAmounts(view)

	for _, g := range []GroupBy{GroupVendor, GroupCategory, GroupDate} {
		agg := aggregateGroup(Plan{GroupBy: g}, view)
		sum := decimal.Zero
		count := 0
		for _, b := range agg.Buckets {
			sum = sum.Add(b.Total)
			count += b.Count
		}
		assertEqual(t, sum.Equal(want), true, string(g)+" total")
		assertEqual(t, count, view.Len(), string(g)+" count")
	}

	for _, g := range []Granularity{GranularityDay, GranularityWeek, GranularityMonth, GranularityQuarter, GranularityYear} {
		agg := aggregateTrend(Plan{Trend: Trend{Enabled: true, Granularity: g}}, view)
		sum := decimal.Zero
		for _, b := range agg.Buckets {
			sum = sum.Add(b.Total)
		}
		assertEqual(t, sum.Equal(want), true, string(g)+" trend total")
	}
}

func TestGroupDefaultOrdering(t *testing.T) {
	view := NewSliceView(mixedLedger())

	agg := aggregateGroup(Plan{GroupBy: GroupCategory}, view)
	assertKeys(t, agg.Buckets, "Travel & Transportation", "Meals & Entertainment", "Office Supplies", "Unknown")

	agg = aggregateGroup(Plan{GroupBy: GroupDate}, view)
	assertEqual(t, agg.Buckets[0].Key, "2024-01-10", "first date")
	assertEqual(t, agg.Buckets[len(agg.Buckets)-1].Key, undatedKey, "undated last")
}

func TestGroupExplicitSort(t *testing.T) {
	view := NewSliceView(mixedLedger())
	plan := Plan{GroupBy: GroupVendor, Sort: Sort{By: SortVendor, Direction: Asc, Explicit: true}}
	agg := aggregateGroup(plan, view)
	assertKeys(t, agg.Buckets, "ACME", "Airline", "Diner", "PaperCo", "Unknown")

	plan.Sort = Sort{By: SortCount, Direction: Desc, Explicit: true}
	agg = aggregateGroup(plan, view)
	assertKeys(t, agg.Buckets, "ACME", "Diner", "Airline", "PaperCo", "Unknown")
}

func TestTrendBucketsChronological(t *testing.T) {
	records := []Record{
		rec("A", "2024-03-04", "X", "1"),
		rec("A", "2023-12-31", "X", "2"),
		rec("A", "2024-01-10", "X", "3"),
		rec("A", "2023-01-01", "X", "4"),
	}
	view := NewSliceView(records)

	week := aggregateTrend(Plan{Trend: Trend{Granularity: GranularityWeek}}, view)
	assertKeys(t, week.Buckets, "2022-W52", "2023-W52", "2024-W02", "2024-W10")

	quarter := aggregateTrend(Plan{Trend: Trend{Granularity: GranularityQuarter}}, view)
	assertKeys(t, quarter.Buckets, "2023-Q1", "2023-Q4", "2024-Q1")
	assertEqual(t, quarter.Buckets[2].Count, 2, "2024-Q1 count")

	month := aggregateTrend(Plan{Trend: Trend{Granularity: GranularityMonth}}, view)
	assertKeys(t, month.Buckets, "2023-01", "2023-12", "2024-01", "2024-03")

	year := aggregateTrend(Plan{Trend: Trend{Granularity: GranularityYear}}, view)
	assertKeys(t, year.Buckets, "2023", "2024")
}

func TestTrendWeekOrderIsNumeric(t *testing.T) {
	a := Record{Date: day("2024-12-30")} // ISO 2025-W01
	b := Record{Date: day("2024-12-23")} // ISO 2024-W52
	ka, oa := TrendKey(a, GranularityWeek)
	kb, ob := TrendKey(b, GranularityWeek)
	assertEqual(t, ka, "2025-W01", "key a")
	assertEqual(t, kb, "2024-W52", "key b")
	assertEqual(t, ob < oa, true, "W52 of 2024 sorts before W01 of 2025")
}

func TestTopNIsPrefixOfRanking(t *testing.T) {
	view := NewSliceView(mixedLedger())
	full := RankBuckets(bucketize(view, vendorKey), 0)

	for limit := 1; limit <= len(full)+2; limit++ {
		agg := aggregateTopN(Plan{TopN: TopN{Enabled: true, Dimension: DimensionVendor, Limit: limit}}, view)
		if len(agg.Buckets) > limit {
			t.Fatalf("limit %d: got %d buckets", limit, len(agg.Buckets))
		}
		for i, b := range agg.Buckets {
			if b.Key != full[i].Key || !b.Total.Equal(full[i].Total) {
				t.Errorf("limit %d: bucket %d is %s, want %s", limit, i, b.Key, full[i].Key)
			}
		}
	}
}

func TestTopNTiesBreakByKey(t *testing.T) {
	records := []Record{
		rec("Zeta", "2024-01-01", "X", "10"),
		rec("Alpha", "2024-01-01", "X", "10"),
		rec("Mid", "2024-01-01", "X", "10"),
	}
	agg := aggregateTopN(Plan{TopN: TopN{Dimension: DimensionVendor, Limit: 2}}, NewSliceView(records))
	assertKeys(t, agg.Buckets, "Alpha", "Mid")
}

func TestSearchSortOnlyWhenExplicit(t *testing.T) {
	view := NewSliceView(officeLedger())

	agg := aggregateSearch(Plan{Sort: Sort{By: SortDate, Direction: Desc}}, view)
	assertEqual(t, agg.Records.At(0).Amount.String(), "10", "snapshot order kept")

	agg = aggregateSearch(Plan{Sort: Sort{By: SortAmount, Direction: Desc, Explicit: true}}, view)
	assertEqual(t, agg.Records.At(0).Amount.String(), "20", "largest first")
	assertEqual(t, agg.Records.At(2).Amount.String(), "5.5", "smallest last")
}

func TestCompareZeroBaseline(t *testing.T) {
	jan, feb := windowOf("2024-01-01", "2024-01-31"), windowOf("2024-02-01", "2024-02-29")
	records := []Record{rec("ACME", "2024-02-10", "X", "25")}
	agg := aggregateCompare(Plan{Compare: Compare{Enabled: true, Baseline: jan, Target: feb}}, NewSliceView(records))
	c := agg.Comparison
	assertDecimal(t, c.BaselineTotal, "0", "baseline")
	assertDecimal(t, c.Delta, "25", "delta")
	assertDecimal(t, c.Percent, "0", "percent")
}

func TestCompareDefaultBaseline(t *testing.T) {
	feb := windowOf("2024-02-01", "2024-02-29")
	plan := Plan{Compare: Compare{Enabled: true, Target: feb}}
	baseline, target, ok := compareWindows(plan)
	assertEqual(t, ok, true, "resolvable")
	assertDate(t, baseline.Start, "2024-01-03", "baseline start")
	assertDate(t, baseline.End, "2024-01-31", "baseline end")
	assertDate(t, target.End, "2024-02-29", "target end")

	plan = Plan{Compare: Compare{Enabled: true}, TimeRange: TimeRange{DateRange: feb.DateRange, Relative: RelativeThisMonth}}
	_, target, ok = compareWindows(plan)
	assertEqual(t, ok, true, "target from time range")
	assertDate(t, target.Start, "2024-02-01", "target start")
	assertEqual(t, target.Relative, RelativeThisMonth, "target inherits plan symbol")
}

func windowOf(start, end string) *TimeRange {
	return &TimeRange{DateRange: rangeOf(start, end)}
}

func TestCompareRelativeWindowsRelax(t *testing.T) {
	records := []Record{
		rec("ACME", "2019-01-15", "Office Supplies", "4"),
		rec("ACME", "2019-02-10", "Office Supplies", "10"),
	}
	records[0].ProcessedDate = day("2024-01-15")
	records[1].ProcessedDate = day("2024-02-10")

	jan, feb := windowOf("2024-01-01", "2024-01-31"), windowOf("2024-02-01", "2024-02-15")
	jan.Relative, feb.Relative = RelativeLastMonth, RelativeThisMonth

	agg := aggregateCompare(Plan{Compare: Compare{Enabled: true, Baseline: jan, Target: feb}}, NewSliceView(records))
	c := agg.Comparison
	assertDecimal(t, c.BaselineTotal, "4", "baseline from processed date")
	assertDecimal(t, c.TargetTotal, "10", "target from processed date")
	assertEqual(t, c.BaselineCount, 1, "baseline count")
	assertEqual(t, c.TargetCount, 1, "target count")

	// Explicit windows never relax.
	agg = aggregateCompare(Plan{Compare: Compare{Enabled: true, Baseline: windowOf("2024-01-01", "2024-01-31"), Target: windowOf("2024-02-01", "2024-02-15")}}, NewSliceView(records))
	assertDecimal(t, agg.Comparison.TargetTotal, "0", "explicit target")
}

func TestBucketsFoldVendorCase(t *testing.T) {
	records := []Record{
		rec("ACME", "2024-01-05", "Office Supplies", "10"),
		rec("acme ", "2024-01-06", "office supplies", "15"),
		rec("PaperCo", "2024-01-07", "Office Supplies", "20"),
	}
	view := NewSliceView(records)

	buckets := bucketize(view, vendorKey)
	assertKeys(t, buckets, "ACME", "PaperCo")
	assertDecimal(t, buckets[0].Total, "25", "folded total")
	assertEqual(t, buckets[0].Count, 2, "folded count")

	agg := aggregateTopN(Plan{TopN: TopN{Enabled: true, Dimension: DimensionVendor, Limit: 1}}, view)
	assertKeys(t, agg.Buckets, "ACME")
	assertDecimal(t, agg.Buckets[0].Total, "25", "top vendor total")

	assertKeys(t, bucketize(view, categoryKey), "Office Supplies")
}
