package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ============================================================================
// AGGREGATORS — mode selection, bucketing, ranking, comparison
// ============================================================================
// One mode per call, chosen by selectMode in a fixed precedence:
//   compare → search → top_n → trend → aggregate/group_by → summary
// All sums use decimal arithmetic.
// ============================================================================

// undatedKey labels records with no usable date in date buckets.
const undatedKey = "undated"

// unknownKey labels records with an empty vendor or category.
const unknownKey = "Unknown"

// selectMode picks the aggregation mode for a plan.
func selectMode(p Plan) Mode {
	if p.Compare.Enabled || p.Intent == IntentCompare {
		if _, _, ok := compareWindows(p); ok {
			return ModeCompare
		}
	}
	switch {
	case p.Intent == IntentSearch:
		return ModeSearch
	case p.Intent == IntentTopN || p.TopN.Enabled:
		if len(p.Filters.Vendors) == 1 {
			return ModeVendorTotal
		}
		return ModeTopN
	case p.Intent == IntentTrend || p.Trend.Enabled:
		return ModeTrend
	case p.Intent == IntentAggregate || (p.GroupBy != GroupNone && p.GroupBy != ""):
		return ModeGroup
	case len(p.Filters.Vendors) == 1:
		return ModeVendorTotal
	default:
		return ModeSummary
	}
}

// aggregate runs the mode's computation. all is the unfiltered snapshot,
// needed by compare to re-filter each window.
func aggregate(mode Mode, p Plan, all, filtered RecordView, cfg *config) Aggregation {
	switch mode {
	case ModeCompare:
		return aggregateCompare(p, all)
	case ModeSearch:
		return aggregateSearch(p, filtered)
	case ModeVendorTotal:
		total, count := SumAmounts(filtered)
		return Aggregation{Mode: mode, Total: total, Count: count, Vendor: p.Filters.Vendors[0]}
	case ModeTopN:
		return aggregateTopN(p, filtered)
	case ModeTrend:
		return aggregateTrend(p, filtered)
	case ModeGroup:
		return aggregateGroup(p, filtered)
	default:
		return aggregateSummary(filtered, cfg.TopN)
	}
}

// ============================================================================
// MODES
// ============================================================================

func aggregateSummary(view RecordView, topN int) Aggregation {
	total, count := SumAmounts(view)
	buckets := bucketize(view, vendorKey)
	sortByTotalDesc(buckets)
	if len(buckets) > topN {
		buckets = buckets[:topN]
	}
	return Aggregation{
		Mode:      ModeSummary,
		Total:     total,
		Count:     count,
		Dimension: string(DimensionVendor),
		Buckets:   buckets,
	}
}

func aggregateSearch(p Plan, view RecordView) Aggregation {
	if p.Sort.Explicit {
		view = reorder(view, recordLess(p.Sort))
	}
	total, count := SumAmounts(view)
	return Aggregation{Mode: ModeSearch, Total: total, Count: count, Records: view}
}

func aggregateTopN(p Plan, view RecordView) Aggregation {
	key := vendorKey
	if p.TopN.Dimension == DimensionCategory {
		key = categoryKey
	}
	total, count := SumAmounts(view)
	buckets := RankBuckets(bucketize(view, key), p.TopN.Limit)
	return Aggregation{
		Mode:      ModeTopN,
		Total:     total,
		Count:     count,
		Dimension: string(p.TopN.Dimension),
		Buckets:   buckets,
	}
}

func aggregateTrend(p Plan, view RecordView) Aggregation {
	g := p.Trend.Granularity
	total, count := SumAmounts(view)
	buckets := bucketize(view, func(r Record) (string, int64) { return TrendKey(r, g) })
	sortChronological(buckets, Asc)
	return Aggregation{
		Mode:      ModeTrend,
		Total:     total,
		Count:     count,
		Dimension: string(g),
		Buckets:   buckets,
	}
}

func aggregateGroup(p Plan, view RecordView) Aggregation {
	group := p.GroupBy
	if group == GroupNone || group == "" {
		group = GroupVendor
	}
	key := vendorKey
	switch group {
	case GroupCategory:
		key = categoryKey
	case GroupDate:
		key = rawDateKey
	}

	total, count := SumAmounts(view)
	buckets := bucketize(view, key)
	sortGroups(buckets, group, p.Sort)
	return Aggregation{
		Mode:      ModeGroup,
		Total:     total,
		Count:     count,
		Dimension: string(group),
		Buckets:   buckets,
	}
}

// ============================================================================
// COMPARE
// ============================================================================

// compareWindows returns the baseline and target windows. A missing target
// falls back to the plan's time range; a missing baseline is the window of
// equal length just before the target. A window without its own relative
// symbol inherits the plan's, which decides whether filter relaxation
// applies to it.
func compareWindows(p Plan) (TimeRange, TimeRange, bool) {
	var target TimeRange
	switch {
	case p.Compare.Target != nil:
		target = *p.Compare.Target
	case !p.TimeRange.IsOpen():
		target = p.TimeRange
	default:
		return TimeRange{}, TimeRange{}, false
	}
	if target.Relative == RelativeNone {
		target.Relative = p.TimeRange.Relative
	}

	var baseline TimeRange
	switch {
	case p.Compare.Baseline != nil:
		baseline = *p.Compare.Baseline
	case target.Start != nil && target.End != nil:
		baseline = TimeRange{DateRange: precedingWindow(target.DateRange), Relative: target.Relative}
	default:
		return TimeRange{}, TimeRange{}, false
	}
	if baseline.Relative == RelativeNone {
		baseline.Relative = p.TimeRange.Relative
	}
	return baseline, target, true
}

func aggregateCompare(p Plan, all RecordView) Aggregation {
	baseline, target, _ := compareWindows(p)

	window := func(tr TimeRange) (decimal.Decimal, int) {
		view, _ := FilterWithFallback(all, p.Filters, tr)
		return SumAmounts(view)
	}
	bTotal, bCount := window(baseline)
	tTotal, tCount := window(target)

	delta := tTotal.Sub(bTotal)
	percent := decimal.Zero
	if !bTotal.IsZero() {
		percent = delta.Div(bTotal).Mul(decimal.NewFromInt(100))
	}

	return Aggregation{
		Mode:  ModeCompare,
		Total: tTotal,
		Count: tCount,
		Comparison: &Comparison{
			Baseline:      baseline.DateRange,
			Target:        target.DateRange,
			BaselineTotal: bTotal,
			BaselineCount: bCount,
			TargetTotal:   tTotal,
			TargetCount:   tCount,
			Delta:         delta,
			Percent:       percent,
		},
	}
}

// ============================================================================
// BUCKETING
// ============================================================================

// bucketKey returns a bucket label and its chronological order. The order
// is only meaningful for date-like keys.
type bucketKey func(Record) (string, int64)

func vendorKey(r Record) (string, int64)   { return labelOrUnknown(r.Vendor), 0 }
func categoryKey(r Record) (string, int64) { return labelOrUnknown(r.Category), 0 }

// rawDateKey groups by the stored date string, not a reduced bucket.
func rawDateKey(r Record) (string, int64) {
	key := strings.TrimSpace(r.DateKey())
	if key == "" {
		return undatedKey, math.MaxInt64
	}
	if d, ok := ParseDate(key); ok {
		return key, int64(d.Year()*10000 + int(d.Month())*100 + d.Day())
	}
	if !r.Date.IsZero() {
		d := r.Date
		return key, int64(d.Year()*10000 + int(d.Month())*100 + d.Day())
	}
	return key, math.MaxInt64
}

// TrendKey reduces a record's transaction date to a granularity bucket.
// Week buckets use the ISO year and week number.
func TrendKey(r Record, g Granularity) (string, int64) {
	d := r.Date
	if d.IsZero() {
		return undatedKey, math.MaxInt64
	}
	y, m, day := d.Date()
	switch g {
	case GranularityDay:
		return d.Format(DateLayout), int64(y*10000 + int(m)*100 + day)
	case GranularityWeek:
		wy, w := d.ISOWeek()
		return fmt.Sprintf("%d-W%02d", wy, w), int64(wy*100 + w)
	case GranularityQuarter:
		q := QuarterOf(d)
		return fmt.Sprintf("%d-Q%d", y, q), int64(y*10 + q)
	case GranularityYear:
		return fmt.Sprintf("%d", y), int64(y)
	default:
		return d.Format("2006-01"), int64(y*100 + int(m))
	}
}

// bucketize sums amount and counts records per key, in first-seen order.
// Keys are compared case-insensitively, the same way filters match them;
// a bucket is labelled with the first spelling seen.
func bucketize(view RecordView, key bucketKey) []Bucket {
	index := make(map[string]int)
	var buckets []Bucket
	for i := 0; i < view.Len(); i++ {
		r := view.At(i)
		k, order := key(r)
		fold := strings.ToLower(k)
		pos, ok := index[fold]
		if !ok {
			pos = len(buckets)
			index[fold] = pos
			buckets = append(buckets, Bucket{Key: k, Total: decimal.Zero, order: order})
		}
		buckets[pos].Total = buckets[pos].Total.Add(r.Amount)
		buckets[pos].Count++
	}
	return buckets
}

func labelOrUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return unknownKey
	}
	return s
}

// ============================================================================
// SORTING
// ============================================================================

// RankBuckets sorts descending by total and keeps at most limit buckets.
// The result is always a prefix of the full ranking.
func RankBuckets(buckets []Bucket, limit int) []Bucket {
	sortByTotalDesc(buckets)
	if limit > 0 && len(buckets) > limit {
		buckets = buckets[:limit]
	}
	return buckets
}

func sortByTotalDesc(buckets []Bucket) {
	sort.SliceStable(buckets, func(i, j int) bool {
		if c := buckets[i].Total.Cmp(buckets[j].Total); c != 0 {
			return c > 0
		}
		return buckets[i].Key < buckets[j].Key
	})
}

func sortChronological(buckets []Bucket, dir Direction) {
	sort.SliceStable(buckets, func(i, j int) bool {
		a, b := buckets[i], buckets[j]
		if a.order != b.order {
			if dir == Desc {
				return a.order > b.order
			}
			return a.order < b.order
		}
		return a.Key < b.Key
	})
}

// sortGroups orders aggregate buckets. Without an explicit sort, date
// groups are chronological and the rest go by total, largest first.
func sortGroups(buckets []Bucket, group GroupBy, s Sort) {
	if !s.Explicit {
		if group == GroupDate {
			sortChronological(buckets, Asc)
		} else {
			sortByTotalDesc(buckets)
		}
		return
	}

	switch s.By {
	case SortDate:
		if group == GroupDate {
			sortChronological(buckets, s.Direction)
			return
		}
		sortByTotalDesc(buckets)
		return
	case SortCount:
		sortBuckets(buckets, s.Direction, func(a, b Bucket) int { return a.Count - b.Count })
	case SortVendor, SortCategory:
		sortBuckets(buckets, s.Direction, func(a, b Bucket) int {
			return strings.Compare(strings.ToLower(a.Key), strings.ToLower(b.Key))
		})
	default:
		sortBuckets(buckets, s.Direction, func(a, b Bucket) int { return a.Total.Cmp(b.Total) })
	}
}

func sortBuckets(buckets []Bucket, dir Direction, cmp func(a, b Bucket) int) {
	sort.SliceStable(buckets, func(i, j int) bool {
		c := cmp(buckets[i], buckets[j])
		if c == 0 {
			return buckets[i].Key < buckets[j].Key
		}
		if dir == Desc {
			return c > 0
		}
		return c < 0
	})
}

// recordLess orders individual records for search listings.
func recordLess(s Sort) func(a, b Record) bool {
	var cmp func(a, b Record) int
	switch s.By {
	case SortAmount, SortTotal:
		cmp = func(a, b Record) int { return a.Amount.Cmp(b.Amount) }
	case SortVendor:
		cmp = func(a, b Record) int { return strings.Compare(strings.ToLower(a.Vendor), strings.ToLower(b.Vendor)) }
	case SortCategory:
		cmp = func(a, b Record) int { return strings.Compare(strings.ToLower(a.Category), strings.ToLower(b.Category)) }
	case SortCount:
		cmp = func(a, b Record) int { return 0 }
	default:
		cmp = func(a, b Record) int { return a.Date.Compare(b.Date) }
	}
	return func(a, b Record) bool {
		if s.Direction == Desc {
			return cmp(a, b) > 0
		}
		return cmp(a, b) < 0
	}
}

// ============================================================================
// SUMS AND FORMATTING
// ============================================================================

// SumAmounts returns the exact decimal total and record count of a view.
func SumAmounts(view RecordView) (decimal.Decimal, int) {
	total := decimal.Zero
	for i := 0; i < view.Len(); i++ {
		total = total.Add(view.At(i).Amount)
	}
	return total, view.Len()
}

// FormatAmount renders an amount fixed to two decimal places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatPercent renders a percentage fixed to one decimal place.
func FormatPercent(d decimal.Decimal) string {
	return d.StringFixed(1) + "%"
}

// LabelForDimension returns a capitalized label for a dimension.
func LabelForDimension(dimension string) string {
	if len(dimension) == 0 {
		return ""
	}
	return strings.ToUpper(dimension[:1]) + dimension[1:]
}
