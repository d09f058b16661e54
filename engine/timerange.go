package engine

import "time"

// ============================================================================
// TIME RANGE RESOLVER — relative symbol + reference date → inclusive range
// ============================================================================
// Pure function. All bounds are calendar dates (midnight UTC), inclusive.
// ============================================================================

// Resolve maps a relative time symbol onto concrete bounds anchored at ref.
// It returns false for RelativeNone, RelativeCustom and unknown symbols, in
// which case the caller leaves both bounds unresolved.
func Resolve(symbol Relative, ref time.Time) (DateRange, bool) {
	today := truncateDay(ref)
	y, m, _ := today.Date()

	var start, end time.Time
	switch symbol {
	case RelativeThisMonth:
		start, end = date(y, m, 1), today
	case RelativeLastMonth:
		first := date(y, m, 1)
		start, end = first.AddDate(0, -1, 0), first.AddDate(0, 0, -1)
	case RelativeThisYear:
		start, end = date(y, time.January, 1), today
	case RelativeLast7Days:
		start, end = today.AddDate(0, 0, -7), today
	case RelativeLast90Days:
		start, end = today.AddDate(0, 0, -90), today
	case RelativeLastQuarter:
		start, end = previousQuarter(today)
	default:
		return DateRange{}, false
	}
	return DateRange{Start: &start, End: &end}, true
}

// QuarterOf returns the 1-based calendar quarter containing t.
func QuarterOf(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

// previousQuarter returns the quarter before the one containing t,
// wrapping into the previous year from Q1.
func previousQuarter(t time.Time) (time.Time, time.Time) {
	q := QuarterOf(t) - 1
	y := t.Year()
	if q == 0 {
		q = 4
		y--
	}
	startMonth := time.Month((q-1)*3 + 1)
	start := date(y, startMonth, 1)
	// Day 0 of the month after the quarter is the quarter's last day.
	end := date(y, startMonth+3, 0)
	return start, end
}

// precedingWindow returns the window of equal length that ends the day
// before r starts. Both bounds of r must be set.
func precedingWindow(r DateRange) DateRange {
	days := int(r.End.Sub(*r.Start).Hours()/24) + 1
	end := r.Start.AddDate(0, 0, -1)
	start := end.AddDate(0, 0, -(days - 1))
	return DateRange{Start: &start, End: &end}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// truncateDay drops the clock part of t, keeping its calendar date.
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return date(y, m, d)
}
