package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// ── Test Data ─────────────────────────────────────────────────────────────────

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func rec(vendor, date, category, amount string) Record {
	r := Record{
		Vendor:   vendor,
		Category: category,
		Amount:   decimal.RequireFromString(amount),
		DateText: date,
	}
	if date != "" {
		r.Date = day(date)
	}
	return r
}

// officeLedger is the three-record ledger used by the summary scenarios.
func officeLedger() []Record {
	return []Record{
		rec("ACME", "2024-01-10", "Office Supplies", "10"),
		rec("PaperCo", "2024-01-11", "Office Supplies", "5.5"),
		rec("ACME", "2024-02-01", "Office Supplies", "20"),
	}
}

// ── Assertions ────────────────────────────────────────────────────────────────

func assertEqual[T comparable](t *testing.T, got, want T, msg string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: got %v, want %v", msg, got, want)
	}
}

func assertDecimal(t *testing.T, got decimal.Decimal, want string, msg string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s: got %s, want %s", msg, got, want)
	}
}

func assertDate(t *testing.T, got *time.Time, want string, msg string) {
	t.Helper()
	if got == nil {
		t.Errorf("%s: got nil, want %s", msg, want)
		return
	}
	if s := got.Format(DateLayout); s != want {
		t.Errorf("%s: got %s, want %s", msg, s, want)
	}
}

func assertKeys(t *testing.T, buckets []Bucket, want ...string) {
	t.Helper()
	if len(buckets) != len(want) {
		t.Fatalf("bucket count: got %d (%v), want %d (%v)", len(buckets), bucketKeys(buckets), len(want), want)
	}
	for i, b := range buckets {
		if b.Key != want[i] {
			t.Errorf("bucket %d: got %q, want %q (all: %v)", i, b.Key, want[i], bucketKeys(buckets))
		}
	}
}

func bucketKeys(buckets []Bucket) []string {
	keys := make([]string, len(buckets))
	for i, b := range buckets {
		keys[i] = b.Key
	}
	return keys
}
