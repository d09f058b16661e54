package engine

import "testing"

func TestInferVendor(t *testing.T) {
	known := []string{"ACME", "PaperCo", "Italian Bistro", "Blue Bottle Coffee", "Blue Apron Meal Kits"}
	cases := []struct {
		query string
		want  string
	}{
		{"report on ACME", "ACME"},
		{"how much did we spend at paperco last month", "PaperCo"},
		{"spend at Blue Bottle in March", "Blue Bottle Coffee"},
		{"acme", "ACME"},
		{"italian bistro", "Italian Bistro"},
		{"IT spend", ""},
		{"total expenses this year", ""},
		{"spend at the airport", ""},
	}
	for _, c := range cases {
		got, ok := InferVendor(c.query, known, nil)
		if c.want == "" {
			if ok {
				t.Errorf("%q: inferred %q, want none", c.query, got)
			}
			continue
		}
		assertEqual(t, got, c.want, c.query)
	}
}

func TestInferVendorPrefersMostSpecific(t *testing.T) {
	known := []string{"Shell", "Shell Gas Station"}
	got, ok := InferVendor("fuel at shell", known, nil)
	assertEqual(t, ok, true, "matched")
	assertEqual(t, got, "Shell Gas Station", "vendor")
}

func TestInferVendorCustomStopWords(t *testing.T) {
	known := []string{"Report Co"}
	if _, ok := InferVendor("report", known, nil); ok {
		t.Error("default stop words should drop 'report'")
	}
	got, ok := InferVendor("report", known, []string{"the"})
	assertEqual(t, ok, true, "matched with custom stop words")
	assertEqual(t, got, "Report Co", "vendor")
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Meals & Entertainment, B&H-Photo 2024!")
	want := []string{"meals", "entertainment", "b", "h", "photo", "2024"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		assertEqual(t, got[i], want[i], "token")
	}
}

func TestVendorOriented(t *testing.T) {
	cases := []struct {
		name string
		plan Plan
		want bool
	}{
		{"summary", Plan{Intent: IntentSummary, GroupBy: GroupNone, TopN: TopN{Dimension: DimensionVendor}}, true},
		{"search", Plan{Intent: IntentSearch, GroupBy: GroupNone, TopN: TopN{Dimension: DimensionVendor}}, true},
		{"summary by category", Plan{Intent: IntentSummary, GroupBy: GroupCategory, TopN: TopN{Dimension: DimensionCategory}}, false},
		{"top vendors", Plan{Intent: IntentTopN, TopN: TopN{Dimension: DimensionVendor}}, true},
		{"top categories", Plan{Intent: IntentTopN, TopN: TopN{Dimension: DimensionCategory}}, false},
		{"group by vendor", Plan{Intent: IntentAggregate, GroupBy: GroupVendor}, true},
		{"trend", Plan{Intent: IntentTrend, GroupBy: GroupNone, TopN: TopN{Dimension: DimensionVendor}}, false},
	}
	for _, c := range cases {
		assertEqual(t, vendorOriented(c.plan), c.want, c.name)
	}
}

func TestKnownVendors(t *testing.T) {
	records := []Record{
		rec("ACME", "2024-01-05", "Office Supplies", "10"),
		rec(" acme ", "2024-01-06", "Office Supplies", "1"),
		rec("", "2024-01-07", "Office Supplies", "1"),
		rec("PaperCo", "2024-01-08", "Office Supplies", "1"),
	}
	got := KnownVendors(records)
	assertEqual(t, len(got), 2, "distinct vendors")
	assertEqual(t, got[0], "ACME", "first seen spelling")
	assertEqual(t, got[1], "PaperCo", "second vendor")
}
