package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/spektr-org/ledgerq/engine"
	"github.com/spektr-org/ledgerq/translator"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func ledger() []engine.Record {
	return []engine.Record{
		{Date: day("2024-01-05"), Vendor: "ACME", Category: "Office Supplies", Amount: decimal.RequireFromString("10.00")},
		{Date: day("2024-01-20"), Vendor: "PaperCo", Category: "Office Supplies", Amount: decimal.RequireFromString("5.50")},
		{Date: day("2024-02-02"), Vendor: "ACME", Category: "Office Supplies", Amount: decimal.RequireFromString("20.00")},
	}
}

func testOpts() []engine.Option {
	return []engine.Option{engine.WithReferenceDate(day("2024-02-15"))}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("LEDGERQ_TEST_VALUE", "  gs://books/ledger.csv ")
	if got := envOr("LEDGERQ_TEST_VALUE", "x"); got != "gs://books/ledger.csv" {
		t.Errorf("envOr = %q", got)
	}
	t.Setenv("LEDGERQ_TEST_VALUE", "   ")
	if got := envOr("LEDGERQ_TEST_VALUE", "x"); got != "x" {
		t.Errorf("blank env should fall back, got %q", got)
	}
}

func TestEnvBool(t *testing.T) {
	tests := map[string]bool{"1": true, "TRUE": true, "yes": true, "on": true, "0": false, "off": false, "no": false}
	for in, want := range tests {
		t.Setenv("LEDGERQ_TEST_BOOL", in)
		if got := envBool("LEDGERQ_TEST_BOOL", !want); got != want {
			t.Errorf("envBool(%q) = %v, want %v", in, got, want)
		}
	}
	t.Setenv("LEDGERQ_TEST_BOOL", "maybe")
	if !envBool("LEDGERQ_TEST_BOOL", true) {
		t.Error("unrecognized value should return the default")
	}
}

func TestParseToday(t *testing.T) {
	now := time.Date(2024, 2, 15, 23, 30, 0, 0, time.FixedZone("X", -5*3600))
	got, err := parseToday("", now)
	if err != nil || !got.Equal(day("2024-02-16")) {
		t.Errorf("parseToday(\"\") = %v, %v; want 2024-02-16 UTC", got, err)
	}
	got, err = parseToday("2023-12-31", now)
	if err != nil || !got.Equal(day("2023-12-31")) {
		t.Errorf("parseToday = %v, %v", got, err)
	}
	if _, err := parseToday("yesterday", now); err == nil {
		t.Error("expected error for unparseable date")
	}
}

// ============================================================================
// ASK
// ============================================================================

type fakeTranslator struct {
	plan map[string]any
	err  error
	pc   translator.PromptContext
}

func (f *fakeTranslator) Translate(_ context.Context, _ string, pc translator.PromptContext) (map[string]any, error) {
	f.pc = pc
	return f.plan, f.err
}

func TestAsk_UsesTranslatedPlan(t *testing.T) {
	fake := &fakeTranslator{plan: map[string]any{"intent": "trend", "trend": map[string]any{"enabled": true}}}
	res := ask(context.Background(), fake, "monthly trend", ledger(), day("2024-02-15"), zerolog.Nop(), testOpts())

	if res.Mode != engine.ModeTrend {
		t.Errorf("mode = %s, want trend", res.Mode)
	}
	if !fake.pc.Today.Equal(day("2024-02-15")) {
		t.Errorf("prompt date = %v", fake.pc.Today)
	}
	if len(fake.pc.Vendors) != 2 || fake.pc.Vendors[0] != "ACME" || fake.pc.Vendors[1] != "PaperCo" {
		t.Errorf("prompt vendors = %v", fake.pc.Vendors)
	}
	if len(fake.pc.Categories) == 0 {
		t.Error("prompt categories missing")
	}
}

func TestAsk_FallsBackOnTranslatorError(t *testing.T) {
	fake := &fakeTranslator{err: errors.New("quota exceeded")}
	res := ask(context.Background(), fake, "how much did we spend", ledger(), day("2024-02-15"), zerolog.Nop(), testOpts())

	if res.Mode != engine.ModeSummary {
		t.Errorf("mode = %s, want summary", res.Mode)
	}
	if res.Aggregation.Total.StringFixed(2) != "35.50" {
		t.Errorf("total = %s, want 35.50", res.Aggregation.Total)
	}
}

func TestAsk_NoTranslatorStillInfersVendor(t *testing.T) {
	res := ask(context.Background(), nil, "spend at ACME", ledger(), day("2024-02-15"), zerolog.Nop(), testOpts())
	if res.InferredVendor != "ACME" {
		t.Errorf("inferred vendor = %q, want ACME", res.InferredVendor)
	}
	if res.Aggregation.Total.StringFixed(2) != "30.00" {
		t.Errorf("total = %s, want 30.00", res.Aggregation.Total)
	}
}

// ============================================================================
// EXEC / BATCH
// ============================================================================

func TestDecodePlan(t *testing.T) {
	raw, err := decodePlan([]byte(`{"filters":{"min_amount":10.50}}`))
	if err != nil {
		t.Fatalf("decodePlan: %v", err)
	}
	p := engine.Normalize(raw)
	if !p.Filters.MinAmount.Valid || p.Filters.MinAmount.Decimal.String() != "10.5" {
		t.Errorf("min amount = %+v", p.Filters.MinAmount)
	}

	raw, err = decodePlan([]byte(`null`))
	if err != nil || raw == nil || len(raw) != 0 {
		t.Errorf("null plan = %v, %v; want empty map", raw, err)
	}
	if _, err := decodePlan([]byte(`{"intent":`)); err == nil {
		t.Error("expected error for truncated plan")
	}
}

func TestReadJobs(t *testing.T) {
	input := strings.Join([]string{
		`{"intent":"summary"}`,
		``,
		`# comment`,
		`{"query":"spend at ACME","plan":{"intent":"summary"}}`,
	}, "\n")

	jobs, err := readJobs(strings.NewReader(input))
	if err != nil {
		t.Fatalf("readJobs: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("Expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].query != "" || jobs[0].plan["intent"] != "summary" {
		t.Errorf("job 0 = %+v", jobs[0])
	}
	if jobs[1].query != "spend at ACME" || jobs[1].plan["intent"] != "summary" {
		t.Errorf("job 1 = %+v", jobs[1])
	}

	if _, err := readJobs(strings.NewReader("{\"intent\":\"summary\"}\nnot json\n")); err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected line 2 error, got %v", err)
	}
}

func TestRunBatch_MatchesSequentialRuns(t *testing.T) {
	records := ledger()
	var jobs []job
	for i := 0; i < 40; i++ {
		switch i % 4 {
		case 0:
			jobs = append(jobs, job{plan: map[string]any{"intent": "summary"}})
		case 1:
			jobs = append(jobs, job{plan: map[string]any{"intent": "trend", "trend": map[string]any{"enabled": true}}})
		case 2:
			jobs = append(jobs, job{plan: map[string]any{"intent": "top_n", "top_n": map[string]any{"enabled": true, "limit": 1}}})
		default:
			jobs = append(jobs, job{query: "spend at PaperCo", plan: map[string]any{}})
		}
	}

	results, err := runBatch(context.Background(), jobs, records, 4, testOpts())
	if err != nil {
		t.Fatalf("runBatch: %v", err)
	}
	for i, j := range jobs {
		want := engine.Run(j.plan, records, j.query, testOpts()...)
		if results[i].Text != want.Text {
			t.Errorf("job %d: text = %q, want %q", i, results[i].Text, want.Text)
		}
	}
}

func TestRunBatch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	jobs := []job{{plan: map[string]any{}}}
	if _, err := runBatch(ctx, jobs, ledger(), 1, testOpts()); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

// ============================================================================
// RESOLVE / OUTPUT
// ============================================================================

func TestResolveSymbol(t *testing.T) {
	a := &app{ref: day("2024-02-15")}
	r, err := resolveSymbol(" Last_Quarter ", a)
	if err != nil {
		t.Fatalf("resolveSymbol: %v", err)
	}
	if got := engine.FormatRange(r); got != "2023-10-01..2023-12-31" {
		t.Errorf("range = %s", got)
	}
	for _, bad := range []string{"custom", "next_week"} {
		if _, err := resolveSymbol(bad, a); err == nil {
			t.Errorf("resolveSymbol(%q) expected error", bad)
		}
	}
}

func TestWriteResults(t *testing.T) {
	records := ledger()
	summary := engine.Run(map[string]any{}, records, "", testOpts()...)
	table := engine.Run(map[string]any{"intent": "aggregate", "group_by": "vendor", "output": map[string]any{"format": "table"}}, records, "", testOpts()...)

	var buf bytes.Buffer
	if err := writeResults(&buf, "text", summary); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "Summary: 3 expenses totaling 35.50.") {
		t.Errorf("text output = %q", buf.String())
	}

	buf.Reset()
	if err := writeResults(&buf, "csv", table); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "Vendor,Total,Count\nACME,30.00,2\nPaperCo,5.50,1\n"; got != want {
		t.Errorf("csv output = %q, want %q", got, want)
	}

	buf.Reset()
	if err := writeResults(&buf, "csv", summary); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "Summary,Total,Count\n") || !strings.Contains(buf.String(), ",35.50,3\n") {
		t.Errorf("csv summary = %q", buf.String())
	}

	buf.Reset()
	if err := writeResults(&buf, "json", summary, table); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], `"mode":"summary"`) {
		t.Errorf("json output = %q", buf.String())
	}
}

func TestValidFormat(t *testing.T) {
	for _, f := range []string{"text", "json", "pretty", "csv"} {
		if !validFormat(f) {
			t.Errorf("validFormat(%q) = false", f)
		}
	}
	if validFormat("xml") {
		t.Error("validFormat(xml) = true")
	}
}
