package translator

import (
	"fmt"
	"strings"
)

// ============================================================================
// PROMPT BUILDER — ledger-aware plan prompt
// ============================================================================
// The model is asked for one JSON object in the raw plan shape. Categories
// come from schema.Ledger; vendor names are a capped sample so the prompt
// stays small on large ledgers. Amounts and records are never sent.
// ============================================================================

// maxPromptVendors caps the vendor sample included in the prompt.
const maxPromptVendors = 50

const planSchema = `{
  "intent": "summary|search|aggregate|trend|top_n|compare",
  "time_range": {"start_date": "YYYY-MM-DD|null", "end_date": "YYYY-MM-DD|null", "relative": "last_month|this_month|this_year|last_quarter|last_7_days|last_90_days|custom|null"},
  "filters": {"vendors": ["string"]|null, "categories": ["string"]|null, "min_amount": number|null, "max_amount": number|null, "text_search": "string|null"},
  "group_by": "none|vendor|category|date",
  "trend": {"enabled": boolean, "granularity": "day|week|month|quarter|year"},
  "top_n": {"enabled": boolean, "dimension": "vendor|category", "limit": number},
  "compare": {"enabled": boolean, "baseline": {"start_date": "YYYY-MM-DD", "end_date": "YYYY-MM-DD"}|null, "target": {"start_date": "YYYY-MM-DD", "end_date": "YYYY-MM-DD"}|null},
  "sort": {"by": "amount|date|vendor|category|count|total", "direction": "asc|desc"},
  "output": {"format": "summary|table|detailed|chart", "chart": {"type": "bar|line|pie|area|null", "dimension": "vendor|category|date|null", "metric": "amount|count|total|null"}}
}`

var planExamples = []string{
	`{"intent":"top_n","time_range":{"start_date":null,"end_date":null,"relative":"last_90_days"},"filters":{"vendors":null,"categories":null,"min_amount":null,"max_amount":null,"text_search":null},"group_by":"vendor","trend":{"enabled":false,"granularity":"month"},"top_n":{"enabled":true,"dimension":"vendor","limit":5},"compare":{"enabled":false,"baseline":null,"target":null},"sort":{"by":"total","direction":"desc"},"output":{"format":"summary","chart":{"type":null,"dimension":null,"metric":null}}}`,
	`{"intent":"search","time_range":{"start_date":null,"end_date":null,"relative":"this_year"},"filters":{"vendors":["Walmart"],"categories":["Groceries"],"min_amount":20,"max_amount":null,"text_search":null},"group_by":"none","trend":{"enabled":false,"granularity":"month"},"top_n":{"enabled":false,"dimension":"vendor","limit":5},"compare":{"enabled":false,"baseline":null,"target":null},"sort":{"by":"date","direction":"desc"},"output":{"format":"table","chart":{"type":null,"dimension":null,"metric":null}}}`,
}

// BuildPrompt generates the complete prompt for one question.
func BuildPrompt(query string, pc PromptContext) string {
	var b strings.Builder

	b.WriteString("Convert this natural language question about business expenses into a structured JSON query plan.\n")
	b.WriteString("You are a TRANSLATOR ONLY. Do NOT compute any values; a local engine does all arithmetic.\n\n")

	b.WriteString("SCHEMA (all fields required, use null if unknown):\n")
	b.WriteString(planSchema)
	b.WriteString("\n\n")

	if len(pc.Categories) > 0 {
		fmt.Fprintf(&b, "CATEGORIES: %s\n", strings.Join(pc.Categories, ", "))
	}
	if len(pc.Vendors) > 0 {
		vendors := pc.Vendors
		if len(vendors) > maxPromptVendors {
			vendors = vendors[:maxPromptVendors]
		}
		fmt.Fprintf(&b, "KNOWN VENDORS: %s\n", strings.Join(vendors, ", "))
	}
	b.WriteString("\n")

	b.WriteString("RULES:\n")
	b.WriteString("- Prefer \"relative\" over explicit dates when the question uses a named period.\n")
	b.WriteString("- Only use category and vendor names from the lists above, spelled exactly.\n")
	b.WriteString("- Use \"table\" output when the user asks to list or show individual expenses.\n")
	b.WriteString("- Return ONLY valid raw JSON. Do NOT wrap it in code fences.\n\n")

	if !pc.Today.IsZero() {
		fmt.Fprintf(&b, "CURRENT DATE: %s\n", pc.Today.Format("2006-01-02"))
	}
	fmt.Fprintf(&b, "USER QUERY: %s\n\n", strings.TrimSpace(query))

	b.WriteString("EXAMPLES:\n")
	for _, ex := range planExamples {
		b.WriteString(ex)
		b.WriteString("\n")
	}

	return b.String()
}
