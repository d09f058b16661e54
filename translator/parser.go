package translator

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ============================================================================
// RESPONSE PARSER — extracts the raw plan object from model text
// ============================================================================
// Models wrap JSON in code fences or chat around it despite instructions.
// We keep the outermost {...} and decode it with json.Number so numeric
// fields keep their exact digits for the normalizer.
// ============================================================================

// ParseResponse extracts the JSON object from a model response.
func ParseResponse(response string) (map[string]any, error) {
	clean := cleanModelJSON(response)
	if clean == "" {
		return nil, ErrEmptyResponse
	}

	dec := json.NewDecoder(strings.NewReader(clean))
	dec.UseNumber()
	var plan map[string]any
	if err := dec.Decode(&plan); err != nil {
		return nil, fmt.Errorf("failed to parse translator response: %w (response: %.200s)", err, response)
	}
	if plan == nil {
		return nil, ErrEmptyResponse
	}
	return plan, nil
}

func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			s = strings.TrimPrefix(strings.TrimPrefix(s, "```json"), "```")
		}
		s = strings.TrimSpace(s)
	}

	// Remove trailing ``` if present.
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	// Keep only the outermost object.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = s[start : end+1]
		}
	}

	return strings.TrimSpace(s)
}
