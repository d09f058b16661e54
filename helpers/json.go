package helpers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spektr-org/ledgerq/engine"
)

// ParseJSON parses a JSON ledger export. It accepts either a bare array of
// row objects or an object wrapping the array under "records" or "rows".
// Numbers are decoded as json.Number so amounts keep their exact digits.
func ParseJSON(r io.Reader) ([]engine.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON export: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	if data[0] == '[' {
		var rows []map[string]any
		if err := decodeNumbers(data, &rows); err != nil {
			return nil, fmt.Errorf("failed to decode JSON rows: %w", err)
		}
		return FromRows(rows), nil
	}

	var wrapped struct {
		Records []map[string]any `json:"records"`
		Rows    []map[string]any `json:"rows"`
	}
	if err := decodeNumbers(data, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode JSON export: %w", err)
	}
	if wrapped.Records != nil {
		return FromRows(wrapped.Records), nil
	}
	return FromRows(wrapped.Rows), nil
}

func decodeNumbers(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
