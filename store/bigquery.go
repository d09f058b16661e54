package store

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"

	"github.com/spektr-org/ledgerq/engine"
	"github.com/spektr-org/ledgerq/helpers"
	"github.com/spektr-org/ledgerq/logger"
)

// numericScale is the scale of BigQuery NUMERIC columns.
const numericScale = 9

// BigQuerySource reads ledger rows from a BigQuery table, or from the result
// of Query when it is set. Column names are matched the same way CSV
// headers are. When Client is nil a client is created for ProjectID and
// closed after the load.
type BigQuerySource struct {
	ProjectID string
	Dataset   string
	Table     string
	Query     string
	Client    *bigquery.Client
}

// Load implements Source.
func (s *BigQuerySource) Load(ctx context.Context) ([]engine.Record, error) {
	client := s.Client
	if client == nil {
		var err error
		client, err = bigquery.NewClient(ctx, s.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("create bigquery client: %w", err)
		}
		defer client.Close()
	}

	var (
		it  *bigquery.RowIterator
		err error
	)
	if s.Query != "" {
		it, err = client.Query(s.Query).Read(ctx)
		if err != nil {
			return nil, fmt.Errorf("bigquery query read: %w", err)
		}
	} else {
		it = client.Dataset(s.Dataset).Table(s.Table).Read(ctx)
	}

	var rows []map[string]any
	for {
		var row map[string]bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("bigquery iter next: %w", err)
		}
		rows = append(rows, plainRow(row))
	}

	lg := logger.FromContext(ctx)
	lg.Debug().
		Str("table", s.Dataset+"."+s.Table).
		Bool("query", s.Query != "").
		Int("records", len(rows)).
		Msg("ledger loaded")
	return helpers.FromRows(rows), nil
}

// plainRow converts BigQuery cell values into the types the row decoder
// understands.
func plainRow(row map[string]bigquery.Value) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[k] = plainValue(v)
	}
	return out
}

func plainValue(v bigquery.Value) any {
	switch x := v.(type) {
	case civil.Date:
		if !x.IsValid() {
			return nil
		}
		return x.In(time.UTC)
	case civil.DateTime:
		if !x.IsValid() {
			return nil
		}
		return x.In(time.UTC)
	case *big.Rat:
		if x == nil {
			return nil
		}
		return x.FloatString(numericScale)
	default:
		return v
	}
}
