package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"

	"github.com/spektr-org/ledgerq/engine"
	"github.com/spektr-org/ledgerq/logger"
)

// GCSSource reads a CSV or JSON ledger export from a Cloud Storage object.
// When Client is nil a client is created with default credentials and
// closed after the load.
type GCSSource struct {
	Bucket string
	Object string
	Client *storage.Client
}

// Load implements Source.
func (s *GCSSource) Load(ctx context.Context) ([]engine.Record, error) {
	client := s.Client
	if client == nil {
		var err error
		client, err = storage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("create storage client: %w", err)
		}
		defer client.Close()
	}

	r, err := client.Bucket(s.Bucket).Object(s.Object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open GCS object reader: %w", err)
	}
	defer r.Close()

	records, err := decode(ctx, s.Object, r)
	if err != nil {
		return nil, err
	}
	lg := logger.FromContext(ctx)
	lg.Debug().
		Str("bucket", s.Bucket).
		Str("object", s.Object).
		Int("records", len(records)).
		Msg("ledger loaded")
	return records, nil
}
