// Package store loads ledger snapshots for the engine. The engine never
// performs I/O itself; callers load a []engine.Record once and run any
// number of plans against it.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/spektr-org/ledgerq/engine"
	"github.com/spektr-org/ledgerq/helpers"
	"github.com/spektr-org/ledgerq/logger"
)

// Source loads a full ledger snapshot.
type Source interface {
	Load(ctx context.Context) ([]engine.Record, error)
}

// ErrUnsupportedFormat is returned for exports that are neither CSV nor JSON.
var ErrUnsupportedFormat = errors.New("store: unsupported ledger format")

// Open picks a Source from a URI:
//
//	gs://bucket/path/ledger.csv          → GCSSource
//	bq://project.dataset.table           → BigQuerySource
//	anything else                        → FileSource
func Open(uri string) (Source, error) {
	uri = strings.TrimSpace(uri)
	switch {
	case uri == "":
		return nil, errors.New("store: empty source")
	case strings.HasPrefix(uri, "gs://"):
		bucket, object, ok := strings.Cut(strings.TrimPrefix(uri, "gs://"), "/")
		if !ok || bucket == "" || object == "" {
			return nil, fmt.Errorf("store: invalid GCS URI %q (want gs://bucket/object)", uri)
		}
		return &GCSSource{Bucket: bucket, Object: object}, nil
	case strings.HasPrefix(uri, "bq://"):
		parts := strings.Split(strings.TrimPrefix(uri, "bq://"), ".")
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
			return nil, fmt.Errorf("store: invalid BigQuery URI %q (want bq://project.dataset.table)", uri)
		}
		return &BigQuerySource{ProjectID: parts[0], Dataset: parts[1], Table: parts[2]}, nil
	default:
		return &FileSource{Path: strings.TrimPrefix(uri, "file://")}, nil
	}
}

// decode parses an export, choosing the format from the name's extension.
func decode(ctx context.Context, name string, r io.Reader) ([]engine.Record, error) {
	log := logger.FromContext(ctx)

	switch strings.ToLower(path.Ext(name)) {
	case ".csv":
		records, skipped, err := helpers.ParseCSV(r)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		for _, s := range skipped {
			log.Debug().Str("column", s.Column).Str("reason", s.Reason).Msg("column skipped")
		}
		return records, nil
	case ".json":
		records, err := helpers.ParseJSON(r)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		return records, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}
