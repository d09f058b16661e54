package store

import (
	"context"
	"fmt"
	"os"

	"github.com/spektr-org/ledgerq/engine"
	"github.com/spektr-org/ledgerq/logger"
)

// FileSource reads a CSV or JSON ledger export from the local filesystem.
type FileSource struct {
	Path string
}

// Load implements Source.
func (s *FileSource) Load(ctx context.Context) ([]engine.Record, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open ledger file: %w", err)
	}
	defer f.Close()

	records, err := decode(ctx, s.Path, f)
	if err != nil {
		return nil, err
	}
	lg := logger.FromContext(ctx)
	lg.Debug().Str("path", s.Path).Int("records", len(records)).Msg("ledger loaded")
	return records, nil
}
