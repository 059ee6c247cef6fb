package etl

import (
	"context"

	"github.com/BartekS5/rmetl/pkg/models"
)

// Extractor retrieves the page addressed by cursor and returns its records
// in source order together with the cursor of the next page ("" when exhausted).
type Extractor interface {
	Extract(ctx context.Context, cursor string) ([]models.Record, string, error)
}

// CursorKeyer is implemented by extractors whose cursors have more than one
// spelling for the same page. The paginator compares keys, not raw cursors.
type CursorKeyer interface {
	CursorKey(cursor string) string
}

// Normalizer flattens one decoded record into a row plus any join records.
type Normalizer interface {
	Header() []string
	Normalize(rec models.Record) (Flattened, error)
}

// RowWriter is an append-only table sink.
type RowWriter interface {
	WriteRow(row []string) error
	Flush() error
}
