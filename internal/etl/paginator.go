package etl

import (
	"context"
	"fmt"
	"iter"

	"github.com/BartekS5/rmetl/pkg/logger"
	"github.com/BartekS5/rmetl/pkg/models"
)

// Batch is the records of one fetched page, in server order.
type Batch struct {
	Number  int
	Cursor  string
	Records []models.Record
}

// Paginator walks a cursor-based collection from Start until the source
// reports no next cursor. Each iteration starts again from Start.
type Paginator struct {
	Extractor Extractor
	Start     string
}

func NewPaginator(ext Extractor, start string) *Paginator {
	return &Paginator{Extractor: ext, Start: start}
}

// Batches yields one page at a time. The first error is yielded once and ends
// the sequence; no further pages are requested after it.
func (p *Paginator) Batches(ctx context.Context) iter.Seq2[Batch, error] {
	return func(yield func(Batch, error) bool) {
		seen := make(map[string]struct{})
		cursor := p.Start

		for n := 1; ; n++ {
			key := p.cursorKey(cursor)
			if _, dup := seen[key]; dup {
				yield(Batch{}, fmt.Errorf("%w: %q", ErrCursorLoop, cursor))
				return
			}
			seen[key] = struct{}{}

			records, next, err := p.Extractor.Extract(ctx, cursor)
			if err != nil {
				yield(Batch{}, fmt.Errorf("page %d (cursor %q): %w", n, cursor, err))
				return
			}
			logger.Debugf("page %d (cursor %q): %d records", n, cursor, len(records))
			if len(records) == 0 && next != "" {
				logger.Warnf("page %d (cursor %q) is empty but points to next page %q", n, cursor, next)
			}

			if !yield(Batch{Number: n, Cursor: cursor, Records: records}, nil) {
				return
			}
			if next == "" {
				return
			}
			cursor = next
		}
	}
}

func (p *Paginator) cursorKey(cursor string) string {
	if k, ok := p.Extractor.(CursorKeyer); ok {
		return k.CursorKey(cursor)
	}
	return cursor
}
