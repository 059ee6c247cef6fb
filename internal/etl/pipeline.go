package etl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BartekS5/rmetl/pkg/logger"
)

// Stats summarizes one pipeline run.
type Stats struct {
	Pages    int
	Records  int
	Rows     int
	JoinRows int
	Duration time.Duration
}

// Pipeline drives fetch -> flatten -> emit-rows for one entity type.
// Writers are owned by the caller, which closes them on every exit path.
type Pipeline struct {
	Name       string
	Paginator  *Paginator
	Normalizer Normalizer
	Rows       RowWriter
	Joins      RowWriter
	Validator  *Validator
}

// NewPipeline builds a pipeline. joins may be nil when the normalizer never emits join records.
func NewPipeline(name string, pager *Paginator, norm Normalizer, rows, joins RowWriter) *Pipeline {
	return &Pipeline{
		Name:       name,
		Paginator:  pager,
		Normalizer: norm,
		Rows:       rows,
		Joins:      joins,
		Validator:  NewValidator(norm.Header()),
	}
}

// Run processes every page in order. The first error stops the run; rows of
// pages already processed stay flushed to the writers.
func (p *Pipeline) Run(ctx context.Context) (Stats, error) {
	logger.Infof("Starting %s pipeline. Start cursor: %q", p.Name, p.Paginator.Start)

	var stats Stats
	startTime := time.Now()

	for batch, err := range p.Paginator.Batches(ctx) {
		if err != nil {
			logger.Errorf("%s: extraction failed: %v", p.Name, err)
			return p.finish(stats, startTime), err
		}

		if err := p.loadBatch(batch, &stats); err != nil {
			logger.Errorf("%s: loading page %d failed: %v", p.Name, batch.Number, err)
			// rows normalized before the failure are complete lines; keep them
			if ferr := p.flush(); ferr != nil {
				err = errors.Join(err, ferr)
			}
			return p.finish(stats, startTime), err
		}
		if err := p.flush(); err != nil {
			return p.finish(stats, startTime), err
		}

		stats.Pages++
		duration := time.Since(startTime)
		rate := 0.0
		if duration.Seconds() > 0 {
			rate = float64(stats.Records) / duration.Seconds()
		}
		logger.Infof("%s: batch %d done (%d records). Total: %d. Rate: %.2f records/sec",
			p.Name, batch.Number, len(batch.Records), stats.Records, rate)
	}

	stats = p.finish(stats, startTime)
	logger.Infof("%s pipeline finished: %d pages, %d rows, %d join rows in %s",
		p.Name, stats.Pages, stats.Rows, stats.JoinRows, stats.Duration.Round(time.Millisecond))
	return stats, nil
}

func (p *Pipeline) loadBatch(batch Batch, stats *Stats) error {
	for i, rec := range batch.Records {
		flat, err := p.Normalizer.Normalize(rec)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if err := p.Validator.ValidateRow(flat.Row); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if len(flat.Joins) > 0 && p.Joins == nil {
			return fmt.Errorf("record %d: %d join records but no join table", i, len(flat.Joins))
		}
		if err := p.Rows.WriteRow(flat.Row); err != nil {
			return err
		}
		stats.Records++
		stats.Rows++

		for _, j := range flat.Joins {
			if err := p.Joins.WriteRow(j.Row()); err != nil {
				return err
			}
			stats.JoinRows++
		}
	}
	return nil
}

func (p *Pipeline) flush() error {
	if err := p.Rows.Flush(); err != nil {
		return err
	}
	if p.Joins != nil {
		return p.Joins.Flush()
	}
	return nil
}

func (p *Pipeline) finish(stats Stats, start time.Time) Stats {
	stats.Duration = time.Since(start)
	return stats
}
