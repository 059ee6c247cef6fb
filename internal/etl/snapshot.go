package etl

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/BartekS5/rmetl/pkg/models"
	"github.com/BartekS5/rmetl/pkg/source"
)

// SnapshotExtractor reads a whole local JSON array in one call. It is a
// single-page source: the returned next cursor is always empty.
type SnapshotExtractor struct {
	Path string
}

func NewSnapshotExtractor(path string) *SnapshotExtractor {
	return &SnapshotExtractor{Path: path}
}

func (s *SnapshotExtractor) Extract(_ context.Context, _ string) ([]models.Record, string, error) {
	snap, err := source.OpenSnapshot(s.Path)
	if err != nil {
		return nil, "", err
	}
	defer snap.Close()

	dec := json.NewDecoder(snap)
	dec.UseNumber()

	var records []models.Record
	if err := dec.Decode(&records); err != nil {
		return nil, "", fmt.Errorf("%w: snapshot '%s': %w", ErrDecode, s.Path, err)
	}
	return records, "", nil
}
