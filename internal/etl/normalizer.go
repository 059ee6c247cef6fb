package etl

import (
	"errors"
	"fmt"

	"github.com/BartekS5/rmetl/pkg/models"
	"github.com/BartekS5/rmetl/pkg/utils"
)

// Flattened is the output of normalizing one record.
type Flattened struct {
	Row   []string
	Joins []models.JoinRecord
}

// NestedNormalizer flattens records that carry reference objects and one
// collection field of reference URLs. Fields the table does not declare are dropped.
type NestedNormalizer struct {
	Table   models.TableSchema
	Join    *models.JoinSchema
	IDField string
}

// NewCharacterNormalizer returns the normalizer for remote character records.
func NewCharacterNormalizer() *NestedNormalizer {
	join := models.CharacterEpisodeTable
	return &NestedNormalizer{
		Table:   models.CharacterTable,
		Join:    &join,
		IDField: "id",
	}
}

func (n *NestedNormalizer) Header() []string {
	return n.Table.Header()
}

func (n *NestedNormalizer) Normalize(rec models.Record) (Flattened, error) {
	row, err := selectColumns(rec, n.Table, true)
	if err != nil {
		return Flattened{}, err
	}
	if n.Join == nil {
		return Flattened{Row: row}, nil
	}

	owner, err := lookup(rec, n.IDField)
	if err != nil {
		return Flattened{}, err
	}
	ownerID, err := utils.FormatScalar(owner)
	if err != nil {
		return Flattened{}, fmt.Errorf("%w: field %q: %w", ErrShapeMismatch, n.IDField, err)
	}

	refs, err := lookup(rec, n.Join.Field)
	if err != nil {
		return Flattened{}, err
	}
	joins, err := expandCollection(ownerID, n.Join.Field, refs)
	if err != nil {
		return Flattened{}, err
	}
	return Flattened{Row: row, Joins: joins}, nil
}

// FlatNormalizer maps records without nested fields straight onto a table.
type FlatNormalizer struct {
	Table models.TableSchema
}

func NewFlatNormalizer(table models.TableSchema) *FlatNormalizer {
	return &FlatNormalizer{Table: table}
}

func (n *FlatNormalizer) Header() []string {
	return n.Table.Header()
}

func (n *FlatNormalizer) Normalize(rec models.Record) (Flattened, error) {
	row, err := selectColumns(rec, n.Table, false)
	if err != nil {
		return Flattened{}, err
	}
	return Flattened{Row: row}, nil
}

func selectColumns(rec models.Record, table models.TableSchema, resolveRefs bool) ([]string, error) {
	row := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		val, err := lookup(rec, col.Field)
		if err != nil {
			return nil, err
		}

		var s string
		if resolveRefs && col.Kind == models.Reference {
			s, err = referenceID(val)
		} else {
			s, err = utils.FormatScalar(val)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %w", ErrShapeMismatch, col.Field, err)
		}
		row[i] = s
	}
	return row, nil
}

func lookup(rec models.Record, field string) (interface{}, error) {
	val, ok := rec[field]
	if !ok {
		return nil, fmt.Errorf("%w: missing field %q", ErrShapeMismatch, field)
	}
	return val, nil
}

// referenceID reduces {"name": ..., "url": ".../3"} to "3". A null reference is empty.
func referenceID(val interface{}) (string, error) {
	if val == nil {
		return "", nil
	}
	obj, ok := val.(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("reference is %T, want object", val)
	}
	ref, ok := obj["url"]
	if !ok {
		return "", errors.New("reference has no url")
	}
	return refToID(ref)
}

func refToID(ref interface{}) (string, error) {
	switch v := ref.(type) {
	case nil:
		return "", nil
	case string:
		return utils.EscapeField(utils.IDFromURL(v)), nil
	default:
		return "", fmt.Errorf("reference url is %T, want string", ref)
	}
}

func expandCollection(ownerID, field string, refs interface{}) ([]models.JoinRecord, error) {
	if refs == nil {
		return nil, nil
	}
	items, ok := refs.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: field %q is %T, want array", ErrShapeMismatch, field, refs)
	}

	joins := make([]models.JoinRecord, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] is %T, want string", ErrShapeMismatch, field, i, item)
		}
		joins = append(joins, models.JoinRecord{OwnerID: ownerID, MemberID: utils.EscapeField(utils.IDFromURL(s))})
	}
	return joins, nil
}
