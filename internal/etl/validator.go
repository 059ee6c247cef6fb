package etl

import (
	"fmt"
)

// Validator checks rows against the table header before they reach a writer.
type Validator struct {
	Header []string
}

func NewValidator(header []string) *Validator {
	return &Validator{Header: header}
}

// ValidateRow checks the column count of a row.
func (v *Validator) ValidateRow(row []string) error {
	if len(row) != len(v.Header) {
		return fmt.Errorf("%w: row has %d columns, header has %d", ErrShapeMismatch, len(row), len(v.Header))
	}
	return nil
}
