package table

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownColumn indicates a selection named a column the table does not have.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrDuplicateColumn indicates a selection named the same column twice.
	ErrDuplicateColumn = errors.New("duplicate column")
	// ErrEmptyNumericColumn indicates a numeric column with no values to average.
	ErrEmptyNumericColumn = errors.New("numeric column has no values")
)

// ColumnError ties an error to the column that caused it.
type ColumnError struct {
	Column string
	Err    error
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("column %q: %v", e.Column, e.Err)
}

func (e *ColumnError) Unwrap() error {
	return e.Err
}
