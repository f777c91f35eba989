package converter

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat indicates an input whose extension is not .csv or .xlsx.
var ErrUnsupportedFormat = errors.New("unsupported file type")

// ErrEmptyInput indicates an input without a header row.
var ErrEmptyInput = errors.New("empty file")

// ErrTooManyFields indicates a CSV row with more fields than the header.
var ErrTooManyFields = errors.New("row has more fields than the header")

// ErrUnsupportedTarget indicates a conversion to a format we cannot write.
var ErrUnsupportedTarget = errors.New("unsupported conversion target")

// FileError represents a failure while handling one file.
type FileError struct {
	Name string
	Op   string // "read", "parse", "serialize", "write"
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Name, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
