package internalerr

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrDuplicateDocument = errors.New("duplicate document")
	ErrEmptyCorpus       = errors.New("corpus is empty")
	ErrNoWordsFound      = errors.New("no words found")
	ErrEmptyQuery        = errors.New("query contains no words")
	ErrFormat            = errors.New("invalid format")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// FormatError describes why persisted input was rejected.
// Index is the element position (-1 for the top level).
type FormatError struct {
	Index  int
	Field  string
	Reason string
}

func (e *FormatError) Error() string {
	switch {
	case e.Index < 0:
		return fmt.Sprintf("invalid format: %s", e.Reason)
	case e.Field == "":
		return fmt.Sprintf("invalid format: element %d: %s", e.Index, e.Reason)
	default:
		return fmt.Sprintf("invalid format: element %d: field %q: %s", e.Index, e.Field, e.Reason)
	}
}

// Unwrap lets errors.Is(err, ErrFormat) match.
func (e *FormatError) Unwrap() error { return ErrFormat }
