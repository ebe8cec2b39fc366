package wsjtx

import (
	"errors"
	"fmt"
)

// Decode error kinds, matched with errors.Is.
var (
	ErrUnsupportedType = errors.New("unsupported message type")
	ErrTruncated       = errors.New("truncated")
	ErrInvalidLength   = errors.New("invalid string length")
)

// DecodeError reports where decoding failed.
type DecodeError struct {
	Field  string
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("wsjtx: decode %s at offset %d: %v", e.Field, e.Offset, e.Err)
}

// Unwrap returns the error kind.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
