package registers

import (
	"errors"
	"fmt"
)

// Codec errors
var (
	// ErrShortBuffer indicates a read image shorter than the decodable layout
	ErrShortBuffer = errors.New("register image too short")

	// ErrUndefinedField indicates an attempt to encode settings with an
	// undefined field; the write layout has no representation for "unset"
	ErrUndefinedField = errors.New("settings field undefined")
)

// OutOfRangeError indicates an offset-adjusted value does not fit its
// register field width. Static validation bounds every field well inside its
// width, so this is a broken invariant (validation was bypassed), not a user
// error.
type OutOfRangeError struct {
	Field string
	Value int
	Bits  int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("register value out of range: %s=%d does not fit %d bits", e.Field, e.Value, e.Bits)
}
