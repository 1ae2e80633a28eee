package canopy

import (
	"errors"
	"fmt"
)

var (
	// ErrDisposed is returned when an operation targets a disposed object.
	ErrDisposed = errors.New("object disposed")
	// ErrInvalidSize is returned for a non-positive bitmap dimension.
	ErrInvalidSize = errors.New("invalid size")
	// ErrTooLarge is returned when a bitmap exceeds the device texture limit.
	ErrTooLarge = errors.New("size exceeds texture limit")
	// ErrInvalidData is returned for malformed serialized or image data.
	ErrInvalidData = errors.New("invalid data")
	// ErrOutOfRange is returned for an out-of-range argument.
	ErrOutOfRange = errors.New("value out of range")
	// ErrNoFont is returned when a font face cannot be resolved.
	ErrNoFont = errors.New("font not found")
)

func opError(op string, err error) error {
	return fmt.Errorf("canopy: %s: %w", op, err)
}
