// Package errors defines all exported error sentinels for the rainbowtab library.
//
// This is the single source of truth for error values. The root package,
// tablefile and the internal packages all import from here, so errors.Is
// checks work across package boundaries.
package errors

import (
	"errors"
	"fmt"
)

// Capability errors
var (
	// ErrUnsupportedHardware is returned when the wide-vector kernel is
	// requested on a CPU without the required instruction set. The scalar
	// kernel is always available as a fallback.
	ErrUnsupportedHardware = errors.New("rainbowtab: wide-vector instruction set not supported on this CPU")
)

// Encoding errors
var (
	ErrValueOutOfRange = errors.New("rainbowtab: value exceeds field width")
)

// Table errors
var (
	ErrInvalidTableLayout = errors.New("rainbowtab: invalid table layout")
	ErrEmptyTable         = fmt.Errorf("%w: table has no records", ErrInvalidTableLayout)
	ErrUnsortedTable      = errors.New("rainbowtab: table is not sorted by value")
)

// Batch errors
var (
	ErrLengthMismatch = errors.New("rainbowtab: input slice lengths differ")
)

// File errors
var (
	ErrTruncatedFile  = errors.New("rainbowtab: table file is truncated")
	ErrChecksumFailed = errors.New("rainbowtab: table checksum verification failed")
	ErrTableClosed    = errors.New("rainbowtab: table is closed")
)
