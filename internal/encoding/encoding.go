// Package encoding provides little-endian packing of fixed-width unsigned
// fields into byte spans.
//
// Fields are 1 to 8 bytes wide and need not be aligned. The 5-byte case is
// the on-disk width of both record fields, so it gets its own fast path.
package encoding

import (
	"encoding/binary"

	taberrors "github.com/tamirms/rainbowtab/errors"
)

// MaxFieldWidth is the widest field that fits in a uint64.
const MaxFieldWidth = 8

// FieldMask returns a mask with the low width*8 bits set.
// Widths of 8 or more return all ones.
func FieldMask(width int) uint64 {
	if width >= MaxFieldWidth {
		return ^uint64(0)
	}
	return uint64(1)<<(width*8) - 1
}

// ReadField reads a little-endian unsigned value of width bytes from buf.
// The upper 64-width*8 bits of the result are zero.
// Precondition: len(buf) >= width and 1 <= width <= 8.
func ReadField(buf []byte, width int) uint64 {
	switch width {
	case 4:
		return uint64(binary.LittleEndian.Uint32(buf))
	case 5:
		_ = buf[4]
		return uint64(binary.LittleEndian.Uint32(buf)) | uint64(buf[4])<<32
	case 8:
		return binary.LittleEndian.Uint64(buf)
	default:
		var v uint64
		for i := range width {
			v |= uint64(buf[i]) << (i * 8)
		}
		return v
	}
}

// WriteField writes the low width bytes of v to buf in little-endian order.
// Bits above the field width are silently dropped; use PutField when the
// caller cannot guarantee that v fits.
// Precondition: len(buf) >= width and 1 <= width <= 8.
func WriteField(buf []byte, v uint64, width int) {
	switch width {
	case 4:
		binary.LittleEndian.PutUint32(buf, uint32(v))
	case 5:
		_ = buf[4]
		binary.LittleEndian.PutUint32(buf, uint32(v))
		buf[4] = byte(v >> 32)
	case 8:
		binary.LittleEndian.PutUint64(buf, v)
	default:
		for i := range width {
			buf[i] = byte(v >> (i * 8))
		}
	}
}

// PutField is WriteField with range checking.
// Returns ErrValueOutOfRange if v has bits set above the field width.
func PutField(buf []byte, v uint64, width int) error {
	if v&^FieldMask(width) != 0 {
		return taberrors.ErrValueOutOfRange
	}
	WriteField(buf, v, width)
	return nil
}
