package rainbowtab

import (
	"fmt"

	taberrors "github.com/tamirms/rainbowtab/errors"
	"github.com/tamirms/rainbowtab/internal/encoding"
)

// RecordSize is the fixed size of one table record in bytes.
const RecordSize = 16

// Layout describes where the key and value fields sit inside a record.
//
// Record layout:
//
//	Offset     Size        Field
//	0          KeyWidth    Key   (little-endian)
//	KeyWidth   ValueWidth  Value (little-endian)
//	...        rest        Reserved (zero)
type Layout struct {
	KeyWidth   int
	ValueWidth int
}

// DefaultLayout is the on-disk layout: 40-bit key, 40-bit value, 6 bytes
// reserved.
var DefaultLayout = Layout{KeyWidth: 5, ValueWidth: 5}

// validate checks that both fields fit a uint64 and the record.
func (l Layout) validate() error {
	if l.KeyWidth < 1 || l.KeyWidth > encoding.MaxFieldWidth ||
		l.ValueWidth < 1 || l.ValueWidth > encoding.MaxFieldWidth ||
		l.KeyWidth+l.ValueWidth > RecordSize {
		return fmt.Errorf("%w: key width %d, value width %d", taberrors.ErrInvalidTableLayout, l.KeyWidth, l.ValueWidth)
	}
	return nil
}

// KeyMask returns the largest key the layout can hold.
func (l Layout) KeyMask() uint64 { return encoding.FieldMask(l.KeyWidth) }

// ValueMask returns the largest value the layout can hold.
func (l Layout) ValueMask() uint64 { return encoding.FieldMask(l.ValueWidth) }

// RecordView is a zero-copy view of one record inside a table buffer.
type RecordView struct {
	b      []byte
	layout Layout
}

// recordAt returns the RecordSize bytes of record i. The slice is capped so
// writes through it cannot reach the next record.
func recordAt(buf []byte, i int) []byte {
	off := i * RecordSize
	return buf[off : off+RecordSize : off+RecordSize]
}

// Key returns the record's key field.
func (r RecordView) Key() uint64 {
	return encoding.ReadField(r.b, r.layout.KeyWidth)
}

// Value returns the record's value field.
func (r RecordView) Value() uint64 {
	return encoding.ReadField(r.b[r.layout.KeyWidth:], r.layout.ValueWidth)
}

// Bytes returns the raw record bytes. The slice aliases the table buffer and
// must not be modified.
func (r RecordView) Bytes() []byte { return r.b }

// EncodeRecord writes key and value into dst[:RecordSize] using layout and
// zeroes the reserved bytes.
// Returns ErrValueOutOfRange if either field does not fit.
func EncodeRecord(dst []byte, key, value uint64, layout Layout) error {
	if err := layout.validate(); err != nil {
		return err
	}
	rec := dst[:RecordSize]
	if err := encoding.PutField(rec, key, layout.KeyWidth); err != nil {
		return fmt.Errorf("key 0x%X: %w", key, err)
	}
	if err := encoding.PutField(rec[layout.KeyWidth:], value, layout.ValueWidth); err != nil {
		return fmt.Errorf("value 0x%X: %w", value, err)
	}
	clear(rec[layout.KeyWidth+layout.ValueWidth:])
	return nil
}
