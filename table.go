package rainbowtab

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	taberrors "github.com/tamirms/rainbowtab/errors"
	"github.com/tamirms/rainbowtab/internal/encoding"
)

// Table is a read-only view over a contiguous buffer of records sorted by
// value.
//
// Thread Safety:
// - All methods are safe for concurrent use
// - The underlying buffer must not be modified while the Table is in use
type Table struct {
	buf    []byte
	layout Layout
	n      int
}

// NewTable wraps buf as a table without copying it.
//
// Returns ErrInvalidTableLayout if len(buf) is not a multiple of RecordSize
// or the layout is invalid. Sortedness is not checked here; call Validate
// when the buffer comes from an untrusted source.
func NewTable(buf []byte, layout Layout) (*Table, error) {
	if err := layout.validate(); err != nil {
		return nil, err
	}
	if len(buf)%RecordSize != 0 {
		return nil, fmt.Errorf("%w: buffer length %d is not a multiple of %d",
			taberrors.ErrInvalidTableLayout, len(buf), RecordSize)
	}
	return &Table{
		buf:    buf,
		layout: layout,
		n:      len(buf) / RecordSize,
	}, nil
}

// Len returns the number of records.
func (t *Table) Len() int { return t.n }

// Layout returns the field layout.
func (t *Table) Layout() Layout { return t.layout }

// Bytes returns the underlying buffer. It must not be modified.
func (t *Table) Bytes() []byte { return t.buf }

// At returns a view of record i. Panics if i is out of range.
func (t *Table) At(i int) RecordView {
	return RecordView{b: recordAt(t.buf, i), layout: t.layout}
}

// key reads the key of record i.
func (t *Table) key(i int) uint64 {
	return encoding.ReadField(t.buf[i*RecordSize:], t.layout.KeyWidth)
}

// value reads the value of record i.
func (t *Table) value(i int) uint64 {
	return encoding.ReadField(t.buf[i*RecordSize+t.layout.KeyWidth:], t.layout.ValueWidth)
}

// Validate checks that records are in non-decreasing value order.
// Returns ErrUnsortedTable naming the first out-of-order pair.
func (t *Table) Validate() error {
	if t.n < 2 {
		return nil
	}
	prev := t.value(0)
	for i := 1; i < t.n; i++ {
		v := t.value(i)
		if v < prev {
			return fmt.Errorf("%w: record %d value 0x%X follows 0x%X",
				taberrors.ErrUnsortedTable, i, v, prev)
		}
		prev = v
	}
	return nil
}

// Checksum returns the xxHash64 of the table buffer.
func (t *Table) Checksum() uint64 {
	return xxhash.Sum64(t.buf)
}
