package rainbowtab

import (
	"bytes"
	"context"
	"errors"
	"testing"

	taberrors "github.com/tamirms/rainbowtab/errors"
)

func TestNewTableLayoutErrors(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		layout Layout
	}{
		{"not a multiple of record size", 17, DefaultLayout},
		{"short buffer", 15, DefaultLayout},
		{"zero key width", 16, Layout{KeyWidth: 0, ValueWidth: 5}},
		{"value wider than uint64", 16, Layout{KeyWidth: 5, ValueWidth: 9}},
		{"key wider than uint64", 16, Layout{KeyWidth: 9, ValueWidth: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(make([]byte, tt.size), tt.layout)
			if !errors.Is(err, taberrors.ErrInvalidTableLayout) {
				t.Fatalf("got %v, want ErrInvalidTableLayout", err)
			}
		})
	}
}

func TestNewTableZeroCopy(t *testing.T) {
	buf := make([]byte, 3*RecordSize)
	tbl, err := NewTable(buf, DefaultLayout)
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tbl.Len())
	}
	buf[RecordSize+5] = 0x42
	if got := tbl.At(1).Value(); got != 0x42 {
		t.Fatalf("At(1).Value() = 0x%X, want 0x42 (view should alias buffer)", got)
	}
	if len(tbl.At(1).Bytes()) != RecordSize || cap(tbl.At(1).Bytes()) != RecordSize {
		t.Fatal("record view is not capped to one record")
	}
}

func TestEncodeRecord(t *testing.T) {
	buf := bytes.Repeat([]byte{0xFF}, RecordSize)
	if err := EncodeRecord(buf, 0x0102030405, 0x060708090A, DefaultLayout); err != nil {
		t.Fatal(err)
	}
	want := []byte{
		0x05, 0x04, 0x03, 0x02, 0x01,
		0x0A, 0x09, 0x08, 0x07, 0x06,
		0, 0, 0, 0, 0, 0,
	}
	if !bytes.Equal(buf, want) {
		t.Fatalf("got % X\nwant % X", buf, want)
	}

	err := EncodeRecord(buf, 1<<40, 0, DefaultLayout)
	if !errors.Is(err, taberrors.ErrValueOutOfRange) {
		t.Fatalf("oversized key: got %v, want ErrValueOutOfRange", err)
	}
	err = EncodeRecord(buf, 0, 1<<40, DefaultLayout)
	if !errors.Is(err, taberrors.ErrValueOutOfRange) {
		t.Fatalf("oversized value: got %v, want ErrValueOutOfRange", err)
	}
}

func TestValidate(t *testing.T) {
	tbl := tableFromValues(t, 30, 10, 20, 10)
	if err := tbl.Validate(); err != nil {
		t.Fatalf("FromEntries output not sorted: %v", err)
	}

	buf := make([]byte, 2*RecordSize)
	_ = EncodeRecord(buf, 0, 5, DefaultLayout)
	_ = EncodeRecord(buf[RecordSize:], 0, 4, DefaultLayout)
	unsorted, err := NewTable(buf, DefaultLayout)
	if err != nil {
		t.Fatal(err)
	}
	if err := unsorted.Validate(); !errors.Is(err, taberrors.ErrUnsortedTable) {
		t.Fatalf("got %v, want ErrUnsortedTable", err)
	}
}

func TestBuildSorted(t *testing.T) {
	tbl, err := Build(context.Background(), 200000, WithSeed(1), WithWorkers(4))
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 200000 {
		t.Fatalf("Len() = %d, want 200000", tbl.Len())
	}
	for i := 1; i < tbl.Len(); i++ {
		if tbl.At(i-1).Value() > tbl.At(i).Value() {
			t.Fatalf("records %d and %d out of order", i-1, i)
		}
	}
	for i := 0; i < tbl.Len(); i += 997 {
		r := tbl.At(i)
		if r.Key()>>40 != 0 || r.Value()>>40 != 0 {
			t.Fatalf("record %d has bits above 40: key 0x%X value 0x%X", i, r.Key(), r.Value())
		}
		for _, b := range r.Bytes()[10:] {
			if b != 0 {
				t.Fatalf("record %d reserved bytes not zero: % X", i, r.Bytes())
			}
		}
	}
}

// TestBuildDeterministic verifies the output depends on the seed only, not on
// the worker count.
func TestBuildDeterministic(t *testing.T) {
	ctx := context.Background()
	n := 3*fillChunkRecords + 123
	a, err := Build(ctx, n, WithSeed(99), WithWorkers(1))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build(ctx, n, WithSeed(99), WithWorkers(8))
	if err != nil {
		t.Fatal(err)
	}
	if a.Checksum() != b.Checksum() || !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatal("same seed produced different tables for different worker counts")
	}
	c, err := Build(ctx, n, WithSeed(100))
	if err != nil {
		t.Fatal(err)
	}
	if a.Checksum() == c.Checksum() {
		t.Fatal("different seeds produced identical tables")
	}
}

func TestBuildLayout(t *testing.T) {
	layout := Layout{KeyWidth: 3, ValueWidth: 2}
	tbl, err := Build(context.Background(), 1000, WithLayout(layout))
	if err != nil {
		t.Fatal(err)
	}
	if err := tbl.Validate(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < tbl.Len(); i++ {
		r := tbl.At(i)
		if r.Key() > layout.KeyMask() || r.Value() > layout.ValueMask() {
			t.Fatalf("record %d exceeds layout: key 0x%X value 0x%X", i, r.Key(), r.Value())
		}
	}
}

func TestBuildErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := Build(ctx, -1); !errors.Is(err, taberrors.ErrInvalidTableLayout) {
		t.Fatalf("negative count: got %v", err)
	}
	if _, err := Build(ctx, 10, WithLayout(Layout{KeyWidth: 9, ValueWidth: 5})); !errors.Is(err, taberrors.ErrInvalidTableLayout) {
		t.Fatalf("bad layout: got %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := Build(cancelled, 1000); !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled context: got %v, want context.Canceled", err)
	}
}

func TestFromEntriesLengthMismatch(t *testing.T) {
	_, err := FromEntries([]uint64{1, 2}, []uint64{1}, DefaultLayout)
	if !errors.Is(err, taberrors.ErrLengthMismatch) {
		t.Fatalf("got %v, want ErrLengthMismatch", err)
	}
}

func TestChecksumStable(t *testing.T) {
	a := tableFromValues(t, 1, 2, 3)
	b := tableFromValues(t, 3, 2, 1)
	if a.Checksum() != b.Checksum() {
		t.Fatal("checksum differs for identical sorted contents")
	}
}
