package rainbowtab

import (
	"math"

	"github.com/dolthub/swiss"
)

// HashIndex maps record keys to record values.
//
// It answers existence of a key, not of a value; value lookups go through
// Table.Search or Table.ScanCount. Once built it is read-only and safe for
// concurrent readers.
//
// Duplicate keys: construction walks the table in record order and the
// later record overwrites the earlier one, so Lookup returns the value of
// the highest-indexed record carrying that key.
type HashIndex struct {
	m *swiss.Map[uint64, uint64]
}

// BuildHashIndex scans t once and indexes every record by key. An empty
// table yields an empty index; Engine.LookupByKey checks for that case and
// returns ErrEmptyTable before building.
func BuildHashIndex(t *Table) *HashIndex {
	capacity := uint32(min(uint64(max(t.n, 1)), math.MaxUint32))
	m := swiss.NewMap[uint64, uint64](capacity)
	for i := 0; i < t.n; i++ {
		m.Put(t.key(i), t.value(i))
	}
	return &HashIndex{m: m}
}

// Lookup returns the value stored for key.
func (h *HashIndex) Lookup(key uint64) (uint64, bool) {
	return h.m.Get(key)
}

// Contains reports whether any record has the given key.
func (h *HashIndex) Contains(key uint64) bool {
	return h.m.Has(key)
}

// Len returns the number of distinct keys.
func (h *HashIndex) Len() int {
	return h.m.Count()
}
