package rainbowtab

// Search finds a record with value v by binary search over the sorted value
// field. When several records share the value it returns the lowest index,
// so results are reproducible regardless of how the midpoints fall.
// Returns (-1, false) if no record has value v, which includes an empty
// table; Engine.LookupByValue reports that case as ErrEmptyTable.
func (t *Table) Search(v uint64) (int, bool) {
	i := t.lowerBound(v)
	if i < t.n && t.value(i) == v {
		return i, true
	}
	return -1, false
}

// EqualRange returns the half-open index range [lo, hi) of records whose
// value equals v. The range is empty (lo == hi) when v is absent or the
// table has no records; Engine.CountValues reports the latter as
// ErrEmptyTable.
func (t *Table) EqualRange(v uint64) (lo, hi int) {
	lo = t.lowerBound(v)
	hi = lo
	if lo < t.n && t.value(lo) == v {
		hi = t.upperBound(v, lo)
	}
	return lo, hi
}

// ContainsValue reports whether any record has value v.
func (t *Table) ContainsValue(v uint64) bool {
	_, ok := t.Search(v)
	return ok
}

// lowerBound returns the first index whose value is >= v, or t.n.
func (t *Table) lowerBound(v uint64) int {
	lo, hi := 0, t.n
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if t.value(mid) < v {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// upperBound returns the first index in [from, t.n) whose value is > v.
func (t *Table) upperBound(v uint64, from int) int {
	lo, hi := from, t.n
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if t.value(mid) <= v {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
