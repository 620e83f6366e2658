// Package bits provides alignment and partitioning helpers for lane-wise
// batch kernels.
package bits

// AlignDown rounds n down to a multiple of align. align must be a power of two.
func AlignDown(n, align int) int {
	return n &^ (align - 1)
}

// Span is a half-open index range [Lo, Hi).
type Span struct {
	Lo, Hi int
}

// Len returns Hi - Lo.
func (s Span) Len() int { return s.Hi - s.Lo }

// SplitAligned divides [0, n) into at most parts contiguous spans whose
// boundaries are multiples of align, except that the last span ends at n.
// Spans are never empty. Returns nil when n == 0.
//
// Every span but the last has a length that is a multiple of align, so a
// kernel that handles align lanes at a time only ever sees a partial group
// in the final span.
func SplitAligned(n, parts, align int) []Span {
	if n <= 0 {
		return nil
	}
	if parts < 1 {
		parts = 1
	}
	groups := (n + align - 1) / align
	if parts > groups {
		parts = groups
	}
	per := groups / parts
	extra := groups % parts

	spans := make([]Span, 0, parts)
	lo := 0
	for i := range parts {
		g := per
		if i < extra {
			g++
		}
		hi := min(lo+g*align, n)
		spans = append(spans, Span{Lo: lo, Hi: hi})
		lo = hi
	}
	return spans
}
