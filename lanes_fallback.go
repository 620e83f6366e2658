//go:build !(goexperiment.simd && amd64)

package rainbowtab

import (
	intbits "github.com/tamirms/rainbowtab/internal/bits"
	"github.com/tamirms/rainbowtab/internal/isa"
)

// lanesNeedVectorISA is false: the lane kernels below are portable Go and
// run on any CPU.
const lanesNeedVectorISA = false

// cpuHasWideVector keeps the KernelVector contract of the vector build:
// the kernel is offered only where AVX2 or ASIMD is present.
func cpuHasWideVector() bool {
	return isa.HasWideVector()
}

// reduceLanes reduces VectorWidth elements per iteration through fixed-size
// array views and hands the len%VectorWidth tail to reduceScalar.
// Preconditions: len(dst) == len(hashes) == len(steps).
func reduceLanes(dst, hashes []uint64, steps []int32, tt uint64) {
	n := intbits.AlignDown(len(hashes), VectorWidth)
	for i := 0; i < n; i += VectorWidth {
		h := (*[VectorWidth]uint64)(hashes[i : i+VectorWidth])
		d := (*[VectorWidth]uint64)(dst[i : i+VectorWidth])
		sv := stepTerms((*[VectorWidth]int32)(steps[i : i+VectorWidth]))

		d[0] = (h[0] ^ sv[0] ^ tt) & Mask40
		d[1] = (h[1] ^ sv[1] ^ tt) & Mask40
		d[2] = (h[2] ^ sv[2] ^ tt) & Mask40
		d[3] = (h[3] ^ sv[3] ^ tt) & Mask40
	}
	reduceScalar(dst[n:len(hashes)], hashes[n:], steps[n:len(hashes)], tt)
}

// scanLanes compares each record value against a full group of ScanWidth
// targets with branch-free lane equality, keeping a counter per lane.
// Counters of padded lanes are dropped when the lanes are summed.
func (t *Table) scanLanes(targets []uint64) int {
	lanes := laneTargets(targets)

	var hits [ScanWidth]int
	for i := 0; i < t.n; i++ {
		v := t.value(i)
		hits[0] += laneEq(v, lanes[0])
		hits[1] += laneEq(v, lanes[1])
		hits[2] += laneEq(v, lanes[2])
		hits[3] += laneEq(v, lanes[3])
		hits[4] += laneEq(v, lanes[4])
		hits[5] += laneEq(v, lanes[5])
		hits[6] += laneEq(v, lanes[6])
		hits[7] += laneEq(v, lanes[7])
	}

	count := 0
	for j := range len(targets) {
		count += hits[j]
	}
	return count
}

// laneEq returns 1 if a == b and 0 otherwise, without branching.
func laneEq(a, b uint64) int {
	x := a ^ b
	return int(1 ^ (x|-x)>>63)
}
