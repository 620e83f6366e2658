//go:build goexperiment.simd && amd64

package rainbowtab

import (
	"math/bits"
	"simd/archsimd"

	intbits "github.com/tamirms/rainbowtab/internal/bits"
)

// lanesNeedVectorISA is true when the lane kernels in this build execute
// AVX2 instructions directly.
const lanesNeedVectorISA = true

// cpuHasWideVector reports whether the 256-bit integer instructions used by
// reduceLanes and scanLanes are available.
func cpuHasWideVector() bool {
	return archsimd.X86.AVX() && archsimd.X86.AVX2()
}

// reduceLanes reduces VectorWidth elements per iteration in one 256-bit
// register and hands the len%VectorWidth tail to reduceScalar. Lane i
// computes exactly what reduceScalar computes for element i.
// Preconditions: len(dst) == len(hashes) == len(steps).
func reduceLanes(dst, hashes []uint64, steps []int32, tt uint64) {
	n := intbits.AlignDown(len(hashes), VectorWidth)
	mask := archsimd.BroadcastUint64x4(Mask40)
	table := archsimd.BroadcastUint64x4(tt)
	for i := 0; i < n; i += VectorWidth {
		// AVX2 has no 64-bit lane multiply; step terms are formed per lane.
		sv := stepTerms((*[VectorWidth]int32)(steps[i : i+VectorWidth]))
		h := archsimd.LoadUint64x4((*[VectorWidth]uint64)(hashes[i : i+VectorWidth]))
		s := archsimd.LoadUint64x4(&sv)
		h.Xor(s).Xor(table).And(mask).Store((*[VectorWidth]uint64)(dst[i : i+VectorWidth]))
	}
	reduceScalar(dst[n:len(hashes)], hashes[n:], steps[n:len(hashes)], tt)
}

// scanLanes broadcasts each record value and compares it against a group of
// ScanWidth targets held in two 256-bit registers. Equal lanes set a bit in
// the comparison mask; padded lanes are cleared before the popcount.
func (t *Table) scanLanes(targets []uint64) int {
	lanes := laneTargets(targets)
	lo := archsimd.LoadUint64x4((*[4]uint64)(lanes[:4]))
	hi := archsimd.LoadUint64x4((*[4]uint64)(lanes[4:]))

	valid := laneMask(len(targets))
	loValid, hiValid := uint8(valid&0xF), uint8(valid>>4)

	count := 0
	for i := 0; i < t.n; i++ {
		v := archsimd.BroadcastUint64x4(t.value(i))
		count += bits.OnesCount8(v.Equal(lo).ToBits()&loValid) +
			bits.OnesCount8(v.Equal(hi).ToBits()&hiValid)
	}
	return count
}
