package rainbowtab

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand/v2"
	"testing"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

func newTestRNG(t testing.TB) *rand.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return rand.New(rand.NewPCG(testSeed1^s1, testSeed2^s2))
}

// forceWideVector overrides hardware detection for the duration of the test.
// Tests using it must not call t.Parallel.
func forceWideVector(t testing.TB, supported bool) {
	t.Helper()
	prev := wideVectorSupported
	wideVectorSupported = func() bool { return supported }
	t.Cleanup(func() { wideVectorSupported = prev })
}

// useLaneKernel enables KernelVector for the test. When the lane kernels
// execute AVX2 instructions and the CPU lacks them, the test is skipped.
func useLaneKernel(t testing.TB) {
	t.Helper()
	if lanesNeedVectorISA && !cpuHasWideVector() {
		t.Skip("lane kernels need AVX2")
	}
	forceWideVector(t, true)
}

// kernelsUnderTest returns the kernels that can run here, scalar first.
// KernelVector is included whenever its lanes can execute on this CPU.
func kernelsUnderTest(t testing.TB) []Kernel {
	t.Helper()
	if lanesNeedVectorISA && !cpuHasWideVector() {
		t.Log("AVX2 unavailable, checking the scalar kernel only")
		return []Kernel{KernelScalar}
	}
	forceWideVector(t, true)
	return []Kernel{KernelScalar, KernelVector}
}

// tableFromValues builds a table with all-zero keys and the given values.
func tableFromValues(t testing.TB, values ...uint64) *Table {
	t.Helper()
	keys := make([]uint64, len(values))
	tbl, err := FromEntries(keys, values, DefaultLayout)
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

// randomInputs returns n random hashes and steps in [0, 1000).
func randomInputs(rng *rand.Rand, n int) ([]uint64, []int32) {
	hashes := make([]uint64, n)
	steps := make([]int32, n)
	for i := range hashes {
		hashes[i] = rng.Uint64()
		steps[i] = rng.Int32N(1000)
	}
	return hashes, steps
}

// naiveCount is the reference per-record, per-target equality count.
func naiveCount(t *Table, targets []uint64) int {
	count := 0
	for i := 0; i < t.Len(); i++ {
		v := t.At(i).Value()
		for _, tg := range targets {
			if v == tg {
				count++
			}
		}
	}
	return count
}
