package rainbowtab

import (
	"errors"
	"fmt"
	"math"
	"testing"

	taberrors "github.com/tamirms/rainbowtab/errors"
)

func TestReduceGolden(t *testing.T) {
	tests := []struct {
		hash    uint64
		step    int32
		tableID int32
		want    uint64
	}{
		{0x1, 0, 0, 0x5bd1e994},
		{0x0, 0, 7, 0x40855bd9a},
		{0xFFFFFFFFFFFFFFFF, 999, 7, 0x9d0783c5f8},
		// step+1 wraps to MinInt32 and is sign-extended.
		{0x0, math.MaxInt32, 0, 0x3580000000},
		// Negative inputs sign-extend; step -1 contributes nothing.
		{0x123456789abcdef0, -1, -3, 0x86bfe54c25},
	}
	for _, tt := range tests {
		got := Reduce(tt.hash, tt.step, tt.tableID)
		if got != tt.want {
			t.Errorf("Reduce(0x%X, %d, %d) = 0x%X, want 0x%X", tt.hash, tt.step, tt.tableID, got, tt.want)
		}
	}
}

// TestReduceMasked verifies bits 40-63 of every result are zero.
func TestReduceMasked(t *testing.T) {
	rng := newTestRNG(t)
	for i := 0; i < 100000; i++ {
		h := rng.Uint64()
		s := rng.Int32N(math.MaxInt32)
		id := rng.Int32()
		if got := Reduce(h, s, id); got>>40 != 0 {
			t.Fatalf("Reduce(0x%X, %d, %d) = 0x%X has upper bits set", h, s, id, got)
		}
	}
}

// TestReduceBatchMatchesScalar checks every lane against Reduce for both
// kernels, including lengths that leave a partial lane group.
func TestReduceBatchMatchesScalar(t *testing.T) {
	kernels := kernelsUnderTest(t)
	rng := newTestRNG(t)

	lengths := []int{0, 1, 3, 4, 5, 7, 8, 9, 63, 64, 65, 1001}
	for _, kernel := range kernels {
		for _, n := range lengths {
			t.Run(fmt.Sprintf("%s/n=%d", kernel, n), func(t *testing.T) {
				hashes, steps := randomInputs(rng, n)
				got, err := ReduceBatch(hashes, steps, 7, WithKernel(kernel))
				if err != nil {
					t.Fatal(err)
				}
				if len(got) != n {
					t.Fatalf("len = %d, want %d", len(got), n)
				}
				for i := range got {
					if want := Reduce(hashes[i], steps[i], 7); got[i] != want {
						t.Fatalf("lane %d: got 0x%X, want 0x%X", i, got[i], want)
					}
				}
			})
		}
	}
}

// TestReduceBatchParallel uses enough elements to split across workers, with
// a length that is not a multiple of VectorWidth.
func TestReduceBatchParallel(t *testing.T) {
	kernels := kernelsUnderTest(t)
	rng := newTestRNG(t)

	n := 5*minParallelSpan + 3
	hashes, steps := randomInputs(rng, n)
	for _, workers := range []int{1, 2, 3, 8} {
		for _, kernel := range kernels {
			got, err := ReduceBatch(hashes, steps, 11, WithKernel(kernel), WithWorkers(workers))
			if err != nil {
				t.Fatal(err)
			}
			for i := range got {
				if want := Reduce(hashes[i], steps[i], 11); got[i] != want {
					t.Fatalf("workers=%d kernel=%s lane %d: got 0x%X, want 0x%X",
						workers, kernel, i, got[i], want)
				}
			}
		}
	}
}

func TestReduceBatchIntoLeavesTailUntouched(t *testing.T) {
	useLaneKernel(t)
	hashes := []uint64{1, 2, 3, 4, 5, 6, 7}
	steps := []int32{0, 1, 2, 3, 4, 5, 6}
	dst := make([]uint64, 10)
	for i := range dst {
		dst[i] = 0xDEAD
	}
	if err := ReduceBatchInto(dst, hashes, steps, 0); err != nil {
		t.Fatal(err)
	}
	for i := range hashes {
		if want := Reduce(hashes[i], steps[i], 0); dst[i] != want {
			t.Fatalf("dst[%d] = 0x%X, want 0x%X", i, dst[i], want)
		}
	}
	for i := len(hashes); i < len(dst); i++ {
		if dst[i] != 0xDEAD {
			t.Fatalf("dst[%d] overwritten: 0x%X", i, dst[i])
		}
	}
}

func TestReduceBatchLengthMismatch(t *testing.T) {
	_, err := ReduceBatch(make([]uint64, 4), make([]int32, 3), 0, WithKernel(KernelScalar))
	if !errors.Is(err, taberrors.ErrLengthMismatch) {
		t.Fatalf("got %v, want ErrLengthMismatch", err)
	}
	err = ReduceBatchInto(make([]uint64, 2), make([]uint64, 4), make([]int32, 4), 0, WithKernel(KernelScalar))
	if !errors.Is(err, taberrors.ErrLengthMismatch) {
		t.Fatalf("short dst: got %v, want ErrLengthMismatch", err)
	}
}

// TestReduceBatchUnsupportedHardware verifies the vector kernel is refused,
// not silently downgraded, and that the scalar kernel still works.
func TestReduceBatchUnsupportedHardware(t *testing.T) {
	forceWideVector(t, false)
	hashes := []uint64{1, 2, 3}
	steps := []int32{0, 0, 0}

	_, err := ReduceBatch(hashes, steps, 0)
	if !errors.Is(err, taberrors.ErrUnsupportedHardware) {
		t.Fatalf("default kernel: got %v, want ErrUnsupportedHardware", err)
	}
	if DetectKernel() != KernelScalar {
		t.Fatalf("DetectKernel() = %s, want scalar", DetectKernel())
	}
	got, err := ReduceBatch(hashes, steps, 0, WithKernel(DetectKernel()))
	if err != nil {
		t.Fatalf("scalar fallback: %v", err)
	}
	if got[0] != Reduce(1, 0, 0) {
		t.Fatalf("got 0x%X, want 0x%X", got[0], Reduce(1, 0, 0))
	}
}

func TestDetectKernelWithHardware(t *testing.T) {
	forceWideVector(t, true)
	if DetectKernel() != KernelVector {
		t.Fatalf("DetectKernel() = %s, want vector", DetectKernel())
	}
}

// TestReduceLanesEdgeInputs runs the lane kernel directly on inputs whose
// step terms wrap or sign-extend, in every lane position and in the tail.
func TestReduceLanesEdgeInputs(t *testing.T) {
	useLaneKernel(t)
	edges := []int32{0, -1, 1, math.MaxInt32, math.MinInt32, math.MaxInt32 - 1}
	for n := range 2*VectorWidth + 1 {
		hashes := make([]uint64, n)
		steps := make([]int32, n)
		for i := range hashes {
			hashes[i] = ^uint64(0) >> uint(i)
			steps[i] = edges[i%len(edges)]
		}
		tt := tableTerm(-3)
		got := make([]uint64, n)
		want := make([]uint64, n)
		reduceLanes(got, hashes, steps, tt)
		reduceScalar(want, hashes, steps, tt)
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("n=%d lane %d: got 0x%X, want 0x%X", n, i, got[i], want[i])
			}
		}
	}
}

func TestDetectKernelFollowsCPU(t *testing.T) {
	want := KernelScalar
	if cpuHasWideVector() {
		want = KernelVector
	}
	if got := DetectKernel(); got != want {
		t.Fatalf("DetectKernel() = %s, want %s", got, want)
	}
}

func TestKernelString(t *testing.T) {
	if KernelVector.String() != "vector" || KernelScalar.String() != "scalar" || Kernel(9).String() != "unknown" {
		t.Fatal("unexpected kernel names")
	}
	if err := checkKernel(Kernel(9)); err == nil {
		t.Fatal("checkKernel(9) should fail")
	}
}
