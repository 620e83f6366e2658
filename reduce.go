package rainbowtab

import (
	"fmt"

	taberrors "github.com/tamirms/rainbowtab/errors"
	intbits "github.com/tamirms/rainbowtab/internal/bits"
	"golang.org/x/sync/errgroup"
)

const (
	// StepMultiplier scales the 1-based chain step (MurmurHash2 m constant).
	StepMultiplier = 0x5bd1e995

	// TableMultiplier scales the table identifier (golden ratio constant).
	TableMultiplier = 0x9e3779b9

	// Mask40 keeps the low 40 bits, the width of a record field.
	Mask40 = 0xFFFFFFFFFF

	// VectorWidth is the number of uint64 lanes in one wide-vector group.
	VectorWidth = 4

	// minParallelSpan is the smallest partition handed to a worker.
	// Smaller batches are reduced on the calling goroutine.
	minParallelSpan = 1 << 14
)

// stepTerm returns (step+1)*StepMultiplier. The increment wraps in int32 and
// the result is sign-extended before the wrapping 64-bit multiply.
func stepTerm(step int32) uint64 {
	return uint64(int64(step+1)) * StepMultiplier
}

// tableTerm returns tableID*TableMultiplier with 64-bit wraparound.
func tableTerm(tableID int32) uint64 {
	return uint64(int64(tableID)) * TableMultiplier
}

// Reduce maps a hash, a chain step and a table identifier to a 40-bit
// candidate value. It is a pure function; bits 40-63 of the result are zero.
func Reduce(hash uint64, step, tableID int32) uint64 {
	return (hash ^ stepTerm(step) ^ tableTerm(tableID)) & Mask40
}

// ReduceBatch reduces every (hashes[i], steps[i]) pair under tableID and
// returns the results. For every i the result equals
// Reduce(hashes[i], steps[i], tableID), whatever kernel and worker count
// are used.
//
// Returns ErrLengthMismatch if the input lengths differ, and
// ErrUnsupportedHardware if KernelVector is selected (the default) on a CPU
// without wide-vector support.
func ReduceBatch(hashes []uint64, steps []int32, tableID int32, opts ...Option) ([]uint64, error) {
	if len(hashes) != len(steps) {
		return nil, fmt.Errorf("%d hashes, %d steps: %w", len(hashes), len(steps), taberrors.ErrLengthMismatch)
	}
	dst := make([]uint64, len(hashes))
	if err := ReduceBatchInto(dst, hashes, steps, tableID, opts...); err != nil {
		return nil, err
	}
	return dst, nil
}

// ReduceBatchInto is ReduceBatch writing into dst, which must be at least
// len(hashes) long. Only dst[:len(hashes)] is written.
func ReduceBatchInto(dst, hashes []uint64, steps []int32, tableID int32, opts ...Option) error {
	n := len(hashes)
	if len(steps) != n || len(dst) < n {
		return fmt.Errorf("%d hashes, %d steps, dst %d: %w", n, len(steps), len(dst), taberrors.ErrLengthMismatch)
	}
	cfg := applyOptions(opts)
	if err := checkKernel(cfg.kernel); err != nil {
		return err
	}

	kern := reduceScalar
	if cfg.kernel == KernelVector {
		kern = reduceLanes
	}
	tt := tableTerm(tableID)

	parts := min(cfg.workers, n/minParallelSpan)
	if parts <= 1 {
		kern(dst[:n], hashes, steps, tt)
		return nil
	}

	// Spans end on VectorWidth boundaries, so only the final span can carry a
	// partial lane group. Each worker writes a disjoint range of dst.
	var g errgroup.Group
	for _, s := range intbits.SplitAligned(n, parts, VectorWidth) {
		g.Go(func() error {
			kern(dst[s.Lo:s.Hi], hashes[s.Lo:s.Hi], steps[s.Lo:s.Hi], tt)
			return nil
		})
	}
	return g.Wait()
}
