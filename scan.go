package rainbowtab

import (
	"golang.org/x/sync/errgroup"

	taberrors "github.com/tamirms/rainbowtab/errors"
)

// ScanWidth is the number of targets compared against each record in one
// pass of the vector scan.
const ScanWidth = 8

// ScanCount compares every record's value against every target and returns
// the number of (record, target) pairs that are equal. A target that
// matches k records contributes k; a target listed twice counts twice.
//
// The scan does not use sortedness. Targets are consumed ScanWidth at a
// time, one full pass over the table per group; with WithWorkers(n) groups
// are scanned concurrently.
//
// Options: WithKernel, WithWorkers. Returns ErrUnsupportedHardware if
// KernelVector is selected (the default) without wide-vector support, and
// ErrEmptyTable if the table has no records.
func (t *Table) ScanCount(targets []uint64, opts ...Option) (int, error) {
	cfg := applyOptions(opts)
	if err := checkKernel(cfg.kernel); err != nil {
		return 0, err
	}
	if t.n == 0 {
		return 0, taberrors.ErrEmptyTable
	}
	return t.scanCount(targets, cfg.kernel, cfg.workers)
}

func (t *Table) scanCount(targets []uint64, kernel Kernel, workers int) (int, error) {
	if len(targets) == 0 || t.n == 0 {
		return 0, nil
	}
	scan := t.scanScalar
	if kernel == KernelVector {
		scan = t.scanLanes
	}

	numGroups := (len(targets) + ScanWidth - 1) / ScanWidth
	counts := make([]int, numGroups)
	group := func(i int) []uint64 {
		return targets[i*ScanWidth : min((i+1)*ScanWidth, len(targets))]
	}

	if workers <= 1 || numGroups == 1 {
		for i := range counts {
			counts[i] = scan(group(i))
		}
	} else {
		// One count slot per group; workers never share a slot.
		var g errgroup.Group
		g.SetLimit(workers)
		for i := range counts {
			g.Go(func() error {
				counts[i] = scan(group(i))
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return 0, err
		}
	}

	total := 0
	for _, c := range counts {
		total += c
	}
	return total, nil
}

// scanScalar is the reference nested loop: every record against every target.
func (t *Table) scanScalar(targets []uint64) int {
	count := 0
	for i := 0; i < t.n; i++ {
		v := t.value(i)
		for _, tg := range targets {
			if v == tg {
				count++
			}
		}
	}
	return count
}

// laneTargets spreads a group of at most ScanWidth targets over the scan
// lanes. A short group is padded by repeating its first target.
func laneTargets(targets []uint64) [ScanWidth]uint64 {
	var lanes [ScanWidth]uint64
	for j := range lanes {
		if j < len(targets) {
			lanes[j] = targets[j]
		} else {
			lanes[j] = targets[0]
		}
	}
	return lanes
}

// laneMask has bit j set for every lane j that holds a real target.
func laneMask(n int) uint16 {
	return uint16(1)<<min(n, ScanWidth) - 1
}
