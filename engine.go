package rainbowtab

import (
	"fmt"
	"sync"

	taberrors "github.com/tamirms/rainbowtab/errors"
)

// Strategy selects how an Engine answers value queries.
type Strategy uint8

const (
	// StrategyBinarySearch uses O(log N) binary search over the sorted values.
	StrategyBinarySearch Strategy = iota

	// StrategyVectorScan scans every record against ScanWidth targets per
	// pass with the lane kernel. Requires wide-vector support.
	StrategyVectorScan

	// StrategyScalarScan scans every record against every target one
	// comparison at a time. Always available.
	StrategyScalarScan
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyBinarySearch:
		return "binary-search"
	case StrategyVectorScan:
		return "vector-scan"
	case StrategyScalarScan:
		return "scalar-scan"
	default:
		return "unknown"
	}
}

// Engine answers membership queries over one Table.
//
// Value queries (LookupByValue, CountValues) use the strategy chosen at
// construction. Key queries (LookupByKey) always go through a HashIndex,
// built on first use. Every strategy returns the same answers for the same
// table; they differ only in cost.
//
// Thread Safety: all methods are safe for concurrent use.
type Engine struct {
	table    *Table
	strategy Strategy
	workers  int

	indexOnce sync.Once
	index     *HashIndex
}

// NewEngine creates an engine over t.
//
// Options: WithStrategy, WithWorkers. The hardware check for
// StrategyVectorScan happens here, once; it fails with
// ErrUnsupportedHardware rather than falling back, and the caller picks
// another strategy.
func NewEngine(t *Table, opts ...Option) (*Engine, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil table", taberrors.ErrInvalidTableLayout)
	}
	cfg := applyOptions(opts)
	switch cfg.strategy {
	case StrategyBinarySearch, StrategyScalarScan:
	case StrategyVectorScan:
		if err := checkKernel(KernelVector); err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.strategy, err)
		}
	default:
		return nil, fmt.Errorf("unknown strategy %d", cfg.strategy)
	}
	return &Engine{
		table:    t,
		strategy: cfg.strategy,
		workers:  cfg.workers,
	}, nil
}

// Strategy returns the value lookup strategy.
func (e *Engine) Strategy() Strategy { return e.strategy }

// Table returns the table the engine reads.
func (e *Engine) Table() *Table { return e.table }

// LookupByValue reports whether any record has value v.
// Returns ErrEmptyTable if the table has no records.
func (e *Engine) LookupByValue(v uint64) (bool, error) {
	if e.table.n == 0 {
		return false, taberrors.ErrEmptyTable
	}
	switch e.strategy {
	case StrategyBinarySearch:
		return e.table.ContainsValue(v), nil
	default:
		n, err := e.table.scanCount([]uint64{v}, e.kernel(), 1)
		return n > 0, err
	}
}

// CountValues returns the number of (record, target) pairs with equal
// values, the same quantity Table.ScanCount computes.
// Returns ErrEmptyTable if the table has no records.
func (e *Engine) CountValues(targets []uint64) (int, error) {
	if e.table.n == 0 {
		return 0, taberrors.ErrEmptyTable
	}
	switch e.strategy {
	case StrategyBinarySearch:
		total := 0
		for _, v := range targets {
			lo, hi := e.table.EqualRange(v)
			total += hi - lo
		}
		return total, nil
	default:
		return e.table.scanCount(targets, e.kernel(), e.workers)
	}
}

// LookupByKey returns the value of the record with the given key. The first
// call builds the HashIndex with one full pass over the table.
// Returns ErrEmptyTable if the table has no records.
func (e *Engine) LookupByKey(key uint64) (uint64, bool, error) {
	if e.table.n == 0 {
		return 0, false, taberrors.ErrEmptyTable
	}
	v, ok := e.HashIndex().Lookup(key)
	return v, ok, nil
}

// HashIndex returns the engine's key index, building it on first call.
func (e *Engine) HashIndex() *HashIndex {
	e.indexOnce.Do(func() {
		e.index = BuildHashIndex(e.table)
	})
	return e.index
}

func (e *Engine) kernel() Kernel {
	if e.strategy == StrategyVectorScan {
		return KernelVector
	}
	return KernelScalar
}
