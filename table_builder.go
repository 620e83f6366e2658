package rainbowtab

import (
	"cmp"
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"unsafe"

	taberrors "github.com/tamirms/rainbowtab/errors"
	"github.com/tamirms/rainbowtab/internal/encoding"
	"golang.org/x/sync/errgroup"
)

const (
	// fillChunkRecords is the number of records generated from one PCG
	// stream. Chunk c always uses stream (seed, c), so table contents depend
	// only on the seed, never on the worker count.
	fillChunkRecords = 1 << 16

	// contextCheckInterval is how often to check for context cancellation
	// while filling a chunk.
	contextCheckInterval = 10000

	// maxEntries keeps the buffer size within int range on all platforms.
	maxEntries = (1<<31 - 1) / RecordSize
)

// record is one table entry. Its alignment is 1, so a []record can alias any
// []byte whose length is a multiple of RecordSize.
type record [RecordSize]byte

// Build generates a table of entryCount records whose keys and values are
// independent uniform random numbers masked to the layout's field widths,
// sorted by value.
//
// Records with equal values are ordered by key, so the output is fully
// determined by the seed and layout. Reserved bytes are zero.
//
// Options: WithSeed, WithWorkers, WithLayout.
func Build(ctx context.Context, entryCount int, opts ...Option) (*Table, error) {
	cfg := applyOptions(opts)
	if err := cfg.layout.validate(); err != nil {
		return nil, err
	}
	if entryCount < 0 || entryCount > maxEntries {
		return nil, fmt.Errorf("%w: entry count %d", taberrors.ErrInvalidTableLayout, entryCount)
	}

	buf := make([]byte, entryCount*RecordSize)
	if err := fillRandom(ctx, buf, cfg); err != nil {
		return nil, err
	}
	sortByValue(buf, cfg.layout)
	return NewTable(buf, cfg.layout)
}

// fillRandom writes random keys and values into every record of buf.
func fillRandom(ctx context.Context, buf []byte, cfg *config) error {
	n := len(buf) / RecordSize
	numChunks := (n + fillChunkRecords - 1) / fillChunkRecords

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)
	for c := range numChunks {
		if err := gctx.Err(); err != nil {
			break
		}
		lo := c * fillChunkRecords
		hi := min(lo+fillChunkRecords, n)
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(cfg.seed, uint64(c)))
			return fillChunk(gctx, buf, lo, hi, rng, cfg.layout)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func fillChunk(ctx context.Context, buf []byte, lo, hi int, rng *rand.Rand, layout Layout) error {
	kw, vw := layout.KeyWidth, layout.ValueWidth
	for i := lo; i < hi; i++ {
		if (i-lo)%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		rec := recordAt(buf, i)
		encoding.WriteField(rec, rng.Uint64(), kw)
		encoding.WriteField(rec[kw:], rng.Uint64(), vw)
	}
	return nil
}

// sortByValue sorts the records of buf in place by (value, key).
func sortByValue(buf []byte, layout Layout) {
	n := len(buf) / RecordSize
	if n < 2 {
		return
	}
	recs := unsafe.Slice((*record)(unsafe.Pointer(unsafe.SliceData(buf))), n)
	kw, vw := layout.KeyWidth, layout.ValueWidth
	slices.SortFunc(recs, func(a, b record) int {
		va := encoding.ReadField(a[kw:], vw)
		vb := encoding.ReadField(b[kw:], vw)
		if c := cmp.Compare(va, vb); c != 0 {
			return c
		}
		return cmp.Compare(encoding.ReadField(a[:], kw), encoding.ReadField(b[:], kw))
	})
}

// FromEntries builds a table from explicit key/value pairs, sorted by value.
// It is the deterministic counterpart of Build for fixtures and for callers
// that already hold their data.
// Returns ErrValueOutOfRange if a field does not fit the layout, or
// ErrLengthMismatch if keys and values differ in length.
func FromEntries(keys, values []uint64, layout Layout) (*Table, error) {
	if len(keys) != len(values) {
		return nil, fmt.Errorf("%d keys, %d values: %w", len(keys), len(values), taberrors.ErrLengthMismatch)
	}
	if err := layout.validate(); err != nil {
		return nil, err
	}
	buf := make([]byte, len(keys)*RecordSize)
	for i := range keys {
		if err := EncodeRecord(recordAt(buf, i), keys[i], values[i], layout); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	sortByValue(buf, layout)
	return NewTable(buf, layout)
}
