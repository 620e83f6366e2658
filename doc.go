// Package rainbowtab implements the two primitives behind rainbow-table
// lookups: a reduction function that maps a hash back into a 40-bit
// plaintext space, and a lookup engine over a sorted table of packed
// key/value records.
//
// # Reduction
//
// Reduce is the scalar definition. ReduceBatch evaluates many inputs with a
// 4-lane kernel and gives the same answer as Reduce for every element.
// Built with GOEXPERIMENT=simd on amd64, the lane kernels run on AVX2
// registers through simd/archsimd; other builds use portable lane code.
//
//
//	results, err := rainbowtab.ReduceBatch(hashes, steps, tableID,
//	    rainbowtab.WithKernel(rainbowtab.DetectKernel()),
//	    rainbowtab.WithWorkers(runtime.NumCPU()))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Tables
//
// A table is a flat buffer of 16-byte records: a 40-bit little-endian key in
// bytes 0-4, a 40-bit little-endian value in bytes 5-9, and six reserved
// bytes. Records are sorted by value.
//
//	t, err := rainbowtab.Build(ctx, 1<<20, rainbowtab.WithSeed(42))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	eng, err := rainbowtab.NewEngine(t, rainbowtab.WithStrategy(rainbowtab.StrategyBinarySearch))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	found, err := eng.LookupByValue(0x12345678)
//
// # Package Structure
//
//   - Reduction: reduce.go (Reduce, ReduceBatch), reduce_kernels.go, kernel.go (Kernel, DetectKernel),
//     lanes_simd_amd64.go (AVX2 lanes), lanes_fallback.go (portable lanes)
//   - Records: record.go (Layout, RecordView), internal/encoding (field packing)
//   - Tables: table.go (NewTable, Validate), table_builder.go (Build, FromEntries)
//   - Lookup: search.go (binary search), scan.go (batch scan), hashindex.go, engine.go
//   - Configuration: options.go (Option, With* functions)
//   - File I/O lives in the tablefile package; the core never opens files.
package rainbowtab
