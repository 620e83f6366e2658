// Bench is a benchmarking tool for rainbowtab: reduction throughput and the
// three table lookup strategies.
//
// Usage:
//
//	go run ./cmd/bench -entries 16777216 -lookups 10000 -hash xxh3
//
// Flags:
//
//	-entries   Number of table records (default: 16,777,216 = 256 MB)
//	-table     Table file; generated and persisted if missing (default: temp file)
//	-lookups   Number of random lookups per strategy (default: 10,000)
//	-reduce    Number of hashes to reduce (default: 1,000,000)
//	-hash      Plaintext hash for reduction inputs: xxh3, murmur3 or blake2b (default: xxh3)
//	-workers   Number of parallel workers (default: GOMAXPROCS)
//	-tableid   Table identifier passed to the reduction (default: 7)
//	-seed      Table generation seed (default: 1234)
package main

import (
	"context"
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	mrand "math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"

	"github.com/tamirms/rainbowtab"
	"github.com/tamirms/rainbowtab/internal/isa"
	"github.com/tamirms/rainbowtab/tablefile"
)

// getMaxRSS returns the maximum resident set size in bytes.
// Uses getrusage(RUSAGE_SELF) which tracks peak RSS since process start.
func getMaxRSS() uint64 {
	var rusage syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &rusage); err != nil {
		return 0
	}
	// On macOS, MaxRss is in bytes. On Linux, it's in kilobytes.
	maxRSS := uint64(rusage.Maxrss)
	if runtime.GOOS == "linux" {
		maxRSS *= 1024
	}
	return maxRSS
}

// hashFunc maps an 8-byte plaintext to a 64-bit digest.
type hashFunc func(plaintext []byte) uint64

func selectHash(name string) (hashFunc, error) {
	switch name {
	case "xxh3":
		return xxh3.Hash, nil
	case "murmur3":
		return murmur3.Sum64, nil
	case "blake2b":
		return func(p []byte) uint64 {
			sum := blake2b.Sum256(p)
			return binary.LittleEndian.Uint64(sum[:8])
		}, nil
	default:
		return nil, fmt.Errorf("unknown hash %q (use xxh3, murmur3 or blake2b)", name)
	}
}

type result struct {
	name     string
	duration time.Duration
	found    int
}

func main() {
	entriesFlag := flag.Int("entries", 1<<24, "number of table records")
	tableFlag := flag.String("table", "", "table file (generated if missing)")
	lookupsFlag := flag.Int("lookups", 10_000, "random lookups per strategy")
	reduceFlag := flag.Int("reduce", 1_000_000, "number of hashes to reduce")
	hashFlag := flag.String("hash", "xxh3", "plaintext hash: xxh3, murmur3 or blake2b")
	workersFlag := flag.Int("workers", runtime.GOMAXPROCS(0), "number of parallel workers")
	tableIDFlag := flag.Int("tableid", 7, "table identifier for reduction")
	seedFlag := flag.Uint64("seed", 1234, "table generation seed")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to file (lookup phase only)")
	flag.Parse()

	if err := run(*entriesFlag, *tableFlag, *lookupsFlag, *reduceFlag, *hashFlag,
		*workersFlag, int32(*tableIDFlag), *seedFlag, *cpuprofile); err != nil {
		fmt.Fprintf(os.Stderr, "bench: %v\n", err)
		os.Exit(1)
	}
}

func run(entries int, tablePath string, lookups, reduceN int, hashName string,
	workers int, tableID int32, seed uint64, cpuprofile string) error {
	hash, err := selectHash(hashName)
	if err != nil {
		return err
	}

	kernel := rainbowtab.DetectKernel()
	fmt.Printf("CPU: %s, kernel: %s\n", isa.Describe(), kernel)

	if tablePath == "" {
		tmpDir, err := os.MkdirTemp("", "rainbowtab-bench-")
		if err != nil {
			return fmt.Errorf("create temp dir: %w", err)
		}
		defer func() { _ = os.RemoveAll(tmpDir) }()
		tablePath = filepath.Join(tmpDir, "table.bin")
	}

	var genDuration time.Duration
	if _, err := os.Stat(tablePath); errors.Is(err, os.ErrNotExist) {
		fmt.Println("Generating table...")
		genStart := time.Now()
		t, err := rainbowtab.Build(context.Background(), entries,
			rainbowtab.WithSeed(seed), rainbowtab.WithWorkers(workers))
		if err != nil {
			return fmt.Errorf("build table: %w", err)
		}
		genDuration = time.Since(genStart)
		if _, err := tablefile.Persist(tablePath, t); err != nil {
			return fmt.Errorf("persist table: %w", err)
		}
	}

	fmt.Println("Loading table into memory...")
	mapped, err := tablefile.Load(tablePath, tablefile.WithAccessPattern(tablefile.AccessWillNeed))
	if err != nil {
		return fmt.Errorf("load table: %w", err)
	}
	defer func() { _ = mapped.Close() }()
	table, err := mapped.Table()
	if err != nil {
		return err
	}

	if cpuprofile != "" {
		f, err := os.Create(cpuprofile)
		if err != nil {
			return fmt.Errorf("create CPU profile: %w", err)
		}
		defer func() { _ = f.Close() }()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	var results []result

	fmt.Println("Benchmarking batch scan...")
	scanStrategy := rainbowtab.StrategyScalarScan
	if kernel == rainbowtab.KernelVector {
		scanStrategy = rainbowtab.StrategyVectorScan
	}
	r, err := benchScan(table, scanStrategy, lookups, workers)
	if err != nil {
		return err
	}
	results = append(results, r)

	fmt.Println("Benchmarking binary search...")
	mapped.Advise(tablefile.AccessRandom)
	r, err = benchSearch(table, lookups)
	if err != nil {
		return err
	}
	results = append(results, r)

	fmt.Println("Benchmarking hash index...")
	mapped.Advise(tablefile.AccessSequential)
	results = append(results, benchHashIndex(table, lookups))

	fmt.Println("Benchmarking reduction...")
	hashes := make([]uint64, reduceN)
	steps := make([]int32, reduceN)
	var plaintext [8]byte
	rng := mrand.New(mrand.NewPCG(seed, 0))
	for i := range hashes {
		binary.LittleEndian.PutUint64(plaintext[:], rng.Uint64()&rainbowtab.Mask40)
		hashes[i] = hash(plaintext[:])
		steps[i] = rng.Int32N(1000)
	}
	kernels := []rainbowtab.Kernel{rainbowtab.KernelScalar}
	if kernel == rainbowtab.KernelVector {
		kernels = append(kernels, kernel)
	}
	for _, k := range kernels {
		r, err := benchReduce(hashes, steps, tableID, k, workers)
		if err != nil {
			return err
		}
		results = append(results, r)
	}

	fmt.Printf("\n")
	fmt.Printf("╔══════════════════════════╦════════════════╦══════════════╗\n")
	fmt.Printf("║ Records: %-16d║ Hash: %-8s ║ Workers: %-4d║\n", table.Len(), hashName, workers)
	fmt.Printf("╠══════════════════════════╬════════════════╬══════════════╣\n")
	fmt.Printf("║ Operation                ║ Time           ║ Found        ║\n")
	fmt.Printf("╠══════════════════════════╬════════════════╬══════════════╣\n")
	if genDuration > 0 {
		fmt.Printf("║ %-24s ║ %10.2f ms  ║ -            ║\n", "generate", float64(genDuration.Microseconds())/1000)
	}
	for _, r := range results {
		fmt.Printf("║ %-24s ║ %10.2f ms  ║ %-12d ║\n", r.name, float64(r.duration.Microseconds())/1000, r.found)
	}
	fmt.Printf("║ %-24s ║ %10.1f MB  ║ -            ║\n", "peak RSS", float64(getMaxRSS())/1_000_000)
	fmt.Printf("╚══════════════════════════╩════════════════╩══════════════╝\n")
	return nil
}

func randomTargets(seed uint64, n int) []uint64 {
	rng := mrand.New(mrand.NewPCG(seed, 1))
	targets := make([]uint64, n)
	for i := range targets {
		targets[i] = rng.Uint64() & rainbowtab.Mask40
	}
	return targets
}

func benchScan(t *rainbowtab.Table, s rainbowtab.Strategy, lookups, workers int) (result, error) {
	eng, err := rainbowtab.NewEngine(t, rainbowtab.WithStrategy(s), rainbowtab.WithWorkers(workers))
	if err != nil {
		return result{}, err
	}
	targets := randomTargets(12345, lookups)
	start := time.Now()
	found, err := eng.CountValues(targets)
	if err != nil {
		return result{}, err
	}
	return result{name: s.String(), duration: time.Since(start), found: found}, nil
}

func benchSearch(t *rainbowtab.Table, lookups int) (result, error) {
	eng, err := rainbowtab.NewEngine(t, rainbowtab.WithStrategy(rainbowtab.StrategyBinarySearch))
	if err != nil {
		return result{}, err
	}
	targets := randomTargets(42, lookups)
	start := time.Now()
	found := 0
	for _, v := range targets {
		ok, err := eng.LookupByValue(v)
		if err != nil {
			return result{}, err
		}
		if ok {
			found++
		}
	}
	return result{name: "binary-search", duration: time.Since(start), found: found}, nil
}

// benchHashIndex times the index build together with the queries.
func benchHashIndex(t *rainbowtab.Table, lookups int) result {
	keys := randomTargets(999, lookups)
	start := time.Now()
	idx := rainbowtab.BuildHashIndex(t)
	found := 0
	for _, k := range keys {
		if idx.Contains(k) {
			found++
		}
	}
	return result{name: "hash-index (build+query)", duration: time.Since(start), found: found}
}

func benchReduce(hashes []uint64, steps []int32, tableID int32, k rainbowtab.Kernel, workers int) (result, error) {
	start := time.Now()
	out, err := rainbowtab.ReduceBatch(hashes, steps, tableID,
		rainbowtab.WithKernel(k), rainbowtab.WithWorkers(workers))
	if err != nil {
		return result{}, err
	}
	return result{name: "reduce/" + k.String(), duration: time.Since(start), found: len(out)}, nil
}
