// Package tablefile loads and persists rainbowtab tables.
//
// The file format is the raw record buffer: entryCount*16 bytes, record i at
// [i*16, i*16+16), records in non-decreasing value order. There is no header
// or footer; integrity is checked against an xxHash64 checksum the caller
// keeps from Persist and passes back with WithChecksum.
package tablefile

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"
	"github.com/tamirms/rainbowtab"
	taberrors "github.com/tamirms/rainbowtab/errors"
)

// AccessPattern is a paging hint for a mapped table.
type AccessPattern uint8

const (
	AccessNormal AccessPattern = iota
	// AccessRandom suits binary search and hash index lookups.
	AccessRandom
	// AccessSequential suits full batch scans and hash index builds.
	AccessSequential
	// AccessWillNeed asks the kernel to start reading the whole table.
	AccessWillNeed
)

// LoadOption configures Load, LoadFile and LoadBytes.
type LoadOption func(*loadConfig)

type loadConfig struct {
	layout       rainbowtab.Layout
	checksum     uint64
	haveChecksum bool
	verifySorted bool
	pattern      AccessPattern
}

func defaultLoadConfig() *loadConfig {
	return &loadConfig{layout: rainbowtab.DefaultLayout}
}

// WithLayout sets the record layout. Default is rainbowtab.DefaultLayout.
func WithLayout(l rainbowtab.Layout) LoadOption {
	return func(c *loadConfig) {
		c.layout = l
	}
}

// WithChecksum verifies the table bytes against an xxHash64 checksum
// returned by Persist. Verification reads the whole file.
func WithChecksum(sum uint64) LoadOption {
	return func(c *loadConfig) {
		c.checksum = sum
		c.haveChecksum = true
	}
}

// WithVerifySorted checks the value ordering after loading.
func WithVerifySorted() LoadOption {
	return func(c *loadConfig) {
		c.verifySorted = true
	}
}

// WithAccessPattern applies a paging hint to the mapping after it is verified.
func WithAccessPattern(p AccessPattern) LoadOption {
	return func(c *loadConfig) {
		c.pattern = p
	}
}

// Mapped is a table backed by a read-only memory mapping.
//
// Thread Safety:
// - Table and Advise are safe for concurrent use
// - Close must only be called after all queries have completed
type Mapped struct {
	mmap   mmap.MMap
	table  *rainbowtab.Table
	closed atomic.Bool
}

// Load memory-maps the table file at path.
func Load(path string, opts ...LoadOption) (*Mapped, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table file: %w", err)
	}
	defer file.Close()
	return LoadFile(file, opts...)
}

// LoadFile memory-maps f. The caller is responsible for closing f, which may
// be closed as soon as LoadFile returns.
func LoadFile(f *os.File, opts ...LoadOption) (*Mapped, error) {
	cfg := defaultLoadConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat table file: %w", err)
	}
	size := stat.Size()
	if size%rainbowtab.RecordSize != 0 {
		return nil, fmt.Errorf("%w: size %d is not a multiple of %d",
			taberrors.ErrTruncatedFile, size, rainbowtab.RecordSize)
	}

	// mmap rejects zero-length mappings.
	if size == 0 {
		t, err := open(nil, cfg)
		if err != nil {
			return nil, err
		}
		return &Mapped{table: t}, nil
	}

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap table file: %w", err)
	}
	m := &Mapped{mmap: mm}
	m.table, err = open([]byte(mm), cfg)
	if err != nil {
		return nil, errors.Join(err, m.Close())
	}
	adviseAccess(mm, cfg.pattern)
	return m, nil
}

// LoadBytes wraps an in-memory table buffer, applying the same checks as
// Load. The caller must not modify data while the table is in use.
func LoadBytes(data []byte, opts ...LoadOption) (*rainbowtab.Table, error) {
	cfg := defaultLoadConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return open(data, cfg)
}

func open(data []byte, cfg *loadConfig) (*rainbowtab.Table, error) {
	t, err := rainbowtab.NewTable(data, cfg.layout)
	if err != nil {
		return nil, err
	}
	if cfg.haveChecksum && t.Checksum() != cfg.checksum {
		return nil, taberrors.ErrChecksumFailed
	}
	if cfg.verifySorted {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Table returns the mapped table.
// Returns ErrTableClosed after Close.
func (m *Mapped) Table() (*rainbowtab.Table, error) {
	if m.closed.Load() {
		return nil, taberrors.ErrTableClosed
	}
	return m.table, nil
}

// Advise applies a paging hint to the mapping. It is a no-op after Close
// and on platforms without madvise.
func (m *Mapped) Advise(p AccessPattern) {
	if m.closed.Load() {
		return
	}
	adviseAccess(m.mmap, p)
}

// Close unmaps the table.
func (m *Mapped) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	if m.mmap != nil {
		return m.mmap.Unmap()
	}
	return nil
}

// Persist writes the table buffer to path, replacing any existing file, and
// returns the xxHash64 checksum to hand back to Load via WithChecksum.
func Persist(path string, t *rainbowtab.Table) (uint64, error) {
	data := t.Bytes()

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create table file: %w", err)
	}
	if len(data) == 0 {
		return xxhash.Sum64(nil), file.Close()
	}

	if err := reserveRecords(file, t.Len()); err != nil {
		primaryErr := fmt.Errorf("reserve %d records: %w", t.Len(), err)
		return 0, errors.Join(primaryErr, file.Close())
	}

	mm, err := mmap.MapRegion(file, len(data), mmap.RDWR, 0, 0)
	if err != nil {
		primaryErr := fmt.Errorf("mmap table file: %w", err)
		return 0, errors.Join(primaryErr, file.Close())
	}
	populateForWrite(mm)

	copy(mm, data)
	sum := xxhash.Sum64(mm)

	if err := mm.Flush(); err != nil {
		primaryErr := fmt.Errorf("flush table file: %w", err)
		return 0, errors.Join(primaryErr, mm.Unmap(), file.Close())
	}
	if err := mm.Unmap(); err != nil {
		primaryErr := fmt.Errorf("unmap table file: %w", err)
		return 0, errors.Join(primaryErr, file.Close())
	}
	if err := file.Close(); err != nil {
		return 0, fmt.Errorf("close table file: %w", err)
	}
	return sum, nil
}
