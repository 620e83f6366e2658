//go:build linux

package tablefile

import "golang.org/x/sys/unix"

// madvPopulateWrite is MADV_POPULATE_WRITE (Linux 5.14+). Older kernels
// return EINVAL, which is ignored.
const madvPopulateWrite = 23

// adviseAccess passes an access pattern hint for mapped table data to the
// kernel. Best-effort: errors are ignored.
func adviseAccess(data []byte, p AccessPattern) {
	if len(data) == 0 {
		return
	}
	var advice int
	switch p {
	case AccessRandom:
		advice = unix.MADV_RANDOM
	case AccessSequential:
		advice = unix.MADV_SEQUENTIAL
	case AccessWillNeed:
		advice = unix.MADV_WILLNEED
	default:
		advice = unix.MADV_NORMAL
	}
	_ = unix.Madvise(data, advice)
}

// populateForWrite prefaults a freshly mapped write region.
func populateForWrite(data []byte) {
	if len(data) == 0 {
		return
	}
	_ = unix.Madvise(data, madvPopulateWrite)
}
