//go:build darwin

package tablefile

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/tamirms/rainbowtab"
)

// reserveRecords grows a fresh table file to hold n records. A contiguous
// extent is tried first so sequential scans of the mapped table read
// linearly; a fragmented reservation is the fallback. A failed reservation
// still sizes the file, leaving the records sparse.
func reserveRecords(file *os.File, n int) error {
	size := int64(n) * rainbowtab.RecordSize
	for _, flags := range []uint32{unix.F_ALLOCATECONTIG | unix.F_ALLOCATEALL, unix.F_ALLOCATEALL} {
		fst := unix.Fstore_t{Flags: flags, Posmode: unix.F_PEOFPOSMODE, Length: size}
		if unix.FcntlFstore(file.Fd(), unix.F_PREALLOCATE, &fst) == nil {
			break
		}
	}
	return unix.Ftruncate(int(file.Fd()), size)
}
