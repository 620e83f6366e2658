//go:build linux

package tablefile

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"

	"github.com/tamirms/rainbowtab"
)

// reserveRecords grows a fresh table file to hold n records and allocates
// their blocks. Persist copies records through a writable mapping, so a
// volume too small for the table must be reported here: once the copy has
// started, running out of blocks faults the process.
func reserveRecords(file *os.File, n int) error {
	size := int64(n) * rainbowtab.RecordSize
	fd := int(file.Fd())
	err := unix.Fallocate(fd, 0, 0, size)
	switch {
	case err == nil:
	case errors.Is(err, unix.EOPNOTSUPP), errors.Is(err, unix.ENOSYS):
		// The filesystem cannot preallocate; the table file is left sparse.
	default:
		return err
	}
	return unix.Ftruncate(fd, size)
}
