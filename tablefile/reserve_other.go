//go:build !linux && !darwin

package tablefile

import (
	"os"

	"github.com/tamirms/rainbowtab"
)

// reserveRecords sizes a fresh table file for n records. Blocks are not
// allocated ahead of the mapped copy on this platform.
func reserveRecords(file *os.File, n int) error {
	return file.Truncate(int64(n) * rainbowtab.RecordSize)
}
