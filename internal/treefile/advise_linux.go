//go:build linux

package treefile

import (
	"os"

	"golang.org/x/sys/unix"
)

// adviseSequential asks the kernel for aggressive readahead. Failure only
// costs throughput, so it is ignored.
func adviseSequential(f *os.File) {
	_ = unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_SEQUENTIAL)
}
