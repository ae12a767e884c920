//go:build linux

package hostproc

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// setTitle writes the thread group leader's comm, which is what process
// listings show. PR_SET_NAME only renames the calling OS thread, so it is the
// fallback when /proc is unavailable.
func setTitle(full string) error {
	full = truncateComm(full)
	if err := os.WriteFile("/proc/self/comm", []byte(full), 0); err == nil {
		return nil
	}
	p, err := unix.BytePtrFromString(full)
	if err != nil {
		return err
	}
	return unix.Prctl(unix.PR_SET_NAME, uintptr(unsafe.Pointer(p)), 0, 0, 0)
}
