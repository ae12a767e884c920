//go:build unix

package hostproc

import "golang.org/x/sys/unix"

func fdOpen(fd int) bool {
	var st unix.Stat_t
	return unix.Fstat(fd, &st) == nil
}
