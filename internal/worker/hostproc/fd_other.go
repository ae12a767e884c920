//go:build !unix

package hostproc

func fdOpen(int) bool {
	return false
}
