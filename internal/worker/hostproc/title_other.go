//go:build !linux

package hostproc

func setTitle(string) error {
	return nil
}
