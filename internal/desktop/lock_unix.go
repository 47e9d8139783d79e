//go:build !windows

package desktop

import (
	"os"
	"syscall"
)

// lockFile takes an exclusive flock on f, blocking until available.
func lockFile(f *os.File) (func(), error) {
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		return nil, err
	}
	return func() { _ = syscall.Flock(int(f.Fd()), syscall.LOCK_UN) }, nil
}
