//go:build windows

package desktop

import "os"

// lockFile is a no-op on Windows.
func lockFile(*os.File) (func(), error) {
	return func() {}, nil
}
