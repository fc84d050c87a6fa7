//go:build windows

package output

import "os"

// writeFileAtomic falls back to a plain overwrite; rename over an open file is not portable on windows.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}
