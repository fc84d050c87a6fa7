//go:build !windows

package output

import (
	"os"

	"github.com/google/renameio/v2"
)

// writeFileAtomic writes through a temporary file renamed over the destination.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	return renameio.WriteFile(path, data, perm)
}
