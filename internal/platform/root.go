package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// QueryFileNames are the file names FindQuery looks for, in order.
var QueryFileNames = []string{"gather.yaml", "gather.yml"}

// FindQuery looks upwards from startDir for a query file and returns its
// absolute path.
func FindQuery(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		for _, name := range QueryFileNames {
			if hasFile(dir, name) {
				return filepath.Join(dir, name), nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%w from %s", ErrNotFound, abs)
}

func hasFile(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && !info.IsDir()
}
