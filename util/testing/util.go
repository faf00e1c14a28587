package testing_util

import (
	"os"
	"path/filepath"
	"testing"
)

// TempPath returns a path inside a fresh temporary directory. The path itself does
// not exist yet; the directory is removed when the test finishes.
func TempPath(t *testing.T, prefix, name string) string {
	dir, err := os.MkdirTemp(os.TempDir(), prefix)
	if err != nil {
		t.Fatalf("failed to create temporary directory: %v", err)
	}

	t.Cleanup(func() {
		os.RemoveAll(dir)
	})

	return filepath.Join(dir, name)
}
