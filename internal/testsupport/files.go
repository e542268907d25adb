package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteAudioTree creates a library tree: one directory per map key holding the
// listed files, each with placeholder content.
func WriteAudioTree(t testing.TB, root string, tree map[string][]string) {
	t.Helper()
	for dir, names := range tree {
		full := filepath.Join(root, dir)
		if err := os.MkdirAll(full, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", full, err)
		}
		for _, name := range names {
			if err := os.WriteFile(filepath.Join(full, name), []byte("x"), 0o644); err != nil {
				t.Fatalf("write %s: %v", name, err)
			}
		}
	}
}

// WriteBook creates one book directory with the given audio files and returns
// its path.
func WriteBook(t testing.TB, root, folder string, names ...string) string {
	t.Helper()
	WriteAudioTree(t, root, map[string][]string{folder: names})
	return filepath.Join(root, folder)
}
