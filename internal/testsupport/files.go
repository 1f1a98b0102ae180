package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates path (and any missing parent directories) with size bytes
// of filler content. A size <= 0 still produces a non-empty file so
// zero-length checks in the pipeline are not tripped by fixtures.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}

	data := bytes.Repeat([]byte{0x42}, int(min64(size, 32*1024)))
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	for written := int64(0); written < size; {
		chunk := data
		if size-written < int64(len(chunk)) {
			chunk = chunk[:size-written]
		}
		n, err := f.Write(chunk)
		if err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		written += int64(n)
	}
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
