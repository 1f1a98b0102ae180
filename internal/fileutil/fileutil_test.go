package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"soundshield/internal/fileutil"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	if err := os.WriteFile(src, []byte("transcript"), 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}
	if err := fileutil.CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile failed: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil || string(data) != "transcript" {
		t.Fatalf("unexpected dst content %q err %v", data, err)
	}
}

func TestMoveFileRemovesSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.srt")
	dst := filepath.Join(dir, "b.srt")
	if err := os.WriteFile(src, []byte("1\n"), 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}
	if err := fileutil.MoveFile(src, dst); err != nil {
		t.Fatalf("MoveFile failed: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("expected source removed, stat err: %v", err)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("expected destination present: %v", err)
	}
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meeting.txt")
	if got := fileutil.UniquePath(path); got != path {
		t.Fatalf("expected unused path returned as-is, got %q", got)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := filepath.Join(dir, "meeting (1).txt")
	if got := fileutil.UniquePath(path); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
