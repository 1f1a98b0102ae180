package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"soundshield/internal/testsupport"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("Test dir", dir)
	if !result.Passed {
		t.Fatalf("expected pass for writable dir, got %#v", result)
	}

	result = CheckDirectoryAccess("Missing", filepath.Join(dir, "nope"))
	if result.Passed {
		t.Fatalf("expected failure for missing dir, got %#v", result)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	result = CheckDirectoryAccess("File", file)
	if result.Passed {
		t.Fatalf("expected failure for non-directory, got %#v", result)
	}
}

func TestCheckDiskSpace(t *testing.T) {
	dir := t.TempDir()
	result := CheckDiskSpace("Space", dir, 1)
	if !result.Passed {
		t.Fatalf("expected at least one free byte, got %#v", result)
	}

	result = CheckDiskSpace("Space", dir, ^uint64(0))
	if result.Passed {
		t.Fatalf("expected failure for impossible minimum, got %#v", result)
	}

	result = CheckDiskSpace("Space", filepath.Join(dir, "missing"), 1)
	if result.Passed {
		t.Fatalf("expected failure for missing path, got %#v", result)
	}
}

func TestCheckRuntime(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	result := CheckRuntime(cfg)
	if result.Passed {
		t.Fatalf("expected failure before bootstrap, got %#v", result)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.RuntimePython()), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(cfg.RuntimePython(), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write python stub: %v", err)
	}

	result = CheckRuntime(cfg)
	if result.Passed {
		t.Fatalf("expected failure without runner script, got %#v", result)
	}

	if err := os.WriteFile(cfg.RunnerScript(), []byte("print()\n"), 0o644); err != nil {
		t.Fatalf("write runner stub: %v", err)
	}
	result = CheckRuntime(cfg)
	if !result.Passed {
		t.Fatalf("expected pass after bootstrap, got %#v", result)
	}
}

func TestRunAllChecksConfiguredDirectories(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := RunAll(context.Background(), cfg)
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	byName := make(map[string]Result, len(results))
	for _, result := range results {
		byName[result.Name] = result
	}
	if !byName["Staging directory"].Passed {
		t.Fatalf("staging should pass: %#v", byName["Staging directory"])
	}
	if !byName["Output directory"].Passed {
		t.Fatalf("output should pass: %#v", byName["Output directory"])
	}
	if byName["ASR runtime"].Passed {
		t.Fatal("runtime should fail before setup")
	}
}
