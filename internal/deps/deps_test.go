package deps

import (
	"os"
	"path/filepath"
	"testing"

	"soundshield/internal/testsupport"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unset", Command: "   "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatal("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatal("expected detail message for missing binary")
	}

	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected status for unset command: %#v", results[2])
	}
}

func TestRequirementsCoverPipelineTools(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	reqs := Requirements(cfg)

	names := make(map[string]Requirement, len(reqs))
	for _, req := range reqs {
		names[req.Name] = req
	}
	for _, want := range []string{"FFmpeg", "FFprobe", "Python"} {
		req, ok := names[want]
		if !ok {
			t.Fatalf("missing requirement %s", want)
		}
		if req.Optional {
			t.Fatalf("%s must be required", want)
		}
	}
	if probe, ok := names["GPU probe"]; !ok || !probe.Optional {
		t.Fatalf("gpu probe should be optional, got %#v", probe)
	}
}
