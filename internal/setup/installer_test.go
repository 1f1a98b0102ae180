package setup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"soundshield/internal/testsupport"
)

type recordedCall struct {
	name string
	args []string
}

func recordingRunner(calls *[]recordedCall) func(ctx context.Context, name string, args ...string) error {
	return func(ctx context.Context, name string, args ...string) error {
		*calls = append(*calls, recordedCall{name: name, args: args})
		return nil
	}
}

func TestEnsureRuntimeCreatesOnce(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	installer := New(cfg, nil)

	var calls []recordedCall
	installer.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		calls = append(calls, recordedCall{name: name, args: args})
		// Simulate venv creation so the second run sees an existing environment.
		if err := os.MkdirAll(cfg.ASR.RuntimeDir, 0o755); err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(cfg.ASR.RuntimeDir, "pyvenv.cfg"), []byte("home = /usr\n"), 0o644)
	})

	created, err := installer.EnsureRuntime(context.Background())
	if err != nil {
		t.Fatalf("EnsureRuntime failed: %v", err)
	}
	if !created {
		t.Fatal("expected first run to create the runtime")
	}
	if len(calls) != 1 {
		t.Fatalf("expected 1 creation command, got %d", len(calls))
	}
	if calls[0].args[0] != "-m" || calls[0].args[1] != "venv" {
		t.Fatalf("unexpected creation args: %v", calls[0].args)
	}

	// Second run detects the existing environment and performs no command.
	created, err = installer.EnsureRuntime(context.Background())
	if err != nil {
		t.Fatalf("second EnsureRuntime failed: %v", err)
	}
	if created {
		t.Fatal("expected second run to skip creation")
	}
	if len(calls) != 1 {
		t.Fatalf("expected no additional commands, got %d total", len(calls))
	}
}

func TestDetectGPUBranches(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	t.Run("probe missing", func(t *testing.T) {
		installer := New(cfg, nil)
		installer.WithLookPath(func(name string) (string, error) {
			return "", errors.New("not found")
		})
		installer.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
			t.Fatal("probe should not run when absent from PATH")
			return nil
		})
		if installer.DetectGPU(context.Background()) {
			t.Fatal("expected cpu branch when probe missing")
		}
	})

	t.Run("probe fails", func(t *testing.T) {
		installer := New(cfg, nil)
		installer.WithLookPath(func(name string) (string, error) { return "/usr/bin/" + name, nil })
		installer.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
			return errors.New("no devices were found")
		})
		if installer.DetectGPU(context.Background()) {
			t.Fatal("expected cpu branch when probe fails")
		}
	})

	t.Run("probe succeeds", func(t *testing.T) {
		installer := New(cfg, nil)
		installer.WithLookPath(func(name string) (string, error) { return "/usr/bin/" + name, nil })
		installer.WithCommandRunner(func(ctx context.Context, name string, args ...string) error { return nil })
		if !installer.DetectGPU(context.Background()) {
			t.Fatal("expected gpu branch when probe succeeds")
		}
	})
}

func TestInstallDependenciesOrderingCPU(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	installer := New(cfg, nil)

	var calls []recordedCall
	installer.WithCommandRunner(recordingRunner(&calls))

	if err := installer.InstallDependencies(context.Background(), false); err != nil {
		t.Fatalf("InstallDependencies failed: %v", err)
	}

	if len(calls) != 1+len(recognitionPackages) {
		t.Fatalf("expected %d install commands, got %d", 1+len(recognitionPackages), len(calls))
	}
	first := strings.Join(calls[0].args, " ")
	if !strings.Contains(first, "torch") || !strings.Contains(first, CPUIndexURL) {
		t.Fatalf("expected cpu backend install first, got %q", first)
	}
	if strings.Contains(first, CUDAIndexURL) {
		t.Fatalf("gpu index must not appear on cpu branch: %q", first)
	}
	for i, pkg := range recognitionPackages {
		got := calls[i+1].args
		if got[len(got)-1] != pkg {
			t.Fatalf("package %d: expected %s, got %v", i, pkg, got)
		}
	}
}

func TestInstallDependenciesUsesCUDAIndex(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	installer := New(cfg, nil)

	var calls []recordedCall
	installer.WithCommandRunner(recordingRunner(&calls))

	if err := installer.InstallDependencies(context.Background(), true); err != nil {
		t.Fatalf("InstallDependencies failed: %v", err)
	}
	first := strings.Join(calls[0].args, " ")
	if !strings.Contains(first, CUDAIndexURL) {
		t.Fatalf("expected cuda index on gpu branch, got %q", first)
	}
}

func TestInstallDependenciesHaltsOnFirstFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	installer := New(cfg, nil)

	var calls []recordedCall
	installer.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		calls = append(calls, recordedCall{name: name, args: args})
		if len(calls) == 2 {
			return fmt.Errorf("pip exploded")
		}
		return nil
	})

	err := installer.InstallDependencies(context.Background(), false)
	if err == nil {
		t.Fatal("expected error from failing install")
	}
	if !strings.Contains(err.Error(), "pip exploded") {
		t.Fatalf("expected underlying error surfaced, got %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("expected halt after failing command, got %d calls", len(calls))
	}
}

func TestInstallRunnerWritesScript(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	installer := New(cfg, nil)

	path, err := installer.InstallRunner()
	if err != nil {
		t.Fatalf("InstallRunner failed: %v", err)
	}
	if path != cfg.RunnerScript() {
		t.Fatalf("unexpected runner path: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read runner: %v", err)
	}
	if !strings.Contains(string(data), "sentence_timestamp") {
		t.Fatal("runner script missing recognition invocation")
	}
}

func TestRunFullBootstrapCPUOnly(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	installer := New(cfg, nil)
	installer.WithLookPath(func(name string) (string, error) {
		return "", errors.New("not found")
	})

	var calls []recordedCall
	installer.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		calls = append(calls, recordedCall{name: name, args: args})
		if len(args) >= 2 && args[0] == "-m" && args[1] == "venv" {
			if err := os.MkdirAll(cfg.ASR.RuntimeDir, 0o755); err != nil {
				return err
			}
			return os.WriteFile(filepath.Join(cfg.ASR.RuntimeDir, "pyvenv.cfg"), []byte("home = /usr\n"), 0o644)
		}
		return nil
	})

	if err := installer.Run(context.Background(), false); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// venv creation, backend install, then each package in order.
	if len(calls) != 2+len(recognitionPackages) {
		t.Fatalf("unexpected call count %d", len(calls))
	}
	backend := strings.Join(calls[1].args, " ")
	if !strings.Contains(backend, CPUIndexURL) {
		t.Fatalf("expected cpu backend without gpu utility, got %q", backend)
	}
	if _, err := os.Stat(cfg.RunnerScript()); err != nil {
		t.Fatalf("runner script missing: %v", err)
	}
}
