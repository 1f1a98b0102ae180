package preflight

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"

	"soundshield/internal/config"
	"soundshield/internal/deps"
)

// minimumFreeBytes is the floor below which staging space is flagged.
// One hour of 16kHz mono WAV is ~110MB; a safety factor covers result files.
const minimumFreeBytes = 2 << 30

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDiskSpace verifies that the filesystem holding path has at least
// min bytes free.
func CheckDiskSpace(name, path string, min uint64) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	if free < min {
		return Result{Name: name, Detail: fmt.Sprintf("%s free, need at least %s", humanize.Bytes(free), humanize.Bytes(min))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s free", humanize.Bytes(free))}
}

// CheckRuntime verifies the managed recognition runtime is bootstrapped:
// the virtual environment exists and the runner script is installed.
func CheckRuntime(cfg *config.Config) Result {
	const name = "ASR runtime"

	if cfg == nil || cfg.ASR.RuntimeDir == "" {
		return Result{Name: name, Detail: "runtime directory not configured"}
	}
	if _, err := os.Stat(cfg.RuntimePython()); err != nil {
		return Result{Name: name, Detail: "runtime not bootstrapped (run 'soundshield setup')"}
	}
	if _, err := os.Stat(cfg.RunnerScript()); err != nil {
		return Result{Name: name, Detail: "runner script missing (run 'soundshield setup')"}
	}
	return Result{Name: name, Passed: true, Detail: cfg.ASR.RuntimeDir}
}

// CheckSystemDeps evaluates all system-level dependencies for the given
// config. Both the daemon and the CLI status command use this to avoid
// duplicating the requirements list.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []deps.Status {
	return deps.CheckBinaries(deps.Requirements(cfg))
}
