package setup

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"soundshield/internal/config"
	"soundshield/internal/logging"
	"soundshield/internal/services"
)

//go:embed runner.py
var runnerScript string

// Wheel indexes for the numerical backend. The CUDA build comes from the
// cu128 index; the CPU build from the cpu index.
const (
	CUDAIndexURL = "https://download.pytorch.org/whl/cu128"
	CPUIndexURL  = "https://download.pytorch.org/whl/cpu"
)

// recognitionPackages is the fixed install list applied after the
// numerical backend, in this order regardless of the GPU branch.
var recognitionPackages = []string{
	"funasr",
	"modelscope",
	"soundfile",
	"librosa",
	"numpy",
}

// Installer prepares the recognition runtime.
type Installer struct {
	cfg           *config.Config
	logger        *slog.Logger
	commandRunner func(ctx context.Context, name string, args ...string) error
	lookPath      func(name string) (string, error)
}

// New creates an installer for the configured runtime directory.
func New(cfg *config.Config, logger *slog.Logger) *Installer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Installer{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "setup"),
		lookPath: exec.LookPath,
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (i *Installer) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	i.commandRunner = runner
}

// WithLookPath sets a custom PATH resolver (for testing).
func (i *Installer) WithLookPath(lookup func(name string) (string, error)) {
	i.lookPath = lookup
}

func (i *Installer) run(ctx context.Context, name string, args ...string) error {
	if i.commandRunner != nil {
		return i.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// EnsureRuntime creates the virtual environment when it does not exist.
// It reports whether a new environment was created; an existing one is
// left untouched.
func (i *Installer) EnsureRuntime(ctx context.Context) (bool, error) {
	runtimeDir := i.cfg.ASR.RuntimeDir
	if runtimeDir == "" {
		return false, services.Wrap(services.ErrConfiguration, "setup", "ensure runtime",
			"Runtime directory is not configured", nil)
	}

	if _, err := os.Stat(filepath.Join(runtimeDir, "pyvenv.cfg")); err == nil {
		i.logger.Info("runtime already present", logging.String("path", runtimeDir))
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(runtimeDir), 0o755); err != nil {
		return false, services.Wrap(services.ErrConfiguration, "setup", "ensure runtime",
			"Could not create runtime parent directory", err)
	}

	i.logger.Info("creating runtime", logging.String("path", runtimeDir))
	if err := i.run(ctx, i.cfg.PythonBinary(), "-m", "venv", runtimeDir); err != nil {
		return false, services.Wrap(services.ErrExternalTool, "setup", "create venv",
			"Virtual environment creation failed", err)
	}
	return true, nil
}

// DetectGPU reports whether a usable GPU management utility is present:
// it must resolve on PATH and exit zero when invoked.
func (i *Installer) DetectGPU(ctx context.Context) bool {
	probe := i.cfg.GPUProbeBinary()
	if _, err := i.lookPath(probe); err != nil {
		i.logger.Info("gpu probe not found, using cpu backend", logging.String("binary", probe))
		return false
	}
	if err := i.run(ctx, probe); err != nil {
		i.logger.Info("gpu probe failed, using cpu backend", logging.Error(err))
		return false
	}
	i.logger.Info("gpu detected, using cuda backend")
	return true
}

// InstallDependencies installs the numerical backend for the selected
// branch and then the recognition packages in their fixed order. The
// first failing install aborts with the underlying error surfaced.
func (i *Installer) InstallDependencies(ctx context.Context, useGPU bool) error {
	pip := i.cfg.RuntimePip()

	indexURL := CPUIndexURL
	backend := "cpu"
	if useGPU {
		indexURL = CUDAIndexURL
		backend = "cuda"
	}
	i.logger.Info("installing numerical backend", logging.String("backend", backend))
	if err := i.run(ctx, pip, "install", "torch", "--index-url", indexURL); err != nil {
		return services.Wrap(services.ErrExternalTool, "setup", "install backend",
			fmt.Sprintf("Installing the %s numerical backend failed", backend), err)
	}

	for _, pkg := range recognitionPackages {
		i.logger.Info("installing package", logging.String("package", pkg))
		if err := i.run(ctx, pip, "install", pkg); err != nil {
			return services.Wrap(services.ErrExternalTool, "setup", "install package",
				fmt.Sprintf("Installing %s failed", pkg), err)
		}
	}
	return nil
}

// InstallRunner writes the embedded recognition runner into the runtime.
// The script is rewritten on every run so upgrades take effect.
func (i *Installer) InstallRunner() (string, error) {
	target := i.cfg.RunnerScript()
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "setup", "install runner",
			"Could not create runner directory", err)
	}
	if err := os.WriteFile(target, []byte(runnerScript), 0o644); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "setup", "install runner",
			"Could not write runner script", err)
	}
	return target, nil
}

// Run performs the full bootstrap: ensure the environment, pick the
// backend branch, install dependencies, and install the runner. With
// forceCPU set the GPU probe is skipped entirely.
func (i *Installer) Run(ctx context.Context, forceCPU bool) error {
	if _, err := i.EnsureRuntime(ctx); err != nil {
		return err
	}

	useGPU := false
	if !forceCPU {
		useGPU = i.DetectGPU(ctx)
	}

	if err := i.InstallDependencies(ctx, useGPU); err != nil {
		return err
	}

	runner, err := i.InstallRunner()
	if err != nil {
		return err
	}
	i.logger.Info("runtime ready",
		logging.String("runtime", i.cfg.ASR.RuntimeDir),
		logging.String("runner", runner),
	)
	return nil
}
