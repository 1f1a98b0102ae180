package funasr

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Service runs FunASR recognition through the managed Python runtime.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a FunASR service with the given configuration.
func NewService(cfg Config) *Service {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.VADModel == "" {
		cfg.VADModel = DefaultVADModel
	}
	if cfg.PuncModel == "" {
		cfg.PuncModel = DefaultPuncModel
	}
	if cfg.Device == "" {
		cfg.Device = CPUDevice
	}
	if cfg.BatchSizeSeconds <= 0 {
		cfg.BatchSizeSeconds = DefaultBatchSize
	}
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Model returns the configured acoustic model name for logging.
func (s *Service) Model() string {
	return s.cfg.Model
}

// Device returns the compute device the recognizer will use.
func (s *Service) Device() string {
	return s.cfg.Device
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Transcribe recognizes the audio at source and returns the parsed result.
// The source should be a mono 16kHz WAV. outputDir is where the runner
// writes its JSON result file.
func (s *Service) Transcribe(ctx context.Context, source, outputDir string) (Result, error) {
	var result Result

	if source == "" {
		return result, fmt.Errorf("transcribe: source path required")
	}
	if s.cfg.PythonBinary == "" || s.cfg.RunnerScript == "" {
		return result, fmt.Errorf("transcribe: recognition runtime not configured")
	}
	if outputDir == "" {
		outputDir = filepath.Dir(source)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return result, fmt.Errorf("transcribe: ensure output dir: %w", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	resultPath := filepath.Join(outputDir, baseName+".json")

	args := s.buildArgs(source, resultPath)
	if err := s.run(ctx, s.cfg.PythonBinary, args...); err != nil {
		return result, fmt.Errorf("funasr: %w", err)
	}

	result, err := LoadResult(resultPath)
	if err != nil {
		return result, fmt.Errorf("funasr: %w", err)
	}
	result.JSONPath = resultPath
	return result, nil
}

// buildArgs constructs the runner invocation.
func (s *Service) buildArgs(source, resultPath string) []string {
	args := []string{
		s.cfg.RunnerScript,
		"--audio", source,
		"--output", resultPath,
		"--model", s.cfg.Model,
		"--vad-model", s.cfg.VADModel,
		"--punc-model", s.cfg.PuncModel,
		"--device", s.cfg.Device,
		"--batch-size-s", strconv.Itoa(s.cfg.BatchSizeSeconds),
	}
	if s.cfg.Language != "" {
		args = append(args, "--language", s.cfg.Language)
	}
	return args
}
