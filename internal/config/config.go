package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StagingDir string `toml:"staging_dir"`
	OutputDir  string `toml:"output_dir"`
	LogDir     string `toml:"log_dir"`
}

// ASR contains configuration for the speech recognition runtime.
type ASR struct {
	// RuntimeDir is the managed Python environment holding the model runtime.
	RuntimeDir string `toml:"runtime_dir"`
	// Model is the recognition model identifier.
	Model string `toml:"model"`
	// VADModel is the voice activity detection model identifier.
	VADModel string `toml:"vad_model"`
	// PuncModel is the punctuation restoration model identifier.
	PuncModel string `toml:"punc_model"`
	// Device selects inference hardware: "auto", "cuda", or "cpu".
	Device string `toml:"device"`
	// Language hints the recognizer when the source language is known.
	Language string `toml:"language"`
	// BatchSizeSeconds is the audio batch length handed to the model.
	BatchSizeSeconds int `toml:"batch_size_seconds"`
}

// Subtitles contains configuration for subtitle cue shaping.
type Subtitles struct {
	Enabled        bool    `toml:"enabled"`
	MaxCharsPerCue int     `toml:"max_chars_per_cue"`
	MinCueSeconds  float64 `toml:"min_cue_seconds"`
	MaxCueSeconds  float64 `toml:"max_cue_seconds"`
}

// Export contains configuration for artifact placement.
type Export struct {
	Transcript        bool `toml:"transcript"`
	Subtitle          bool `toml:"subtitle"`
	OverwriteExisting bool `toml:"overwrite_existing"`
}

// Watch contains configuration for removable-media auto ingest.
type Watch struct {
	Enabled bool `toml:"enabled"`
	// MountRoot is the directory under which removable media appears.
	MountRoot string `toml:"mount_root"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Transcript     bool   `toml:"transcript"`
	Queue          bool   `toml:"queue"`
	Errors         bool   `toml:"errors"`
}

// Workflow contains configuration for daemon timing and intervals.
type Workflow struct {
	QueuePollInterval  int `toml:"queue_poll_interval"`
	ErrorRetryInterval int `toml:"error_retry_interval"`
	HeartbeatInterval  int `toml:"heartbeat_interval"`
	HeartbeatTimeout   int `toml:"heartbeat_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for SoundShield.
//
// Configuration sections by subsystem:
//   - Paths: staging, output, and log directories
//   - ASR: recognition runtime environment and model selection
//   - Subtitles: cue shaping bounds for generated SRT files
//   - Export: which artifacts land in the output directory
//   - Watch: removable-media auto ingest
//   - Notifications: ntfy push notification settings
//   - Workflow: daemon polling intervals and timeouts
//   - Logging: log format, level, and retention
type Config struct {
	Paths         Paths         `toml:"paths"`
	ASR           ASR           `toml:"asr"`
	Subtitles     Subtitles     `toml:"subtitles"`
	Export        Export        `toml:"export"`
	Watch         Watch         `toml:"watch"`
	Notifications Notifications `toml:"notifications"`
	Workflow      Workflow      `toml:"workflow"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/soundshield/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("soundshield.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
// OutputDir is created on a best-effort basis so the daemon can run when
// external storage is temporarily unavailable.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StagingDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.OutputDir) != "" {
		_ = os.MkdirAll(c.Paths.OutputDir, 0o755)
	}
	return nil
}

// PythonBinary returns the system Python executable used to create the runtime environment.
func (c *Config) PythonBinary() string {
	return "python3"
}

// FFmpegBinary returns the ffmpeg executable name used for audio extraction.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable name used for media inspection.
func (c *Config) FFprobeBinary() string {
	return "ffprobe"
}

// GPUProbeBinary returns the executable probed to detect a usable NVIDIA GPU.
func (c *Config) GPUProbeBinary() string {
	return "nvidia-smi"
}

// RuntimePython returns the Python executable inside the managed environment.
func (c *Config) RuntimePython() string {
	return filepath.Join(c.ASR.RuntimeDir, "bin", "python")
}

// RuntimePip returns the pip executable inside the managed environment.
func (c *Config) RuntimePip() string {
	return filepath.Join(c.ASR.RuntimeDir, "bin", "pip")
}

// RunnerScript returns the path of the installed transcription runner script.
func (c *Config) RunnerScript() string {
	return filepath.Join(c.ASR.RuntimeDir, "soundshield_runner.py")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
