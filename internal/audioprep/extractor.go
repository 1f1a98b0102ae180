package audioprep

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"soundshield/internal/config"
	"soundshield/internal/logging"
	"soundshield/internal/media"
	"soundshield/internal/queue"
	"soundshield/internal/services"
	"soundshield/internal/stage"
)

// Extractor manages audio extraction for queued sources.
type Extractor struct {
	store   *queue.Store
	cfg     *config.Config
	logger  *slog.Logger
	extract func(ctx context.Context, ffmpegBinary, source, dest string) error
	probe   func(ctx context.Context, binary, path string) (media.ProbeResult, error)
	verify  func(path string, wantSampleRate, wantChannels int) (media.WAVInfo, error)
}

// NewExtractor builds the extraction stage handler.
func NewExtractor(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Extractor {
	return &Extractor{
		store:   store,
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "audioprep"),
		extract: media.ExtractAudio,
		probe:   media.Probe,
		verify:  media.VerifyWAV,
	}
}

// WithExtractor overrides the extraction command (used for tests).
func (e *Extractor) WithExtractor(fn func(ctx context.Context, ffmpegBinary, source, dest string) error) {
	e.extract = fn
}

// WithProber overrides the duration probe (used for tests).
func (e *Extractor) WithProber(fn func(ctx context.Context, binary, path string) (media.ProbeResult, error)) {
	e.probe = fn
}

// WithVerifier overrides the WAV verification (used for tests).
func (e *Extractor) WithVerifier(fn func(path string, wantSampleRate, wantChannels int) (media.WAVInfo, error)) {
	e.verify = fn
}

func (e *Extractor) Prepare(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, e.logger)
	item.InitProgress("Extracting audio", "Preparing audio for recognition")
	logger.Debug("starting extraction preparation")
	return nil
}

func (e *Extractor) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, e.logger)

	source := strings.TrimSpace(item.SourcePath)
	if source == "" {
		return services.Wrap(services.ErrValidation, "audioprep", "validate inputs",
			"Queue item has no source path", nil)
	}
	if _, err := os.Stat(source); err != nil {
		return services.Wrap(services.ErrValidation, "audioprep", "validate inputs",
			fmt.Sprintf("Source file %s is not readable", source), err)
	}
	if !media.IsSupportedFile(source) {
		return services.Wrap(services.ErrValidation, "audioprep", "validate inputs",
			fmt.Sprintf("Unsupported file type %s", filepath.Ext(source)), nil)
	}

	stagingDir := filepath.Join(e.cfg.Paths.StagingDir, fmt.Sprintf("queue-%d", item.ID))
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "audioprep", "ensure staging dir",
			"Failed to create staging directory; set staging_dir to a writable path", err)
	}

	result, err := e.probe(ctx, e.cfg.FFprobeBinary(), source)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "audioprep", "probe source",
			"ffprobe could not inspect the source file", err)
	}
	if result.AudioStreamCount() == 0 {
		return services.Wrap(services.ErrValidation, "audioprep", "probe source",
			"Source file contains no audio stream", nil)
	}
	item.DurationSeconds = result.DurationSeconds()

	item.SetProgress("Extracting audio", "Running ffmpeg", 25)
	if err := e.store.Update(ctx, item); err != nil {
		logger.Warn("failed to persist extraction progress", logging.Error(err))
	}

	baseName := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	audioPath := filepath.Join(stagingDir, baseName+".wav")
	if err := e.extract(ctx, e.cfg.FFmpegBinary(), source, audioPath); err != nil {
		return services.Wrap(services.ErrExternalTool, "audioprep", "extract audio",
			"ffmpeg failed to extract audio; check the source file", err)
	}

	info, err := e.verify(audioPath, 16000, 1)
	if err != nil {
		return services.Wrap(services.ErrValidation, "audioprep", "verify audio",
			"Extracted audio does not match the recognizer input contract", err)
	}

	item.AudioFile = audioPath
	item.SetProgressComplete("Extracting audio", "Audio ready for recognition")
	logger.Info("audio extracted",
		logging.String("audio_file", audioPath),
		logging.String("size", media.FileSize(audioPath)),
		logging.String("duration", media.FormatDuration(item.DurationSeconds)),
		logging.Int("sample_rate", info.SampleRate),
	)
	return nil
}

func (e *Extractor) HealthCheck(ctx context.Context) stage.Health {
	const name = "audioprep"
	if e.cfg == nil {
		return stage.Unhealthy(name, "configuration unavailable")
	}
	if strings.TrimSpace(e.cfg.Paths.StagingDir) == "" {
		return stage.Unhealthy(name, "staging directory not configured")
	}
	if _, err := exec.LookPath(e.cfg.FFmpegBinary()); err != nil {
		return stage.Unhealthy(name, fmt.Sprintf("ffmpeg binary %q not found", e.cfg.FFmpegBinary()))
	}
	if _, err := exec.LookPath(e.cfg.FFprobeBinary()); err != nil {
		return stage.Unhealthy(name, fmt.Sprintf("ffprobe binary %q not found", e.cfg.FFprobeBinary()))
	}
	return stage.Healthy(name)
}
