package transcription

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
	"soundshield/internal/notifications"
	"soundshield/internal/queue"
	"soundshield/internal/services"
	"soundshield/internal/services/funasr"
	"soundshield/internal/stage"
)

// Recognizer is the slice of the FunASR service this stage needs.
type Recognizer interface {
	Transcribe(ctx context.Context, source, outputDir string) (funasr.Result, error)
	Model() string
	Device() string
}

// Transcriber manages speech recognition for extracted audio.
type Transcriber struct {
	store      *queue.Store
	cfg        *config.Config
	logger     *slog.Logger
	recognizer Recognizer
	notifier   notifications.Service
}

// NewTranscriber builds the recognition stage handler.
func NewTranscriber(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Transcriber {
	recognizer := funasr.NewService(funasr.Config{
		PythonBinary:     cfg.RuntimePython(),
		RunnerScript:     cfg.RunnerScript(),
		Model:            cfg.ASR.Model,
		VADModel:         cfg.ASR.VADModel,
		PuncModel:        cfg.ASR.PuncModel,
		Device:           ResolveDevice(cfg.ASR.Device, exec.LookPath),
		Language:         cfg.ASR.Language,
		BatchSizeSeconds: cfg.ASR.BatchSizeSeconds,
	})
	return NewTranscriberWithDependencies(cfg, store, logger, recognizer, notifications.NewService(cfg))
}

// NewTranscriberWithDependencies allows injecting custom dependencies (used for tests).
func NewTranscriberWithDependencies(cfg *config.Config, store *queue.Store, logger *slog.Logger, recognizer Recognizer, notifier notifications.Service) *Transcriber {
	return &Transcriber{
		store:      store,
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "transcription"),
		recognizer: recognizer,
		notifier:   notifier,
	}
}

// ResolveDevice maps the configured device to a concrete one. "auto"
// picks cuda when the GPU utility resolves on PATH, cpu otherwise.
func ResolveDevice(configured string, lookPath func(string) (string, error)) string {
	switch strings.ToLower(strings.TrimSpace(configured)) {
	case funasr.CUDADevice:
		return funasr.CUDADevice
	case funasr.CPUDevice:
		return funasr.CPUDevice
	default:
		if _, err := lookPath("nvidia-smi"); err == nil {
			return funasr.CUDADevice
		}
		return funasr.CPUDevice
	}
}

func (t *Transcriber) Prepare(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, t.logger)
	item.InitProgress("Transcribing", "Running speech recognition")
	logger.Debug("starting transcription preparation")
	return nil
}

func (t *Transcriber) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, t.logger)

	audio := strings.TrimSpace(item.AudioFile)
	if audio == "" {
		return services.Wrap(services.ErrValidation, "transcription", "validate inputs",
			"No extracted audio available; ensure the extraction stage completed", nil)
	}
	if _, err := os.Stat(audio); err != nil {
		return services.Wrap(services.ErrValidation, "transcription", "validate inputs",
			fmt.Sprintf("Extracted audio %s is not readable", audio), err)
	}

	logger.Info("starting recognition",
		logging.String("model", t.recognizer.Model()),
		logging.String("device", t.recognizer.Device()),
		logging.String("duration", media.FormatDuration(item.DurationSeconds)),
	)

	result, err := t.recognizer.Transcribe(ctx, audio, filepath.Dir(audio))
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "transcription", "run recognizer",
			"Speech recognition failed; check the runtime with 'soundshield setup'", err)
	}
	if strings.TrimSpace(result.Text) == "" {
		return services.Wrap(services.ErrValidation, "transcription", "validate result",
			"Recognition produced no text; the audio may be silent", nil)
	}

	item.TranscriptFile = result.JSONPath
	if item.Language == "" {
		item.Language = t.cfg.ASR.Language
	}
	item.SetProgressComplete("Transcribing", fmt.Sprintf("Recognized %d sentences", len(result.Sentences)))
	logger.Info("recognition complete",
		logging.String("transcript", result.JSONPath),
		logging.Int("sentences", len(result.Sentences)),
	)

	if t.notifier != nil {
		if err := t.notifier.NotifyTranscriptionCompleted(ctx, item.Title, item.Language); err != nil {
			logger.Warn("transcription notification failed", logging.Error(err))
		}
	}
	return nil
}

func (t *Transcriber) HealthCheck(ctx context.Context) stage.Health {
	const name = "transcription"
	if t.cfg == nil {
		return stage.Unhealthy(name, "configuration unavailable")
	}
	if t.recognizer == nil {
		return stage.Unhealthy(name, "recognizer unavailable")
	}
	if _, err := os.Stat(t.cfg.RuntimePython()); err != nil {
		return stage.Unhealthy(name, "runtime not bootstrapped (run 'soundshield setup')")
	}
	if _, err := os.Stat(t.cfg.RunnerScript()); err != nil {
		return stage.Unhealthy(name, "runner script missing (run 'soundshield setup')")
	}
	return stage.Healthy(name)
}
