package organizer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"log/slog"

	"soundshield/internal/config"
	"soundshield/internal/fileutil"
	"soundshield/internal/logging"
	"soundshield/internal/notifications"
	"soundshield/internal/queue"
	"soundshield/internal/services"
	"soundshield/internal/services/funasr"
	"soundshield/internal/stage"
	"soundshield/internal/subtitles"
	"soundshield/internal/textutil"

	"golang.org/x/sys/unix"
)

// Organizer moves finished artifacts into the output directory.
type Organizer struct {
	store      *queue.Store
	cfg        *config.Config
	logger     *slog.Logger
	notifier   notifications.Service
	loadResult func(path string) (funasr.Result, error)
}

// NewOrganizer constructs the export stage handler using default dependencies.
func NewOrganizer(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Organizer {
	return NewOrganizerWithDependencies(cfg, store, logger, notifications.NewService(cfg))
}

// NewOrganizerWithDependencies allows injecting collaborators (used in tests).
func NewOrganizerWithDependencies(cfg *config.Config, store *queue.Store, logger *slog.Logger, notifier notifications.Service) *Organizer {
	return &Organizer{
		store:      store,
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "organizer"),
		notifier:   notifier,
		loadResult: funasr.LoadResult,
	}
}

// WithResultLoader overrides recognition result loading (used for tests).
func (o *Organizer) WithResultLoader(fn func(path string) (funasr.Result, error)) {
	o.loadResult = fn
}

func (o *Organizer) Prepare(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, o.logger)
	item.InitProgress("Exporting", "Preparing output files")
	logger.Debug("starting export preparation", logging.String("title", item.Title))
	return nil
}

func (o *Organizer) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, o.logger)

	transcript := strings.TrimSpace(item.TranscriptFile)
	if transcript == "" {
		return services.Wrap(services.ErrValidation, "exporting", "validate inputs",
			"No transcript available for export; run transcription first", nil)
	}
	outputDir := strings.TrimSpace(o.cfg.Paths.OutputDir)
	if outputDir == "" {
		return services.Wrap(services.ErrConfiguration, "exporting", "resolve output dir",
			"Output directory not configured; set paths.output_dir in your soundshield config.toml", nil)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "exporting", "ensure output dir",
			"Failed to create output directory", err)
	}

	baseName := textutil.SanitizeFileName(item.Title)
	if baseName == "" {
		base := filepath.Base(transcript)
		baseName = strings.TrimSuffix(base, filepath.Ext(base))
	}

	if o.cfg.Export.Transcript {
		o.updateProgress(ctx, item, "Writing transcript", 25)
		result, err := o.loadResult(transcript)
		if err != nil {
			return services.Wrap(services.ErrValidation, "exporting", "load transcript",
				fmt.Sprintf("Could not read recognition result %s", transcript), err)
		}
		sentences := make([]subtitles.Sentence, 0, len(result.Sentences))
		for _, sentence := range result.Sentences {
			sentences = append(sentences, subtitles.Sentence{Text: sentence.Text, Start: sentence.Start, End: sentence.End})
		}
		target := o.targetPath(outputDir, baseName+".txt")
		if err := subtitles.WriteTranscript(target, result.Text, sentences); err != nil {
			return services.Wrap(services.ErrTransient, "exporting", "write transcript",
				"Failed to write transcript into output directory", err)
		}
		item.FinalTranscript = target
		logger.Info("transcript exported", logging.String("final_transcript", target))
	}

	if o.cfg.Export.Subtitle {
		if srt := strings.TrimSpace(item.SubtitleFile); srt != "" {
			o.updateProgress(ctx, item, "Moving subtitles", 60)
			target := o.targetPath(outputDir, baseName+".srt")
			if err := fileutil.MoveFile(srt, target); err != nil {
				return services.Wrap(services.ErrTransient, "exporting", "move subtitles",
					"Failed to move subtitles into output directory", err)
			}
			item.FinalSubtitle = target
			item.SubtitleFile = target
			logger.Info("subtitles exported", logging.String("final_subtitle", target))
		} else {
			logger.Debug("no subtitle file to export")
		}
	}

	o.cleanupStaging(ctx, item)

	item.SetProgressComplete("Exporting", fmt.Sprintf("Saved to %s", outputDir))
	logger.Info("export completed",
		logging.String("final_transcript", item.FinalTranscript),
		logging.String("final_subtitle", item.FinalSubtitle),
	)

	if o.notifier != nil {
		if err := o.notifier.NotifyProcessingCompleted(ctx, item.Title, item.FinalTranscript); err != nil {
			logger.Warn("completion notification failed", logging.Error(err))
		}
	}
	return nil
}

// targetPath decides where an output file lands, honoring the overwrite policy.
func (o *Organizer) targetPath(dir, name string) string {
	target := filepath.Join(dir, name)
	if o.cfg.Export.OverwriteExisting {
		return target
	}
	return fileutil.UniquePath(target)
}

// cleanupStaging removes the per-item staging directory once artifacts are exported.
func (o *Organizer) cleanupStaging(ctx context.Context, item *queue.Item) {
	logger := logging.WithContext(ctx, o.logger)
	stagingRoot := strings.TrimSpace(o.cfg.Paths.StagingDir)
	if stagingRoot == "" {
		return
	}
	itemDir := filepath.Join(stagingRoot, fmt.Sprintf("queue-%d", item.ID))
	if _, err := os.Stat(itemDir); err != nil {
		return
	}
	if err := os.RemoveAll(itemDir); err != nil {
		logger.Warn("failed to clean staging directory", logging.String("dir", itemDir), logging.Error(err))
		return
	}
	if strings.HasPrefix(item.AudioFile, itemDir) {
		item.AudioFile = ""
	}
	if strings.HasPrefix(item.TranscriptFile, itemDir) {
		item.TranscriptFile = ""
	}
	if strings.HasPrefix(item.SubtitleFile, itemDir) {
		item.SubtitleFile = ""
	}
	logger.Debug("staging directory removed", logging.String("dir", itemDir))
}

// HealthCheck verifies the output directory exists and is writable.
func (o *Organizer) HealthCheck(ctx context.Context) stage.Health {
	const name = "organizer"
	if o.cfg == nil {
		return stage.Unhealthy(name, "configuration unavailable")
	}
	outputDir := strings.TrimSpace(o.cfg.Paths.OutputDir)
	if outputDir == "" {
		return stage.Unhealthy(name, "output directory not configured")
	}
	if err := unix.Access(outputDir, unix.W_OK); err != nil {
		return stage.Unhealthy(name, "output directory not writable")
	}
	return stage.Healthy(name)
}

func (o *Organizer) updateProgress(ctx context.Context, item *queue.Item, message string, percent float64) {
	logger := logging.WithContext(ctx, o.logger)
	copy := *item
	copy.ProgressMessage = message
	copy.ProgressPercent = percent
	if err := o.store.Update(ctx, &copy); err != nil {
		logger.Warn("failed to persist export progress", logging.Error(err))
		return
	}
	*item = copy
}
