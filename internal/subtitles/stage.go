package subtitles

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"soundshield/internal/config"
	"soundshield/internal/logging"
	"soundshield/internal/notifications"
	"soundshield/internal/queue"
	"soundshield/internal/services"
	"soundshield/internal/services/funasr"
	"soundshield/internal/stage"
)

// Generator manages subtitle creation from recognition results.
type Generator struct {
	store      *queue.Store
	cfg        *config.Config
	logger     *slog.Logger
	notifier   notifications.Service
	loadResult func(path string) (funasr.Result, error)
}

// NewGenerator builds the subtitle stage handler.
func NewGenerator(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Generator {
	return NewGeneratorWithDependencies(cfg, store, logger, notifications.NewService(cfg))
}

// NewGeneratorWithDependencies allows injecting custom dependencies (used for tests).
func NewGeneratorWithDependencies(cfg *config.Config, store *queue.Store, logger *slog.Logger, notifier notifications.Service) *Generator {
	return &Generator{
		store:      store,
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "subtitles"),
		notifier:   notifier,
		loadResult: funasr.LoadResult,
	}
}

// WithResultLoader overrides recognition result loading (used for tests).
func (g *Generator) WithResultLoader(fn func(path string) (funasr.Result, error)) {
	g.loadResult = fn
}

func (g *Generator) options() Options {
	opts := DefaultOptions()
	if g.cfg != nil {
		if g.cfg.Subtitles.MaxCharsPerCue > 0 {
			opts.MaxCharsPerCue = g.cfg.Subtitles.MaxCharsPerCue
		}
		if g.cfg.Subtitles.MinCueSeconds > 0 {
			opts.MinCueSeconds = g.cfg.Subtitles.MinCueSeconds
		}
		if g.cfg.Subtitles.MaxCueSeconds > 0 {
			opts.MaxCueSeconds = g.cfg.Subtitles.MaxCueSeconds
		}
	}
	return opts
}

func (g *Generator) Prepare(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, g.logger)
	item.InitProgress("Generating subtitles", "Shaping transcript into cues")
	logger.Debug("starting subtitle preparation")
	return nil
}

func (g *Generator) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, g.logger)

	if g.cfg != nil && !g.cfg.Subtitles.Enabled {
		item.SetProgressComplete("Generating subtitles", "Subtitles disabled")
		logger.Info("subtitle generation disabled, skipping")
		return nil
	}

	transcript := strings.TrimSpace(item.TranscriptFile)
	if transcript == "" {
		return services.Wrap(services.ErrValidation, "subtitles", "validate inputs",
			"No transcript available; ensure the transcription stage completed", nil)
	}

	result, err := g.loadResult(transcript)
	if err != nil {
		return services.Wrap(services.ErrValidation, "subtitles", "load transcript",
			fmt.Sprintf("Could not read recognition result %s", transcript), err)
	}

	opts := g.options()
	var cues []Cue
	if len(result.Sentences) > 0 {
		sentences := make([]Sentence, 0, len(result.Sentences))
		for _, sentence := range result.Sentences {
			sentences = append(sentences, Sentence{Text: sentence.Text, Start: sentence.Start, End: sentence.End})
		}
		cues = FromSentences(sentences, item.DurationSeconds, opts)
	} else {
		cues = SplitTranscript(result.Text, item.DurationSeconds, opts)
	}
	if len(cues) == 0 {
		return services.Wrap(services.ErrValidation, "subtitles", "build cues",
			"Transcript produced no subtitle cues", nil)
	}

	outputDir := filepath.Dir(transcript)
	if audio := strings.TrimSpace(item.AudioFile); audio != "" {
		outputDir = filepath.Dir(audio)
	}
	baseName := strings.TrimSuffix(filepath.Base(transcript), filepath.Ext(transcript))
	srtPath := filepath.Join(outputDir, baseName+".srt")
	if err := WriteSRT(srtPath, cues); err != nil {
		return services.Wrap(services.ErrConfiguration, "subtitles", "write srt",
			"Could not write subtitle file to staging", err)
	}

	if issues := Validate(srtPath, item.DurationSeconds); len(issues) > 0 {
		return services.Wrap(services.ErrValidation, "subtitles", "validate srt",
			fmt.Sprintf("Generated subtitles failed validation: %s", strings.Join(issues, ", ")), nil)
	}

	item.SubtitleFile = srtPath
	item.SetProgressComplete("Generating subtitles", fmt.Sprintf("Wrote %d cues", len(cues)))
	logger.Info("subtitles generated",
		logging.String("subtitle_file", srtPath),
		logging.Int("cues", len(cues)),
	)

	if g.notifier != nil {
		if err := g.notifier.NotifySubtitlesGenerated(ctx, item.Title, len(cues)); err != nil {
			logger.Warn("subtitle notification failed", logging.Error(err))
		}
	}
	return nil
}

func (g *Generator) HealthCheck(ctx context.Context) stage.Health {
	const name = "subtitles"
	if g.cfg == nil {
		return stage.Unhealthy(name, "configuration unavailable")
	}
	if !g.cfg.Subtitles.Enabled {
		return stage.Healthy(name)
	}
	if _, err := os.Stat(g.cfg.Paths.StagingDir); err != nil {
		return stage.Unhealthy(name, "staging directory unavailable")
	}
	return stage.Healthy(name)
}
