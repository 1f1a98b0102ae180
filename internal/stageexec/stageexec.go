// Package stageexec runs the processing pipeline for a single queue item in
// the calling process. The daemon uses the workflow manager instead; this
// path backs one-shot CLI invocations.
package stageexec

import (
	"context"
	"fmt"
	"log/slog"

	"soundshield/internal/audioprep"
	"soundshield/internal/config"
	"soundshield/internal/logging"
	"soundshield/internal/organizer"
	"soundshield/internal/queue"
	"soundshield/internal/stage"
	"soundshield/internal/subtitles"
	"soundshield/internal/transcription"
)

type step struct {
	name             string
	handler          stage.Handler
	processingStatus queue.Status
	doneStatus       queue.Status
}

// Runner executes pipeline stages sequentially for one item.
type Runner struct {
	store  *queue.Store
	logger *slog.Logger
	steps  []step
}

// NewRunner wires the default stage handlers for one-shot execution.
func NewRunner(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Runner {
	return &Runner{
		store:  store,
		logger: logging.NewComponentLogger(logger, "stageexec"),
		steps: []step{
			{
				name:             "extractor",
				handler:          audioprep.NewExtractor(cfg, store, logger),
				processingStatus: queue.StatusExtracting,
				doneStatus:       queue.StatusExtracted,
			},
			{
				name:             "transcriber",
				handler:          transcription.NewTranscriber(cfg, store, logger),
				processingStatus: queue.StatusTranscribing,
				doneStatus:       queue.StatusTranscribed,
			},
			{
				name:             "subtitles",
				handler:          subtitles.NewGenerator(cfg, store, logger),
				processingStatus: queue.StatusSubtitling,
				doneStatus:       queue.StatusSubtitled,
			},
			{
				name:             "organizer",
				handler:          organizer.NewOrganizer(cfg, store, logger),
				processingStatus: queue.StatusExporting,
				doneStatus:       queue.StatusCompleted,
			},
		},
	}
}

// Run advances the item through every remaining stage, persisting progress
// after each transition. It stops at the first stage failure.
func (r *Runner) Run(ctx context.Context, item *queue.Item) error {
	for _, st := range r.steps {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		logger := logging.WithContext(ctx, r.logger).With(logging.String("stage", st.name))

		item.Status = st.processingStatus
		item.ProgressStage = ""
		item.ProgressMessage = ""
		item.ProgressPercent = 0
		if err := r.store.Update(ctx, item); err != nil {
			return fmt.Errorf("persist processing transition: %w", err)
		}

		if err := st.handler.Prepare(ctx, item); err != nil {
			r.recordFailure(ctx, item, err)
			return err
		}
		if err := st.handler.Execute(ctx, item); err != nil {
			r.recordFailure(ctx, item, err)
			return err
		}

		if item.Status == st.processingStatus || item.Status == "" {
			item.Status = st.doneStatus
		}
		if err := r.store.Update(ctx, item); err != nil {
			return fmt.Errorf("persist stage result: %w", err)
		}
		logger.Info("stage completed", logging.String("next_status", string(item.Status)))
	}
	return nil
}

func (r *Runner) recordFailure(ctx context.Context, item *queue.Item, stageErr error) {
	item.SetFailed(stageErr.Error())
	if err := r.store.Update(ctx, item); err != nil {
		r.logger.Error("failed to persist stage failure", logging.Error(err))
	}
}
