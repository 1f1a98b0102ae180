package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"soundshield/internal/config"
	"soundshield/internal/logging"
	"soundshield/internal/media"
	"soundshield/internal/queue"
	"soundshield/internal/stageexec"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var (
		logLevel  string
		language  string
		outputDir string
		wantSRT   bool
		wantTXT   bool
	)

	cmd := &cobra.Command{
		Use:   "transcribe <path>",
		Short: "Transcribe a single media file in the foreground",
		Long: "Transcribe runs the full pipeline for one file in the calling " +
			"process: audio extraction, speech recognition, subtitle " +
			"generation, and export. The file is tracked through the same " +
			"queue the daemon uses, so a partially processed item can be " +
			"resumed later.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg := *loaded
			if language != "" {
				cfg.ASR.Language = language
			}
			if outputDir != "" {
				cfg.Paths.OutputDir, err = config.ExpandPath(outputDir)
				if err != nil {
					return fmt.Errorf("resolve output directory: %w", err)
				}
			}
			if cmd.Flags().Changed("srt") {
				cfg.Subtitles.Enabled = wantSRT
				cfg.Export.Subtitle = wantSRT
			}
			if cmd.Flags().Changed("txt") {
				cfg.Export.Transcript = wantTXT
			}

			absPath, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			info, err := os.Stat(absPath)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("file does not exist: %s", absPath)
				}
				return fmt.Errorf("inspect file: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("%s is a directory", absPath)
			}
			if !media.IsSupportedFile(absPath) {
				return fmt.Errorf("unsupported file extension %q", filepath.Ext(absPath))
			}

			level := logLevel
			if level == "" {
				level = cfg.Logging.Level
			}
			logger, err := logging.New(logging.Options{Level: level, Format: "console"})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			store, err := queue.Open(&cfg)
			if err != nil {
				return fmt.Errorf("open queue database: %w", err)
			}
			defer store.Close()

			item, err := store.FindBySourcePath(cmd.Context(), absPath)
			if err != nil {
				return err
			}
			if item == nil {
				item, err = store.NewFile(cmd.Context(), absPath)
				if err != nil {
					return err
				}
			}

			runner := stageexec.NewRunner(&cfg, store, logger)
			if err := runner.Run(cmd.Context(), item); err != nil {
				return err
			}

			final, err := store.GetByID(cmd.Context(), item.ID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if final != nil && final.FinalTranscript != "" {
				fmt.Fprintf(out, "Transcript: %s\n", final.FinalTranscript)
			}
			if final != nil && final.FinalSubtitle != "" {
				fmt.Fprintf(out, "Subtitles:  %s\n", final.FinalSubtitle)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "", "Override configured log level")
	cmd.Flags().StringVar(&language, "language", "", "Override configured recognition language")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Write final files under this directory")
	cmd.Flags().BoolVar(&wantSRT, "srt", false, "Force subtitle (SRT) export on or off")
	cmd.Flags().BoolVar(&wantTXT, "txt", false, "Force transcript (TXT) export on or off")
	return cmd
}
