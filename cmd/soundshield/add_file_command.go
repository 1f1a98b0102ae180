package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"soundshield/internal/ipc"
	"soundshield/internal/media"
	"soundshield/internal/queue"
)

func newAddFileCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <path>",
		Short: "Add a media file to the transcription queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			return ctx.withStore(func(client *ipc.Client, store *queue.Store) error {
				if client != nil {
					resp, err := client.AddFile(absPath)
					if err != nil {
						return err
					}
					if resp == nil {
						return errors.New("empty response from daemon")
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Queued file as item #%d (%s)\n", resp.Item.ID, filepath.Base(absPath))
				} else {
					existing, err := store.FindBySourcePath(cmd.Context(), absPath)
					if err != nil {
						return err
					}
					if existing != nil {
						return fmt.Errorf("file already queued as item #%d", existing.ID)
					}
					item, err := store.NewFile(cmd.Context(), absPath)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Queued file as item #%d (%s)\n", item.ID, filepath.Base(absPath))
				}
				return nil
			})
		},
	}
}
