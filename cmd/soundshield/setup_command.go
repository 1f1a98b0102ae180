package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"soundshield/internal/logging"
	"soundshield/internal/setup"
)

func newSetupCommand(ctx *commandContext) *cobra.Command {
	var forceCPU bool

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Bootstrap the speech recognition runtime",
		Long: "Setup creates the managed Python virtual environment, detects " +
			"GPU availability, and installs the recognition dependencies in a " +
			"fixed order. Re-running it is safe; an existing runtime is reused.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.New(logging.Options{Level: cfg.Logging.Level, Format: "console"})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			installer := setup.New(cfg, logger)
			if err := installer.Run(cmd.Context(), forceCPU); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Runtime ready")
			return nil
		},
	}

	cmd.Flags().BoolVar(&forceCPU, "force-cpu", false, "Skip GPU detection and install the CPU build")
	return cmd
}
