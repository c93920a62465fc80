package main

import (
	"os"

	"github.com/spf13/cobra"

	"envwatch/internal/daemonrun"
)

func newMonitorCommand(ctx *commandContext) *cobra.Command {
	var logLevel string
	var development bool

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Run the periodic rotation, unused, and duplicate checks until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.presentConfig()
			if err != nil {
				return err
			}
			return daemonrun.Run(cmd.Context(), cfg, daemonrun.Options{
				LogLevel:    logLevel,
				Development: development,
				Color:       ctx.colorize(os.Stdout),
				Output:      cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "", "Override the configured log level")
	cmd.Flags().BoolVar(&development, "dev", false, "Include source locations in log output")
	return cmd
}
