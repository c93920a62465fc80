package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"envwatch/internal/logging"
	"envwatch/internal/monitor"
	"envwatch/internal/notifications"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var notify bool

	cmd := &cobra.Command{
		Use:       "check [rotation|unused|duplicates|all]",
		Short:     "Run checks once and exit",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: append(monitor.CheckNames(), "all"),
		RunE: func(cmd *cobra.Command, args []string) error {
			var names []string
			if len(args) == 1 && args[0] != "all" {
				names = []string{args[0]}
			}

			cfg, st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			notifier := notifications.NewService(nil, nil)
			if notify {
				notifier = notifications.NewService(cfg, logger)
			}
			out := cmd.OutOrStdout()
			mon, err := monitor.New(st, notifier, logger,
				monitor.WithOutput(out),
				monitor.WithColor(ctx.colorize(out)),
			)
			if err != nil {
				return err
			}
			if err := mon.RunOnce(cmd.Context(), cfg, names...); err != nil {
				return err
			}
			notifications.Wait(notifier)
			return nil
		},
	}

	cmd.Flags().BoolVar(&notify, "notify", false, "Send notifications for findings")
	return cmd
}
