package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"envwatch/internal/logging"
	"envwatch/internal/notifications"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.requireConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cfg.Notifications.Desktop && strings.TrimSpace(cfg.Notifications.NtfyTopic) == "" {
				fmt.Fprintln(out, "Notifications disabled; enable desktop or set ntfy_topic")
				return nil
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			notifier := notifications.NewService(cfg, logger)
			if err := notifier.Publish(cmd.Context(), notifications.EventTest, nil); err != nil {
				fmt.Fprintln(out, "Notification not sent")
				return err
			}
			notifications.Wait(notifier)
			fmt.Fprintln(out, "Test notification sent")
			return nil
		},
	}
}
