package main

import (
	"fmt"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"envwatch/internal/logging"
	"envwatch/internal/monitor"
	"envwatch/internal/notifications"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show variable, secret, and rotation totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			out := cmd.OutOrStdout()
			colorize := ctx.colorize(out)

			mon, err := monitor.New(st, notifications.NewService(nil, nil), logging.NewNop(),
				monitor.WithOutput(out),
				monitor.WithColor(colorize),
			)
			if err != nil {
				return err
			}
			mon.DisplayStatus(cmd.Context())

			fmt.Fprintln(out)
			running, err := monitorRunning(cfg.LockPath())
			if err != nil {
				fmt.Fprintln(out, renderStatusLine("Monitor", statusError, err.Error(), colorize))
			} else if running {
				fmt.Fprintln(out, renderStatusLine("Monitor", statusOK, "Running", colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("Monitor", statusWarn, "Not running", colorize))
			}
			fmt.Fprintln(out, renderStatusLine("Database", statusInfo, st.Path(), colorize))
			fmt.Fprintln(out, renderStatusLine("Desktop alerts", statusInfo, yesNo(cfg.Notifications.Desktop), colorize))
			fmt.Fprintln(out, renderStatusLine("ntfy", statusInfo, yesNo(cfg.Notifications.NtfyTopic != ""), colorize))
			return nil
		},
	}
}

// monitorRunning probes the instance lock without holding it.
func monitorRunning(lockPath string) (bool, error) {
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return false, fmt.Errorf("probe monitor lock: %w", err)
	}
	if !ok {
		return true, nil
	}
	_ = lock.Unlock()
	return false, nil
}
