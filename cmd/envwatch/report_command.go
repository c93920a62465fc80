package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"envwatch/internal/store"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print tables of secrets due for rotation, unused variables, and duplicate values",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			reqCtx := cmd.Context()
			now := time.Now()
			due, err := st.DueForRotation(reqCtx, now)
			if err != nil {
				return err
			}
			unused, err := st.UnusedSince(reqCtx, now.Add(-cfg.Monitor.UnusedAfter()))
			if err != nil {
				return err
			}
			duplicates, err := st.DuplicateValues(reqCtx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := ctx.colorize(out)
			writeRefSection(out, "Due for rotation", due, colorize)
			writeRefSection(out, fmt.Sprintf("Unused for %d+ days", cfg.Monitor.UnusedAfterDays), unused, colorize)
			writeDuplicateSection(out, duplicates, colorize)
			return nil
		},
	}
}

func writeRefSection(out io.Writer, title string, refs []store.VariableRef, colorize bool) {
	for _, line := range renderSectionHeader(title, colorize) {
		fmt.Fprintln(out, line)
	}
	if len(refs) == 0 {
		fmt.Fprintln(out, "None")
		fmt.Fprintln(out)
		return
	}
	rows := make([][]string, 0, len(refs))
	for _, ref := range refs {
		rows = append(rows, []string{ref.Environment, ref.Key})
	}
	fmt.Fprintln(out, renderTable([]string{"Environment", "Key"}, rows))
	fmt.Fprintln(out)
}

func writeDuplicateSection(out io.Writer, groups []store.DuplicateGroup, colorize bool) {
	for _, line := range renderSectionHeader("Duplicate values", colorize) {
		fmt.Fprintln(out, line)
	}
	if len(groups) == 0 {
		fmt.Fprintln(out, "None")
		return
	}
	rows := make([][]string, 0, len(groups))
	for _, group := range groups {
		rows = append(rows, []string{group.Keys, strconv.Itoa(group.Count)})
	}
	fmt.Fprintln(out, renderTable([]string{"Keys", "Count"}, rows, 1))
}
