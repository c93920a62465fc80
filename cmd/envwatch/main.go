package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"envwatch/internal/monitor"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		switch {
		case errors.Is(err, monitor.ErrNotConfigured):
			fmt.Fprintln(os.Stderr, "Error: configuration not found. Run `envwatch config init` to create one.")
		case !errors.Is(err, context.Canceled):
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
