// Package cli provides the command-line interface for CortexDash
package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
)

// Run starts the CLI application
func Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			DisplayError(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}
