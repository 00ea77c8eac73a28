package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bdobrica/folio/internal/folio/app"
	"github.com/bdobrica/folio/internal/folio/console"
)

var execProgram string

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive shell",
	Long: `Reads one line at a time. Portfolio commands ("price BTC",
"tx buy BTC 0.1 --account Binance --price 95000") run directly; anything else
is interpreted. Ctrl-C cancels the current operation; "quit" or Ctrl-D exits.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func runShell(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	intr := make(chan os.Signal, 1)
	signal.Notify(intr, os.Interrupt)
	defer signal.Stop(intr)

	var exec console.Executor
	if execProgram != "" {
		exec = console.ProcessExecutor{Program: execProgram, Stdout: os.Stdout, Stderr: os.Stderr}
	}

	err = a.Shell(ctx, exec, console.WithInterrupts(intr))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
