package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// Executor runs a command line that has already been split into words.
type Executor interface {
	Execute(ctx context.Context, args []string) error
}

// EchoExecutor prints commands instead of running them. It is the default
// when no portfolio program is configured.
type EchoExecutor struct {
	W io.Writer
}

func (e EchoExecutor) Execute(_ context.Context, args []string) error {
	_, err := fmt.Fprintf(e.W, "(dry run) %s\n", joinArgs(args))
	return err
}

// ProcessExecutor runs Program with the command words as arguments.
type ProcessExecutor struct {
	Program string
	Stdout  io.Writer
	Stderr  io.Writer
}

// ErrNoProgram is returned by ProcessExecutor without a Program.
var ErrNoProgram = errors.New("console: no executor program configured")

func (p ProcessExecutor) Execute(ctx context.Context, args []string) error {
	if p.Program == "" {
		return ErrNoProgram
	}
	cmd := exec.CommandContext(ctx, p.Program, args...)
	cmd.Stdout = p.Stdout
	cmd.Stderr = p.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("console: %s %s: %w", p.Program, joinArgs(args), err)
	}
	return nil
}
