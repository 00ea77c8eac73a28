// Package console is the interactive host: it reads lines, passes
// structured commands straight to the executor, sends everything else
// through the dialogue engine, renders the resulting action, and runs
// approved commands.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/bdobrica/folio/common/trace"
	"github.com/bdobrica/folio/internal/folio/dialogue"
	"github.com/bdobrica/folio/internal/folio/engine"
	"github.com/bdobrica/folio/internal/folio/journal"
)

// Recorder stores the transcript. *journal.Journal implements it.
type Recorder interface {
	RecordTurn(ctx context.Context, t journal.Turn) error
	RecordCommand(ctx context.Context, sessionID, turnID, command string) error
}

var _ Recorder = (*journal.Journal)(nil)

// Console serves one interactive session.
type Console struct {
	in   io.Reader
	out  io.Writer
	eng  *engine.Engine
	exec Executor
	rec  Recorder
	intr <-chan os.Signal

	// warned is set once the fallback warning has been shown this session.
	warned bool
}

// Option configures a Console.
type Option func(*Console)

// WithIO sets the input and output streams (stdin/stdout by default).
func WithIO(in io.Reader, out io.Writer) Option {
	return func(c *Console) { c.in, c.out = in, out }
}

// WithRecorder journals every turn and executed command.
func WithRecorder(r Recorder) Option { return func(c *Console) { c.rec = r } }

// WithInterrupts delivers Ctrl-C; each signal cancels the current operation.
func WithInterrupts(ch <-chan os.Signal) Option { return func(c *Console) { c.intr = ch } }

// New returns a console around eng. A nil executor echoes commands.
func New(eng *engine.Engine, exec Executor, opts ...Option) *Console {
	c := &Console{in: os.Stdin, out: os.Stdout, eng: eng, exec: exec}
	for _, opt := range opts {
		opt(c)
	}
	if c.exec == nil {
		c.exec = EchoExecutor{W: c.out}
	}
	return c
}

var exitWords = map[string]bool{"exit": true, "quit": true, "q": true}

// Run reads lines until EOF, an exit word, or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	readCtx, stop := context.WithCancel(ctx)
	defer stop()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(c.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-readCtx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	for {
		c.prompt()
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-c.intr:
			fmt.Fprintln(c.out, "^C")
			if c.eng.Phase() != dialogue.PhaseIdle {
				c.render(c.eng.Interrupt())
			}

		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(c.out)
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			if exitWords[strings.ToLower(strings.TrimSpace(line))] {
				if c.eng.Phase() != dialogue.PhaseIdle {
					c.render(c.eng.Interrupt())
				}
				fmt.Fprintln(c.out, "Goodbye!")
				return nil
			}
			if err := c.HandleLine(ctx, line); err != nil {
				fmt.Fprintf(c.out, "error: %v\n", err)
			}
		}
	}
}

func (c *Console) prompt() {
	if c.eng.Phase() == dialogue.PhaseIdle {
		fmt.Fprint(c.out, "folio> ")
	} else {
		fmt.Fprint(c.out, "  > ")
	}
}

// HandleLine processes one line. The returned error is an executor failure;
// dialogue problems are rendered, never returned.
func (c *Console) HandleLine(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" && c.eng.Phase() == dialogue.PhaseIdle {
		return nil
	}

	if c.eng.Phase() == dialogue.PhaseIdle {
		if args, ok := Structured(line); ok {
			ctx, turnID := trace.Start(ctx)
			c.record(ctx, journal.Turn{TurnID: turnID, Role: "user", Content: line})
			return c.run(ctx, turnID, args)
		}
	}

	res := c.eng.Handle(ctx, line)
	if res.Action == nil {
		return nil
	}
	ctx = trace.WithTurnID(ctx, res.TurnID)

	user := journal.Turn{TurnID: res.TurnID, Role: "user", Content: line}
	if res.Parse != nil {
		user.Intent = string(res.Parse.Intent)
		user.Source = string(res.Parse.Source)
		if res.Parse.FallbackReason != "" {
			WarnFallback(c.out, &c.warned, res.Parse.FallbackReason)
		}
	}
	c.record(ctx, user)
	c.record(ctx, journal.Turn{TurnID: res.TurnID, Role: "assistant", Content: res.Action.Text()})

	c.render(res.Action)
	if ex, ok := res.Action.(dialogue.Execute); ok && ex.Command != "" {
		args, err := splitCommand(ex.Command)
		if err != nil {
			return err
		}
		return c.run(ctx, res.TurnID, args)
	}
	return nil
}

func (c *Console) run(ctx context.Context, turnID string, args []string) error {
	if c.rec != nil {
		if err := c.rec.RecordCommand(ctx, c.eng.Session(), turnID, joinArgs(args)); err != nil {
			slog.Warn("console: journal write failed", "err", err)
		}
	}
	return c.exec.Execute(ctx, args)
}

func (c *Console) record(ctx context.Context, t journal.Turn) {
	if c.rec == nil {
		return
	}
	t.SessionID = c.eng.Session()
	if err := c.rec.RecordTurn(ctx, t); err != nil {
		slog.Warn("console: journal write failed", "err", err)
	}
}

// WarnFallback tells the user, once per session, that parsing has fallen
// back to the built-in patterns. warned is owned by the caller.
func WarnFallback(w io.Writer, warned *bool, reason string) {
	if *warned {
		return
	}
	*warned = true
	fmt.Fprintf(w, "[WARN] Using pattern-based parsing (language model unavailable)\n  reason: %s\n", reason)
}
