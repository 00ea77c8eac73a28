// Package engine routes one console line to the right dialogue transition:
// a fresh utterance is parsed and processed, an answer to a slot question
// fills that slot, and a reply to a confirmation approves or drops the
// pending command.
package engine

import (
	"context"
	"strings"

	"github.com/bdobrica/folio/common/trace"
	"github.com/bdobrica/folio/internal/folio/dialogue"
	"github.com/bdobrica/folio/internal/folio/intent"
	"github.com/bdobrica/folio/internal/folio/nlp"
	"github.com/bdobrica/folio/internal/folio/observability"
)

// Parser interprets an utterance. *nlp.Router implements it.
type Parser interface {
	Route(ctx context.Context, text string, dctx nlp.DialogueContext) *intent.ParseResult
}

var _ Parser = (*nlp.Router)(nil)

// Result is the outcome of one line. Parse is set only when the line went
// through a parser.
type Result struct {
	TurnID string
	Action dialogue.Action
	Parse  *intent.ParseResult
}

// Engine serves one session. It is not safe for concurrent use; the host
// feeds it one line at a time.
type Engine struct {
	session string
	parser  Parser
	dm      *dialogue.Manager
}

// New returns an engine for session.
func New(session string, p Parser, dm *dialogue.Manager) *Engine {
	return &Engine{session: session, parser: p, dm: dm}
}

// cancelWords abandon an operation while values are being collected.
var cancelWords = map[string]bool{"cancel": true, "abort": true, "nevermind": true, "never mind": true}

// Handle processes one line. A blank line while idle yields a nil Action.
func (e *Engine) Handle(ctx context.Context, line string) Result {
	ctx, turnID := trace.Start(ctx)
	logger := observability.ForTurn(ctx).With("session", e.session)
	res := Result{TurnID: turnID}

	phase := e.dm.Phase()
	switch phase {
	case dialogue.PhaseConfirming:
		res.Action = e.dm.HandleConfirmation(line)

	case dialogue.PhaseCollecting:
		if cancelWords[strings.ToLower(strings.TrimSpace(line))] {
			res.Action = e.dm.Interrupt()
		} else {
			res.Action = e.dm.Fill(line)
		}

	default:
		if strings.TrimSpace(line) == "" {
			return res
		}
		res.Parse = e.parser.Route(ctx, line, e.Context())
		logger.Debug("engine: parsed",
			"intent", res.Parse.Intent,
			"source", res.Parse.Source,
			"confidence", res.Parse.Confidence,
			"missing", res.Parse.Missing,
		)
		res.Action = e.dm.Process(res.Parse)
	}

	logger.Debug("engine: turn", "phase", phase.String(), "action", res.Action.Kind(), "next_phase", e.dm.Phase().String())
	return res
}

// Interrupt clears the current operation, as Ctrl-C does in the console.
func (e *Engine) Interrupt() dialogue.Action { return e.dm.Interrupt() }

// Phase reports the dialogue phase.
func (e *Engine) Phase() dialogue.Phase { return e.dm.Phase() }

// State returns a snapshot of the dialogue state.
func (e *Engine) State() dialogue.State { return e.dm.State() }

// Session returns the session ID.
func (e *Engine) Session() string { return e.session }

// Context builds what a model provider may see of the session.
func (e *Engine) Context() nlp.DialogueContext {
	s := e.dm.State()
	dctx := nlp.DialogueContext{
		SessionID:   e.session,
		LastAccount: s.LastAccount,
		LastAsset:   s.LastAsset,
		Collected:   s.Collected,
	}
	for _, t := range s.History {
		dctx.History = append(dctx.History, nlp.HistoryMessage{Role: t.Role, Content: t.Content})
	}
	return dctx
}
