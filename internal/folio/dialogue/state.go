package dialogue

import (
	"maps"
	"slices"

	"github.com/bdobrica/folio/internal/folio/intent"
)

// MaxHistory is the number of turns kept; older turns are evicted first.
const MaxHistory = 10

// Phase is where a session stands in the current operation.
type Phase int

const (
	// PhaseIdle means no operation is in progress.
	PhaseIdle Phase = iota
	// PhaseCollecting means an intent is set and required values are missing.
	PhaseCollecting
	// PhaseConfirming means a mutating command is waiting for y/n.
	PhaseConfirming
)

func (p Phase) String() string {
	switch p {
	case PhaseCollecting:
		return "collecting"
	case PhaseConfirming:
		return "confirming"
	default:
		return "idle"
	}
}

// Turn is one entry of the conversation history.
type Turn struct {
	Role    string // "user" or "assistant"
	Content string
}

// Seed is context inherited from the host at session start, typically
// recovered from previously executed commands.
type Seed struct {
	LastAccount string
	LastAsset   string
}

// State is the per-session dialogue state. Operation fields (Intent,
// Collected, Missing, ConfirmationPending) are cleared whenever an operation
// executes or is cancelled; context and history survive until session end.
type State struct {
	Intent              intent.Intent
	Collected           map[string]intent.Entity
	Missing             []string
	ConfirmationPending bool

	LastAccount string
	LastAsset   string

	History []Turn
}

func newState(seed Seed) State {
	return State{
		Collected:   make(map[string]intent.Entity),
		LastAccount: seed.LastAccount,
		LastAsset:   seed.LastAsset,
	}
}

// Phase derives the current phase from the operation fields.
func (s *State) Phase() Phase {
	switch {
	case s.Intent == "":
		return PhaseIdle
	case s.ConfirmationPending:
		return PhaseConfirming
	default:
		return PhaseCollecting
	}
}

func (s *State) clearOperation() {
	s.Intent = ""
	s.Collected = make(map[string]intent.Entity)
	s.Missing = nil
	s.ConfirmationPending = false
}

func (s *State) addTurn(role, content string) {
	s.History = append(s.History, Turn{Role: role, Content: content})
	if over := len(s.History) - MaxHistory; over > 0 {
		s.History = slices.Clone(s.History[over:])
	}
}

// remember copies the last mentioned account and asset into context.
func (s *State) remember(entities map[string]intent.Entity) {
	for _, f := range []string{intent.FieldAccount, intent.FieldFromAccount} {
		if e, ok := entities[f]; ok && e.String() != "" {
			s.LastAccount = e.String()
			break
		}
	}
	if e, ok := entities[intent.FieldAsset]; ok && e.String() != "" {
		s.LastAsset = e.String()
	}
}

func (s *State) clone() State {
	c := *s
	c.Collected = maps.Clone(s.Collected)
	c.Missing = slices.Clone(s.Missing)
	c.History = slices.Clone(s.History)
	return c
}
