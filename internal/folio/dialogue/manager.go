// Package dialogue holds the per-session state machine that turns parse
// results into Actions: it collects missing values one question at a time,
// gates every mutating command behind an explicit confirmation, and carries
// the last account and asset across operations.
//
// A Manager serves exactly one session. Callers serialise turns; there is no
// internal locking.
package dialogue

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bdobrica/folio/internal/folio/command"
	"github.com/bdobrica/folio/internal/folio/intent"
	"github.com/bdobrica/folio/internal/folio/vocab"
)

// Fixed replies.
const (
	MsgCancelled      = "Operation cancelled."
	MsgNothingPending = "No pending operation."
	MsgConfirmPrompt  = "Please confirm with 'y' or cancel with 'n'."
	MsgUnclear        = "I'm not sure what you'd like to do. Could you rephrase that?"
	MsgAmbiguous      = "I could help with a few things here."
	MsgOutOfScope     = "I can only help with cryptocurrency portfolio management."
	MsgHelp           = "I can help you manage your crypto portfolio. Try things like:\n" +
		"  - \"What's the price of Bitcoin?\"\n" +
		"  - \"I bought 0.1 BTC on Binance\"\n" +
		"  - \"Show my portfolio\"\n" +
		"  - \"Sync my exchanges\""
)

// FieldConfirmation is the pseudo-field named by the y/n re-prompt.
const FieldConfirmation = "confirmation"

// FieldIntent is the pseudo-field named when the request itself is unclear.
const FieldIntent = "intent"

var (
	unclearSuggestions = []string{"check prices", "view portfolio", "record a transaction"}
	ambiguousOptions   = []string{"Check price", "View holdings"}
)

// Manager drives one session's dialogue.
type Manager struct {
	state State
	vocab *vocab.Vocabulary
}

// NewManager starts an idle session seeded with host context. A nil
// vocabulary means no value suggestions.
func NewManager(seed Seed, v *vocab.Vocabulary) *Manager {
	return &Manager{state: newState(seed), vocab: v}
}

// State returns a snapshot of the session state.
func (m *Manager) State() State { return m.state.clone() }

// Phase reports the current phase.
func (m *Manager) Phase() Phase { return m.state.Phase() }

// Process handles a fresh parse result. It is the transition out of the idle
// phase; a result for a different intent replaces any half-collected
// operation.
func (m *Manager) Process(r *intent.ParseResult) Action {
	s := &m.state
	s.addTurn("user", r.Raw)
	s.remember(r.Entities)

	switch r.Intent {
	case intent.Unclear:
		return m.reply(Clarify{Question: MsgUnclear, Field: FieldIntent, Suggestions: unclearSuggestions})
	case intent.Ambiguous:
		return m.reply(Disambiguate{Message: MsgAmbiguous, Options: ambiguousOptions})
	case intent.OutOfScope:
		return m.reply(OutOfScope{Message: MsgOutOfScope})
	case intent.Help:
		return m.reply(Respond{Message: MsgHelp})
	}

	if s.Intent != r.Intent {
		s.clearOperation()
		s.Intent = r.Intent
	}
	for k, v := range r.Entities {
		s.Collected[k] = v
	}
	if s.Intent.Requires(intent.FieldAccount) && s.LastAccount != "" {
		if _, ok := s.Collected[intent.FieldAccount]; !ok {
			s.Collected[intent.FieldAccount] = intent.NewString(s.LastAccount)
		}
	}
	return m.reply(m.advance())
}

// Fill treats input as the answer to the outstanding question. An
// unparseable answer repeats the question and leaves the state unchanged.
func (m *Manager) Fill(input string) Action {
	s := &m.state
	if s.Phase() != PhaseCollecting || len(s.Missing) == 0 {
		return m.reply(Cancel{Message: MsgNothingPending})
	}
	s.addTurn("user", input)

	field := s.Missing[0]
	e, ok := m.HandleEntityInput(input, field)
	if !ok {
		return m.Reprompt()
	}
	s.Collected[field] = e
	s.remember(map[string]intent.Entity{field: e})
	return m.reply(m.advance())
}

// Reprompt repeats the question for the first missing value, or the y/n
// prompt while confirming.
func (m *Manager) Reprompt() Action {
	s := &m.state
	switch s.Phase() {
	case PhaseConfirming:
		return m.reply(confirmPrompt())
	case PhaseCollecting:
		if len(s.Missing) > 0 {
			return m.reply(m.clarify(s.Missing[0]))
		}
	}
	return m.reply(Cancel{Message: MsgNothingPending})
}

// HandleConfirmation answers a pending confirmation. Only y/yes/empty runs
// the command and only n/no/cancel/abort drops it; any other text re-asks
// without touching the state.
func (m *Manager) HandleConfirmation(input string) Action {
	s := &m.state
	s.addTurn("user", input)
	if s.Intent == "" {
		return m.reply(Cancel{Message: MsgNothingPending})
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", "y", "yes":
		if !s.ConfirmationPending {
			return m.Reprompt()
		}
		cmd := command.Synthesize(s.Intent, s.Collected)
		s.clearOperation()
		return m.reply(Execute{Command: cmd})
	case "n", "no", "cancel", "abort":
		s.clearOperation()
		return m.reply(Cancel{Message: MsgCancelled})
	default:
		return m.reply(confirmPrompt())
	}
}

// Interrupt abandons the current operation without a parse round-trip.
func (m *Manager) Interrupt() Action {
	s := &m.state
	if s.Intent == "" {
		return Cancel{Message: MsgNothingPending}
	}
	s.clearOperation()
	return m.reply(Cancel{Message: MsgCancelled})
}

// HandleEntityInput converts a raw answer into a value for field. Numeric
// fields accept thousands separators, a leading $ and a k suffix; symbol
// lists split on commas and spaces; anything else is kept verbatim. It
// reports false when nothing usable was given.
func (m *Manager) HandleEntityInput(input, field string) (intent.Entity, bool) {
	input = strings.TrimSpace(input)
	switch {
	case numericFields[field]:
		d, ok := parseAmount(input)
		if !ok {
			return intent.Entity{}, false
		}
		return intent.NewNumber(d), true
	case field == intent.FieldSymbols:
		syms := strings.FieldsFunc(input, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		if len(syms) == 0 {
			return intent.Entity{}, false
		}
		for i, s := range syms {
			syms[i] = m.symbol(s)
		}
		return intent.NewSymbols(syms...), true
	case symbolFields[field]:
		if input == "" {
			return intent.Entity{}, false
		}
		return intent.NewString(m.symbol(input)), true
	default:
		if input == "" {
			return intent.Entity{}, false
		}
		return intent.NewString(input), true
	}
}

var numericFields = map[string]bool{
	intent.FieldQuantity:     true,
	intent.FieldPrice:        true,
	intent.FieldCostBasis:    true,
	intent.FieldFee:          true,
	intent.FieldFromQuantity: true,
	intent.FieldToQuantity:   true,
}

var symbolFields = map[string]bool{
	intent.FieldAsset:     true,
	intent.FieldSymbol:    true,
	intent.FieldFromAsset: true,
	intent.FieldToAsset:   true,
}

// symbol resolves a name through the alias table ("bitcoin" -> BTC) and
// upper-cases anything unknown.
func (m *Manager) symbol(word string) string {
	if m.vocab != nil {
		if s, ok := m.vocab.Symbol(word); ok {
			return s
		}
	}
	return strings.ToUpper(word)
}

func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	mult := decimal.NewFromInt(1)
	if n := len(s); n > 1 && (s[n-1] == 'k' || s[n-1] == 'K') {
		s = s[:n-1]
		mult = decimal.NewFromInt(1000)
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Decimal{}, false
	}
	return d.Mul(mult), true
}

// advance recomputes what is missing and picks the next action for the
// current intent.
func (m *Manager) advance() Action {
	s := &m.state
	s.Missing = intent.Missing(s.Intent, s.Collected)
	if len(s.Missing) > 0 {
		s.ConfirmationPending = false
		return m.clarify(s.Missing[0])
	}
	if s.Intent.RequiresConfirmation() {
		s.ConfirmationPending = true
		summary, details := command.Summary(s.Intent, s.Collected)
		return Confirm{
			Summary: summary,
			Command: command.Synthesize(s.Intent, s.Collected),
			Details: details,
		}
	}
	cmd := command.Synthesize(s.Intent, s.Collected)
	s.clearOperation()
	return Execute{Command: cmd}
}

func (m *Manager) clarify(field string) Clarify {
	c := Clarify{Question: Question(m.state.Intent, field), Field: field}
	if m.vocab != nil {
		c.Suggestions = m.vocab.Suggest(field)
	}
	return c
}

func confirmPrompt() Clarify {
	return Clarify{Question: MsgConfirmPrompt, Field: FieldConfirmation, Suggestions: []string{"y", "n"}}
}

func (m *Manager) reply(a Action) Action {
	m.state.addTurn("assistant", a.Text())
	return a
}
