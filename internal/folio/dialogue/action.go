package dialogue

import "github.com/bdobrica/folio/internal/folio/command"

// Kind discriminates the Action variants.
type Kind string

const (
	KindClarify      Kind = "clarify"
	KindConfirm      Kind = "confirm"
	KindExecute      Kind = "execute"
	KindCancel       Kind = "cancel"
	KindDisambiguate Kind = "disambiguate"
	KindRespond      Kind = "respond"
	KindOutOfScope   Kind = "out_of_scope"
)

// Action is what the host should do after a transition. Each variant carries
// exactly what a renderer needs; Text is the line recorded in the turn
// history for the assistant side.
type Action interface {
	Kind() Kind
	Text() string
}

// Clarify asks the user for one missing value.
type Clarify struct {
	Question    string   `json:"question"`
	Field       string   `json:"field"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Confirm asks the user to approve a synthesized command that has not run.
type Confirm struct {
	Summary string           `json:"summary"`
	Command string           `json:"command"`
	Details []command.Detail `json:"details"`
}

// Execute tells the host to run Command now.
type Execute struct {
	Command string `json:"command"`
}

// Cancel reports that the operation was abandoned and state cleared.
type Cancel struct {
	Message string `json:"message"`
}

// Disambiguate lists candidate interpretations. No state is captured.
type Disambiguate struct {
	Message string   `json:"message"`
	Options []string `json:"options"`
}

// Respond is a static informational reply.
type Respond struct {
	Message string `json:"message"`
}

// OutOfScope rejects an utterance outside the portfolio domain.
type OutOfScope struct {
	Message string `json:"message"`
}

func (Clarify) Kind() Kind      { return KindClarify }
func (Confirm) Kind() Kind      { return KindConfirm }
func (Execute) Kind() Kind      { return KindExecute }
func (Cancel) Kind() Kind       { return KindCancel }
func (Disambiguate) Kind() Kind { return KindDisambiguate }
func (Respond) Kind() Kind      { return KindRespond }
func (OutOfScope) Kind() Kind   { return KindOutOfScope }

func (a Clarify) Text() string      { return a.Question }
func (a Confirm) Text() string      { return a.Summary }
func (a Execute) Text() string      { return a.Command }
func (a Cancel) Text() string       { return a.Message }
func (a Disambiguate) Text() string { return a.Message }
func (a Respond) Text() string      { return a.Message }
func (a OutOfScope) Text() string   { return a.Message }
