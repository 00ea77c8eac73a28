package console

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/bdobrica/folio/internal/folio/dialogue"
)

func (c *Console) render(a dialogue.Action) {
	fmt.Fprint(c.out, Render(a))
}

// Render formats an action for the terminal.
func Render(a dialogue.Action) string {
	var b strings.Builder
	switch a := a.(type) {
	case dialogue.Clarify:
		fmt.Fprintf(&b, "? %s\n", a.Question)
		if len(a.Suggestions) > 0 {
			fmt.Fprintf(&b, "  (e.g. %s)\n", strings.Join(a.Suggestions, ", "))
		}
	case dialogue.Confirm:
		fmt.Fprintf(&b, "%s\n", a.Summary)
		width := 0
		for _, d := range a.Details {
			width = max(width, len(d.Key))
		}
		for _, d := range a.Details {
			fmt.Fprintf(&b, "  %-*s  %s\n", width+1, d.Key+":", d.Value)
		}
		fmt.Fprintf(&b, "  Command: %s\n", a.Command)
		b.WriteString("Proceed? [Y/n]\n")
	case dialogue.Execute:
		fmt.Fprintf(&b, "> %s\n", a.Command)
	case dialogue.Disambiguate:
		fmt.Fprintf(&b, "%s\n", a.Message)
		for i, o := range a.Options {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, o)
		}
	case nil:
	default:
		fmt.Fprintf(&b, "%s\n", a.Text())
	}
	return b.String()
}

func splitCommand(cmd string) ([]string, error) {
	args, err := shellquote.Split(cmd)
	if err != nil {
		return nil, fmt.Errorf("console: split %q: %w", cmd, err)
	}
	return args, nil
}
