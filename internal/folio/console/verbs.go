package console

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/bdobrica/folio/internal/folio/intent"
)

// commandBases lists the command prefixes the executor understands, such
// as "price" or "tx buy", built from the intent table.
var commandBases = func() [][]string {
	var out [][]string
	for _, in := range intent.All() {
		base, ok := in.Command()
		if !ok || in == intent.Help {
			continue
		}
		out = append(out, strings.Fields(base))
	}
	return out
}()

// naturalWords mark a line that starts like a command but reads as
// English ("price of bitcoin", "sync my exchanges").
var naturalWords = map[string]bool{
	"a": true, "all": true, "an": true, "at": true, "for": true, "from": true,
	"in": true, "is": true, "me": true, "my": true, "of": true, "on": true,
	"please": true, "some": true, "the": true, "to": true, "what": true,
}

// Structured reports whether line is a command to pass straight to the
// executor, returning its words. Anything else is natural language.
func Structured(line string) ([]string, bool) {
	words, err := shellquote.Split(line)
	if err != nil || len(words) == 0 {
		return nil, false
	}
	base := matchBase(words)
	if base == 0 {
		return nil, false
	}
	for _, w := range words[base:] {
		if strings.HasSuffix(w, "?") || naturalWords[strings.ToLower(w)] {
			return nil, false
		}
	}
	return words, true
}

// matchBase returns how many leading words form a known command, or 0.
func matchBase(words []string) int {
	best := 0
	for _, base := range commandBases {
		if len(base) > len(words) || len(base) <= best {
			continue
		}
		ok := true
		for i, w := range base {
			if !strings.EqualFold(words[i], w) {
				ok = false
				break
			}
		}
		if ok {
			best = len(base)
		}
	}
	// Group verbs alone ("tx", "holdings") are not commands.
	return best
}

func joinArgs(args []string) string {
	return shellquote.Join(args...)
}
