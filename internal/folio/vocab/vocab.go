// Package vocab holds the static word lists used to recognise assets and
// accounts in free text, plus the example values offered when the engine
// asks for a missing field.
//
// The defaults are embedded from vocab.yaml. A user file with the same shape
// can be layered on top with Load.
package vocab

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed vocab.yaml
var defaultYAML []byte

// Alias maps a lower-case word to a ticker symbol.
type Alias struct {
	Alias  string `yaml:"alias"`
	Symbol string `yaml:"symbol"`
}

// Vocabulary is read-only after construction and may be shared between
// sessions.
type Vocabulary struct {
	Symbols     []Alias             `yaml:"symbols"`
	Accounts    []string            `yaml:"accounts"`
	Suggestions map[string][]string `yaml:"suggestions"`
}

// Default returns a fresh copy of the embedded vocabulary.
func Default() *Vocabulary {
	v, err := parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("vocab: embedded vocabulary is invalid: %v", err))
	}
	return v
}

// Load returns the embedded vocabulary overlaid with the file at path.
// Aliases already present are re-pointed, new aliases are appended, accounts
// are merged, and suggestion lists replace the defaults per field.
func Load(path string) (*Vocabulary, error) {
	base := Default()
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vocab: read %s: %w", path, err)
	}
	extra, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("vocab: %s: %w", path, err)
	}
	base.merge(extra)
	return base, nil
}

func parse(data []byte) (*Vocabulary, error) {
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	for i, a := range v.Symbols {
		if a.Alias == "" || a.Symbol == "" {
			return nil, fmt.Errorf("symbols[%d]: alias and symbol are required", i)
		}
		v.Symbols[i] = Alias{Alias: strings.ToLower(a.Alias), Symbol: strings.ToUpper(a.Symbol)}
	}
	for i, acc := range v.Accounts {
		v.Accounts[i] = strings.ToLower(strings.TrimSpace(acc))
	}
	if v.Suggestions == nil {
		v.Suggestions = map[string][]string{}
	}
	return &v, nil
}

func (v *Vocabulary) merge(o *Vocabulary) {
	for _, a := range o.Symbols {
		replaced := false
		for i := range v.Symbols {
			if v.Symbols[i].Alias == a.Alias {
				v.Symbols[i].Symbol = a.Symbol
				replaced = true
				break
			}
		}
		if !replaced {
			v.Symbols = append(v.Symbols, a)
		}
	}
	for _, acc := range o.Accounts {
		if !v.IsKnownAccount(acc) {
			v.Accounts = append(v.Accounts, acc)
		}
	}
	for field, s := range o.Suggestions {
		v.Suggestions[field] = s
	}
}

// Symbol resolves an alias to its ticker. Unknown words are returned
// upper-cased with ok=false.
func (v *Vocabulary) Symbol(word string) (string, bool) {
	w := strings.ToLower(strings.TrimSpace(word))
	for _, a := range v.Symbols {
		if a.Alias == w {
			return a.Symbol, true
		}
	}
	return strings.ToUpper(w), false
}

// IsKnownAccount reports whether name is one of the well-known account
// names, ignoring case.
func (v *Vocabulary) IsKnownAccount(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, acc := range v.Accounts {
		if acc == n {
			return true
		}
	}
	return false
}

// Suggest returns the example values for field. The result is a copy and
// may be empty.
func (v *Vocabulary) Suggest(field string) []string {
	s := v.Suggestions[field]
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// DisplayAccount capitalises the first letter of a known account name.
func DisplayAccount(name string) string {
	r, n := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[n:]
}
