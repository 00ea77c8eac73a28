package intent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind tags the value carried by an Entity.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindSymbols
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindSymbols:
		return "symbols"
	case KindBool:
		return "bool"
	default:
		return "string"
	}
}

// Entity is a named value extracted from an utterance. Exactly one of the
// payload fields is meaningful, selected by Kind. The zero Entity is an
// empty string.
type Entity struct {
	kind Kind
	str  string
	num  decimal.Decimal
	syms []string
	b    bool
}

// NewString returns a free-text entity.
func NewString(s string) Entity { return Entity{kind: KindString, str: s} }

// NewNumber returns a numeric entity.
func NewNumber(d decimal.Decimal) Entity { return Entity{kind: KindNumber, num: d} }

// NewSymbols returns a symbol-list entity. The input slice is copied.
func NewSymbols(syms ...string) Entity {
	out := make([]string, len(syms))
	copy(out, syms)
	return Entity{kind: KindSymbols, syms: out}
}

// NewBool returns a boolean entity.
func NewBool(b bool) Entity { return Entity{kind: KindBool, b: b} }

// Kind reports which payload e carries.
func (e Entity) Kind() Kind { return e.kind }

// AsString returns the textual form of e. Symbol lists are joined with a
// single space.
func (e Entity) AsString() string {
	return e.String()
}

// AsNumber returns e as a decimal. String entities that hold a plain number
// are converted; anything else reports false.
func (e Entity) AsNumber() (decimal.Decimal, bool) {
	switch e.kind {
	case KindNumber:
		return e.num, true
	case KindString:
		d, err := decimal.NewFromString(strings.TrimSpace(e.str))
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	}
	return decimal.Zero, false
}

// AsSymbols returns e as a symbol list. A string entity is treated as a
// single symbol.
func (e Entity) AsSymbols() []string {
	switch e.kind {
	case KindSymbols:
		out := make([]string, len(e.syms))
		copy(out, e.syms)
		return out
	case KindString:
		if e.str == "" {
			return nil
		}
		return []string{e.str}
	}
	return nil
}

// AsBool returns e as a boolean. String entities "true", "yes" and "1"
// count as true.
func (e Entity) AsBool() bool {
	switch e.kind {
	case KindBool:
		return e.b
	case KindString:
		switch strings.ToLower(strings.TrimSpace(e.str)) {
		case "true", "yes", "1":
			return true
		}
	}
	return false
}

func (e Entity) String() string {
	switch e.kind {
	case KindNumber:
		return e.num.String()
	case KindSymbols:
		return strings.Join(e.syms, " ")
	case KindBool:
		return fmt.Sprintf("%t", e.b)
	default:
		return e.str
	}
}

// Equal reports whether e and o carry the same kind and value.
func (e Entity) Equal(o Entity) bool {
	if e.kind != o.kind {
		return false
	}
	switch e.kind {
	case KindNumber:
		return e.num.Equal(o.num)
	case KindSymbols:
		if len(e.syms) != len(o.syms) {
			return false
		}
		for i := range e.syms {
			if e.syms[i] != o.syms[i] {
				return false
			}
		}
		return true
	case KindBool:
		return e.b == o.b
	default:
		return e.str == o.str
	}
}

// MarshalJSON renders numbers as JSON numbers, symbol lists as arrays, and
// the rest as their natural JSON type.
func (e Entity) MarshalJSON() ([]byte, error) {
	switch e.kind {
	case KindNumber:
		return []byte(e.num.String()), nil
	case KindSymbols:
		syms := e.syms
		if syms == nil {
			syms = []string{}
		}
		return json.Marshal(syms)
	case KindBool:
		return json.Marshal(e.b)
	default:
		return json.Marshal(e.str)
	}
}
