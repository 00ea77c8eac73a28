// Package command renders a resolved intent as the structured command line
// the portfolio CLI accepts, plus the human-readable summary shown before a
// mutating command runs.
//
// The argument order per intent is the contract with the executor; change it
// only together with the CLI.
package command

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bdobrica/folio/internal/folio/intent"
)

// Entities is the collected entity set for one operation.
type Entities = map[string]intent.Entity

// Synthesize renders in with entities. Absent optional entities omit their
// flag; control intents render as the empty string.
func Synthesize(in intent.Intent, entities Entities) string {
	base, ok := in.Command()
	if !ok {
		return ""
	}
	b := &builder{parts: []string{base}, e: entities}

	switch in {
	case intent.PriceCheck:
		if e, ok := entities[intent.FieldSymbols]; ok {
			b.parts = append(b.parts, e.AsSymbols()...)
		}

	case intent.MarketView:
		b.word(intent.FieldSymbol)
		b.boolFlag("--24h", intent.FieldShow24h)

	case intent.TxBuy, intent.TxSell:
		b.word(intent.FieldAsset)
		b.number(intent.FieldQuantity)
		b.quotedFlag("--account", intent.FieldAccount)
		b.numberFlag("--price", intent.FieldPrice)
		b.numberFlag("--fee", intent.FieldFee)
		b.quotedFlag("--notes", intent.FieldNotes)

	case intent.TxTransfer, intent.HoldingsMove:
		b.word(intent.FieldAsset)
		b.number(intent.FieldQuantity)
		b.quotedFlag("--from", intent.FieldFromAccount)
		b.quotedFlag("--to", intent.FieldToAccount)
		b.numberFlag("--fee", intent.FieldFee)

	case intent.TxSwap:
		b.word(intent.FieldFromAsset)
		b.number(intent.FieldFromQuantity)
		b.word(intent.FieldToAsset)
		b.number(intent.FieldToQuantity)
		b.quotedFlag("--account", intent.FieldAccount)
		b.numberFlag("--fee", intent.FieldFee)

	case intent.HoldingsAdd:
		b.word(intent.FieldAsset)
		b.number(intent.FieldQuantity)
		b.quotedFlag("--account", intent.FieldAccount)
		b.numberFlag("--cost", intent.FieldCostBasis)

	case intent.HoldingsRemove:
		b.word(intent.FieldAsset)
		b.number(intent.FieldQuantity)
		b.quotedFlag("--account", intent.FieldAccount)

	case intent.PortfolioView:
		b.quotedFlag("--account", intent.FieldAccount)
		b.quotedFlag("--category", intent.FieldCategory)
		b.boolFlag("--by-account", intent.FieldByAccount)
		b.boolFlag("--by-category", intent.FieldByCategory)

	case intent.HoldingsList, intent.Sync:
		b.quotedFlag("--account", intent.FieldAccount)

	case intent.AccountAdd:
		b.quoted(intent.FieldName)
		b.flag("--type", intent.FieldAccountType)
		b.quotedFlag("--category", intent.FieldCategory)

	case intent.AccountShow:
		b.quoted(intent.FieldName)

	case intent.ConfigSet:
		b.word(intent.FieldKey)
		b.quoted(intent.FieldValue)
	}

	return strings.Join(b.parts, " ")
}

type builder struct {
	parts []string
	e     Entities
}

func (b *builder) get(field string) (intent.Entity, bool) {
	e, ok := b.e[field]
	if !ok || e.String() == "" {
		return intent.Entity{}, false
	}
	return e, true
}

func (b *builder) word(field string) {
	if e, ok := b.get(field); ok {
		b.parts = append(b.parts, e.String())
	}
}

func (b *builder) quoted(field string) {
	if e, ok := b.get(field); ok {
		b.parts = append(b.parts, Quote(e.String()))
	}
}

func (b *builder) number(field string) {
	if e, ok := b.get(field); ok {
		b.parts = append(b.parts, formatNumber(e))
	}
}

func (b *builder) flag(name, field string) {
	if e, ok := b.get(field); ok {
		b.parts = append(b.parts, name, e.String())
	}
}

func (b *builder) quotedFlag(name, field string) {
	if e, ok := b.get(field); ok {
		b.parts = append(b.parts, name, Quote(e.String()))
	}
}

func (b *builder) numberFlag(name, field string) {
	if e, ok := b.get(field); ok {
		b.parts = append(b.parts, name, formatNumber(e))
	}
}

func (b *builder) boolFlag(name, field string) {
	if e, ok := b.e[field]; ok && e.AsBool() {
		b.parts = append(b.parts, name)
	}
}

func formatNumber(e intent.Entity) string {
	if d, ok := e.AsNumber(); ok {
		return d.String()
	}
	return e.String()
}

// Quote wraps s in double quotes, escaping embedded quotes and backslashes.
func Quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}

// Total returns quantity × price when both are numeric.
func Total(entities Entities) (decimal.Decimal, bool) {
	q, ok := entities[intent.FieldQuantity]
	if !ok {
		return decimal.Zero, false
	}
	p, ok := entities[intent.FieldPrice]
	if !ok {
		return decimal.Zero, false
	}
	qd, ok := q.AsNumber()
	if !ok {
		return decimal.Zero, false
	}
	pd, ok := p.AsNumber()
	if !ok {
		return decimal.Zero, false
	}
	return qd.Mul(pd), true
}
