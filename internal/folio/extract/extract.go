// Package extract is the deterministic, model-free interpreter of last
// resort. It maps an utterance to an intent with an ordered list of keyword
// rules (first match wins) and pulls out whatever entities simple patterns
// can find. Fields it cannot find are reported missing, never guessed.
package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bdobrica/folio/internal/folio/intent"
	"github.com/bdobrica/folio/internal/folio/vocab"
)

// Fixed confidences per matched rule.
const (
	ConfidencePrice     = 0.6
	ConfidenceTrade     = 0.6
	ConfidenceTransfer  = 0.5
	ConfidencePortfolio = 0.7
	ConfidenceSync      = 0.6
	ConfidenceHelp      = 0.9
)

var (
	priceWords     = regexp.MustCompile(`\b(pric(?:e|es|ed|ing)|worth)\b`)
	buyWords       = regexp.MustCompile(`\b(bought|buy|buying|purchased)\b`)
	sellWords      = regexp.MustCompile(`\b(sold|sell|selling)\b`)
	transferWords  = regexp.MustCompile(`\b(transfer|move|send)\b`)
	portfolioWords = regexp.MustCompile(`\b(portfolio|holdings)\b|what do i have`)
	syncWords      = regexp.MustCompile(`\b(sync|refresh|update)\b`)

	tradeQuantity = regexp.MustCompile(`\b(?:bought|buy|sold|sell)\s+(\d+(?:\.\d+)?)\b`)

	pricePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:\bat|\bfor|@)\s*\$?(\d+(?:\.\d+)?)(k)?\b`),
		regexp.MustCompile(`\$(\d+(?:\.\d+)?)(k)?\b`),
		regexp.MustCompile(`\b(\d+(?:\.\d+)?)(k)?\s*(?:dollars?|usd|per)\b`),
	}

	onAccount = regexp.MustCompile(`(?i)\bon\s+(\S+)`)

	maxBareQuantity = decimal.NewFromInt(1_000_000)
	thousand        = decimal.NewFromInt(1000)
)

type symbolMatcher struct {
	re     *regexp.Regexp
	symbol string
}

// Extractor is safe for concurrent use; it holds only compiled patterns.
type Extractor struct {
	vocab    *vocab.Vocabulary
	symbols  []symbolMatcher
	accounts []*regexp.Regexp
	quantity *regexp.Regexp
}

// New compiles the patterns for v. A nil v uses vocab.Default().
func New(v *vocab.Vocabulary) *Extractor {
	if v == nil {
		v = vocab.Default()
	}
	e := &Extractor{vocab: v}
	aliases := make([]string, 0, len(v.Symbols))
	for _, a := range v.Symbols {
		q := regexp.QuoteMeta(a.Alias)
		e.symbols = append(e.symbols, symbolMatcher{
			re:     regexp.MustCompile(`(?:^|[^a-z])` + q + `\b`),
			symbol: a.Symbol,
		})
		aliases = append(aliases, q)
	}
	for _, acc := range v.Accounts {
		e.accounts = append(e.accounts, regexp.MustCompile(`\b`+regexp.QuoteMeta(acc)+`\b`))
	}
	if len(aliases) > 0 {
		e.quantity = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:` + strings.Join(aliases, "|") + `)\b`)
	}
	return e
}

// Extract interprets text. It is a pure function of its input.
func (e *Extractor) Extract(text string) *intent.ParseResult {
	lower := strings.ToLower(strings.TrimSpace(text))

	switch {
	case priceWords.MatchString(lower) || strings.HasPrefix(lower, "how much"):
		r := intent.NewResult(intent.PriceCheck, text, ConfidencePrice, intent.SourceRules)
		if syms := e.Symbols(lower); len(syms) > 0 {
			r.Entities[intent.FieldSymbols] = intent.NewSymbols(syms...)
		} else {
			r.Missing = append(r.Missing, intent.FieldSymbols)
		}
		return r

	case buyWords.MatchString(lower):
		return e.trade(intent.TxBuy, text, lower)

	case sellWords.MatchString(lower):
		return e.trade(intent.TxSell, text, lower)

	case transferWords.MatchString(lower):
		r := intent.NewResult(intent.HoldingsMove, text, ConfidenceTransfer, intent.SourceRules)
		r.Missing = intent.HoldingsMove.RequiredEntities()
		return r

	case portfolioWords.MatchString(lower):
		return intent.NewResult(intent.PortfolioView, text, ConfidencePortfolio, intent.SourceRules)

	case syncWords.MatchString(lower):
		return intent.NewResult(intent.Sync, text, ConfidenceSync, intent.SourceRules)

	case lower == "help" || lower == "?" || strings.Contains(lower, "what can you"):
		return intent.NewResult(intent.Help, text, ConfidenceHelp, intent.SourceRules)
	}

	return intent.UnclearResult(text, intent.SourceRules)
}

func (e *Extractor) trade(in intent.Intent, text, lower string) *intent.ParseResult {
	r := intent.NewResult(in, text, ConfidenceTrade, intent.SourceRules)

	if syms := e.Symbols(lower); len(syms) > 0 {
		r.Entities[intent.FieldAsset] = intent.NewString(syms[0])
	} else {
		r.Missing = append(r.Missing, intent.FieldAsset)
	}
	if q, ok := e.Quantity(lower); ok {
		r.Entities[intent.FieldQuantity] = intent.NewNumber(q)
	} else {
		r.Missing = append(r.Missing, intent.FieldQuantity)
	}
	if p, ok := Price(lower); ok {
		r.Entities[intent.FieldPrice] = intent.NewNumber(p)
	} else {
		r.Missing = append(r.Missing, intent.FieldPrice)
	}
	if acc, ok := e.Account(text); ok {
		r.Entities[intent.FieldAccount] = intent.NewString(acc)
	} else {
		r.Missing = append(r.Missing, intent.FieldAccount)
	}
	return r
}

// Symbols returns every known ticker mentioned in text, in alias-table
// order, without duplicates.
func (e *Extractor) Symbols(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	seen := make(map[string]bool)
	for _, m := range e.symbols {
		if !seen[m.symbol] && m.re.MatchString(lower) {
			seen[m.symbol] = true
			out = append(out, m.symbol)
		}
	}
	return out
}

// Quantity finds an amount: a number directly before a coin name, then a
// number directly after a trade verb, then the first bare number in
// (0, 1000000).
func (e *Extractor) Quantity(text string) (decimal.Decimal, bool) {
	lower := strings.ToLower(strings.ReplaceAll(text, ",", ""))
	if e.quantity != nil {
		if m := e.quantity.FindStringSubmatch(lower); m != nil {
			if d, err := decimal.NewFromString(m[1]); err == nil {
				return d, true
			}
		}
	}
	if m := tradeQuantity.FindStringSubmatch(lower); m != nil {
		if d, err := decimal.NewFromString(m[1]); err == nil {
			return d, true
		}
	}
	for _, word := range strings.Fields(lower) {
		d, err := decimal.NewFromString(word)
		if err != nil {
			continue
		}
		if d.IsPositive() && d.LessThan(maxBareQuantity) {
			return d, true
		}
	}
	return decimal.Zero, false
}

// Price finds a unit price written as "at 95000", "for $3.2k", "$120" or
// "120 usd". A k suffix on the number multiplies it by 1000.
func Price(text string) (decimal.Decimal, bool) {
	clean := strings.ToLower(strings.ReplaceAll(text, ",", ""))
	for _, re := range pricePatterns {
		m := re.FindStringSubmatch(clean)
		if m == nil {
			continue
		}
		d, err := decimal.NewFromString(m[1])
		if err != nil {
			continue
		}
		if m[2] != "" {
			d = d.Mul(thousand)
		}
		return d, true
	}
	return decimal.Zero, false
}

// Account finds a well-known account name, or failing that the word after
// "on" when it is longer than two characters.
func (e *Extractor) Account(text string) (string, bool) {
	lower := strings.ToLower(text)
	for i, re := range e.accounts {
		if re.MatchString(lower) {
			return vocab.DisplayAccount(e.vocab.Accounts[i]), true
		}
	}
	if m := onAccount.FindStringSubmatch(text); m != nil {
		acc := strings.TrimRight(m[1], ".,!?;:")
		if len(acc) > 2 {
			return acc, true
		}
	}
	return "", false
}
