// Package intent defines the closed vocabulary the natural-language engine
// can recognise: every Intent, the entity names it needs before it can run,
// and whether it mutates the ledger (and therefore needs confirmation).
//
// The tables in this file are the contract shared by the extractor, the
// dialogue state machine, and the command synthesizer. They are built at
// package initialisation and never modified afterwards, so they are safe to
// read from any goroutine.
package intent

import "strings"

// Intent identifies what the user wants the portfolio application to do.
// The string value is the dotted name used in model prompts and responses.
type Intent string

const (
	PriceCheck     Intent = "price.check"
	MarketView     Intent = "market.view"
	TxBuy          Intent = "tx.buy"
	TxSell         Intent = "tx.sell"
	TxTransfer     Intent = "tx.transfer"
	TxSwap         Intent = "tx.swap"
	PortfolioView  Intent = "portfolio.view"
	HoldingsList   Intent = "holdings.list"
	HoldingsAdd    Intent = "holdings.add"
	HoldingsRemove Intent = "holdings.remove"
	HoldingsMove   Intent = "holdings.move"
	AccountList    Intent = "account.list"
	AccountAdd     Intent = "account.add"
	AccountShow    Intent = "account.show"
	Sync           Intent = "sync"
	ConfigShow     Intent = "config.show"
	ConfigSet      Intent = "config.set"
	Help           Intent = "help"

	// Control intents never carry a command.
	Unclear    Intent = "unclear"
	Ambiguous  Intent = "ambiguous"
	OutOfScope Intent = "out_of_scope"
)

// Entity names. Keep these in lock-step with the command synthesizer.
const (
	FieldSymbols      = "symbols"
	FieldSymbol       = "symbol"
	FieldShow24h      = "show_24h"
	FieldAsset        = "asset"
	FieldQuantity     = "quantity"
	FieldPrice        = "price"
	FieldAccount      = "account"
	FieldFromAccount  = "from_account"
	FieldToAccount    = "to_account"
	FieldFromAsset    = "from_asset"
	FieldFromQuantity = "from_quantity"
	FieldToAsset      = "to_asset"
	FieldToQuantity   = "to_quantity"
	FieldCostBasis    = "cost_basis"
	FieldFee          = "fee"
	FieldNotes        = "notes"
	FieldName         = "name"
	FieldAccountType  = "account_type"
	FieldCategory     = "category"
	FieldByAccount    = "by_account"
	FieldByCategory   = "by_category"
	FieldKey          = "key"
	FieldValue        = "value"
	FieldOptions      = "options"
)

type definition struct {
	command     string
	label       string
	description string
	required    []string
	confirm     bool
}

var definitions = map[Intent]definition{
	PriceCheck: {
		command:     "price",
		description: "Get the current price of one or more cryptocurrencies",
		required:    []string{FieldSymbols},
	},
	MarketView: {
		command:     "market",
		description: "Detailed market data for one cryptocurrency",
		required:    []string{FieldSymbol},
	},
	TxBuy: {
		command:     "tx buy",
		label:       "BUY",
		description: "Record a buy transaction",
		required:    []string{FieldAsset, FieldQuantity, FieldAccount, FieldPrice},
		confirm:     true,
	},
	TxSell: {
		command:     "tx sell",
		label:       "SELL",
		description: "Record a sell transaction",
		required:    []string{FieldAsset, FieldQuantity, FieldAccount, FieldPrice},
		confirm:     true,
	},
	TxTransfer: {
		command:     "tx transfer",
		label:       "TRANSFER",
		description: "Transfer an asset between accounts",
		required:    []string{FieldAsset, FieldQuantity, FieldFromAccount, FieldToAccount},
		confirm:     true,
	},
	TxSwap: {
		command:     "tx swap",
		label:       "SWAP",
		description: "Swap one cryptocurrency for another",
		required:    []string{FieldFromAsset, FieldFromQuantity, FieldToAsset, FieldToQuantity, FieldAccount},
		confirm:     true,
	},
	PortfolioView: {
		command:     "portfolio",
		description: "View the portfolio, optionally filtered or grouped",
	},
	HoldingsList: {
		command:     "holdings list",
		description: "List holdings, optionally for one account",
	},
	HoldingsAdd: {
		command:     "holdings add",
		label:       "ADD HOLDINGS",
		description: "Add to a holding without recording a trade",
		required:    []string{FieldAsset, FieldQuantity, FieldAccount},
		confirm:     true,
	},
	HoldingsRemove: {
		command:     "holdings remove",
		label:       "REMOVE HOLDINGS",
		description: "Remove from a holding without recording a trade",
		required:    []string{FieldAsset, FieldQuantity, FieldAccount},
		confirm:     true,
	},
	HoldingsMove: {
		command:     "holdings move",
		label:       "MOVE HOLDINGS",
		description: "Move holdings between accounts",
		required:    []string{FieldAsset, FieldQuantity, FieldFromAccount, FieldToAccount},
		confirm:     true,
	},
	AccountList: {
		command:     "account list",
		description: "List accounts",
	},
	AccountAdd: {
		command:     "account add",
		label:       "ADD ACCOUNT",
		description: "Add an exchange or wallet account",
		required:    []string{FieldName, FieldAccountType, FieldCategory},
		confirm:     true,
	},
	AccountShow: {
		command:     "account show",
		description: "Show one account",
		required:    []string{FieldName},
	},
	Sync: {
		command:     "sync",
		description: "Sync balances from exchanges",
	},
	ConfigShow: {
		command:     "config show",
		description: "Show configuration",
	},
	ConfigSet: {
		command:     "config set",
		label:       "SET CONFIG",
		description: "Change a configuration value",
		required:    []string{FieldKey, FieldValue},
		confirm:     true,
	},
	Help: {
		command:     "help",
		description: "The user needs help",
	},
	Unclear: {
		description: "The request could not be understood",
	},
	Ambiguous: {
		description: "The input could mean multiple things",
	},
	OutOfScope: {
		description: "The request is not about crypto portfolio management",
	},
}

// ordered is the presentation order used for prompts and listings.
var ordered = []Intent{
	PriceCheck, MarketView,
	TxBuy, TxSell, TxTransfer, TxSwap,
	PortfolioView,
	HoldingsList, HoldingsAdd, HoldingsRemove, HoldingsMove,
	AccountList, AccountAdd, AccountShow,
	Sync, ConfigShow, ConfigSet,
	Help, Unclear, Ambiguous, OutOfScope,
}

// All returns every known intent in presentation order.
func All() []Intent {
	out := make([]Intent, len(ordered))
	copy(out, ordered)
	return out
}

// Known reports whether i is part of the vocabulary.
func (i Intent) Known() bool {
	_, ok := definitions[i]
	return ok
}

// RequiredEntities returns the ordered entity names i needs. The returned
// slice is a copy.
func (i Intent) RequiredEntities() []string {
	req := definitions[i].required
	out := make([]string, len(req))
	copy(out, req)
	return out
}

// Requires reports whether field is one of i's required entities.
func (i Intent) Requires(field string) bool {
	for _, f := range definitions[i].required {
		if f == field {
			return true
		}
	}
	return false
}

// RequiresConfirmation is true for every intent that mutates the ledger or
// configuration.
func (i Intent) RequiresConfirmation() bool {
	return definitions[i].confirm
}

// Command returns the CLI verb for i, or false for control intents.
func (i Intent) Command() (string, bool) {
	cmd := definitions[i].command
	return cmd, cmd != ""
}

// IsControl reports whether i is one of the control intents (unclear,
// ambiguous, out of scope) that never produce a command.
func (i Intent) IsControl() bool {
	switch i {
	case Unclear, Ambiguous, OutOfScope:
		return true
	}
	return false
}

// Label is the upper-case action name shown in confirmation summaries.
func (i Intent) Label() string {
	if l := definitions[i].label; l != "" {
		return l
	}
	return "EXECUTE"
}

// Description is a one-line explanation used in model prompts.
func (i Intent) Description() string {
	return definitions[i].description
}

func (i Intent) String() string { return string(i) }

// Missing computes the required entities of i that are absent from
// collected, in required-entity order. It is the only way missing-entity
// lists are derived.
func Missing(i Intent, collected map[string]Entity) []string {
	var out []string
	for _, f := range definitions[i].required {
		if _, ok := collected[f]; !ok {
			out = append(out, f)
		}
	}
	return out
}

// aliases maps the names models tend to produce onto the vocabulary.
var aliases = map[string]Intent{
	"price.check": PriceCheck, "price_check": PriceCheck, "check_price": PriceCheck, "price": PriceCheck,
	"market.view": MarketView, "market_view": MarketView, "market": MarketView,
	"tx.buy": TxBuy, "tx_buy": TxBuy, "buy": TxBuy, "record_buy": TxBuy,
	"tx.sell": TxSell, "tx_sell": TxSell, "sell": TxSell, "record_sell": TxSell,
	"tx.transfer": TxTransfer, "tx_transfer": TxTransfer, "transfer": TxTransfer,
	"tx.swap": TxSwap, "tx_swap": TxSwap, "swap": TxSwap,
	"portfolio.view": PortfolioView, "portfolio_view": PortfolioView, "view_portfolio": PortfolioView, "portfolio": PortfolioView,
	"holdings.list": HoldingsList, "holdings_list": HoldingsList, "list_holdings": HoldingsList, "holdings": HoldingsList,
	"holdings.add": HoldingsAdd, "holdings_add": HoldingsAdd, "add_holdings": HoldingsAdd,
	"holdings.remove": HoldingsRemove, "holdings_remove": HoldingsRemove,
	"holdings.move": HoldingsMove, "holdings_move": HoldingsMove, "move_holdings": HoldingsMove,
	"account.list": AccountList, "account_list": AccountList, "list_accounts": AccountList,
	"account.add": AccountAdd, "account_add": AccountAdd, "add_account": AccountAdd,
	"account.show": AccountShow, "account_show": AccountShow, "show_account": AccountShow,
	"sync": Sync, "sync_exchange": Sync,
	"config.show": ConfigShow, "config_show": ConfigShow,
	"config.set": ConfigSet, "config_set": ConfigSet,
	"help":         Help,
	"unclear":      Unclear,
	"ambiguous":    Ambiguous,
	"out_of_scope": OutOfScope, "out-of-scope": OutOfScope,
}

// Lookup maps a model-produced intent name to an Intent. Unknown names map
// to Unclear.
func Lookup(name string) Intent {
	if i, ok := aliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return i
	}
	return Unclear
}
