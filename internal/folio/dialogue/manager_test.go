package dialogue_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdobrica/folio/internal/folio/command"
	"github.com/bdobrica/folio/internal/folio/dialogue"
	"github.com/bdobrica/folio/internal/folio/extract"
	"github.com/bdobrica/folio/internal/folio/intent"
	"github.com/bdobrica/folio/internal/folio/vocab"
)

func newManager(seed dialogue.Seed) (*dialogue.Manager, *extract.Extractor) {
	v := vocab.Default()
	return dialogue.NewManager(seed, v), extract.New(v)
}

func TestProcess_ReadOnlyExecutesImmediately(t *testing.T) {
	m, x := newManager(dialogue.Seed{})

	a := m.Process(x.Extract("what's the price of bitcoin"))
	require.Equal(t, dialogue.KindExecute, a.Kind())
	assert.Equal(t, "price BTC", a.(dialogue.Execute).Command)
	assert.Equal(t, dialogue.PhaseIdle, m.Phase())
}

func TestProcess_BuyConfirmThenExecute(t *testing.T) {
	m, x := newManager(dialogue.Seed{})

	a := m.Process(x.Extract("I bought 0.1 btc at 95000 on Binance"))
	require.Equal(t, dialogue.KindConfirm, a.Kind())
	c := a.(dialogue.Confirm)
	assert.Equal(t, "Transaction: BUY", c.Summary)
	assert.Equal(t, `tx buy BTC 0.1 --account "Binance" --price 95000`, c.Command)
	assert.Equal(t, []command.Detail{
		{Key: "Asset", Value: "BTC"},
		{Key: "Quantity", Value: "0.1"},
		{Key: "Price", Value: "$95000.00"},
		{Key: "Account", Value: "Binance"},
		{Key: "Total", Value: "$9500.00"},
	}, c.Details)
	assert.Equal(t, dialogue.PhaseConfirming, m.Phase())

	a = m.HandleConfirmation("Y")
	require.Equal(t, dialogue.KindExecute, a.Kind())
	assert.Equal(t, c.Command, a.(dialogue.Execute).Command)
	assert.Equal(t, dialogue.PhaseIdle, m.Phase())
	assert.Empty(t, m.State().Collected)
}

func TestSlotFillingThenCancel(t *testing.T) {
	m, x := newManager(dialogue.Seed{})

	a := m.Process(x.Extract("I want to sell some eth"))
	require.Equal(t, dialogue.Clarify{Question: "How much did you sell?", Field: intent.FieldQuantity, Suggestions: []string{}}, a)
	assert.Equal(t, []string{intent.FieldQuantity, intent.FieldAccount, intent.FieldPrice}, m.State().Missing)

	a = m.Fill("2")
	require.Equal(t, dialogue.KindClarify, a.Kind())
	assert.Equal(t, "Which account did you sell from?", a.Text())

	a = m.Fill("Kraken")
	require.Equal(t, dialogue.KindClarify, a.Kind())
	assert.Equal(t, "What price did you sell at?", a.Text())

	a = m.Fill("3.5k")
	require.Equal(t, dialogue.KindConfirm, a.Kind())
	assert.Equal(t, `tx sell ETH 2 --account "Kraken" --price 3500`, a.(dialogue.Confirm).Command)

	a = m.HandleConfirmation("n")
	assert.Equal(t, dialogue.Cancel{Message: dialogue.MsgCancelled}, a)
	s := m.State()
	assert.Equal(t, dialogue.PhaseIdle, s.Phase())
	assert.Empty(t, s.Collected)
	assert.Empty(t, s.Missing)
	assert.False(t, s.ConfirmationPending)
	assert.Equal(t, "Kraken", s.LastAccount, "context survives a cancelled operation")
	assert.Equal(t, "ETH", s.LastAsset)
}

func TestFill_UnparseableAnswerRepeatsQuestion(t *testing.T) {
	m, x := newManager(dialogue.Seed{})
	m.Process(x.Extract("I want to sell some eth"))
	before := m.State()

	a := m.Fill("a couple")
	assert.Equal(t, "How much did you sell?", a.Text())
	after := m.State()
	assert.Equal(t, before.Collected, after.Collected)
	assert.Equal(t, before.Missing, after.Missing)

	a = m.Fill("   ")
	assert.Equal(t, "How much did you sell?", a.Text())
}

func TestSlotFillingConverges(t *testing.T) {
	answers := map[string]string{
		intent.FieldAsset:        "bitcoin",
		intent.FieldSymbol:       "sol",
		intent.FieldSymbols:      "btc, eth",
		intent.FieldQuantity:     "1,000",
		intent.FieldPrice:        "$50",
		intent.FieldAccount:      "Binance",
		intent.FieldFromAccount:  "Binance",
		intent.FieldToAccount:    "Ledger",
		intent.FieldFromAsset:    "eth",
		intent.FieldFromQuantity: "1",
		intent.FieldToAsset:      "sol",
		intent.FieldToQuantity:   "20",
		intent.FieldName:         "Vault",
		intent.FieldAccountType:  "hardware_wallet",
		intent.FieldCategory:     "cold-storage",
		intent.FieldKey:          "currency",
		intent.FieldValue:        "EUR",
	}
	for _, in := range intent.All() {
		if in.IsControl() || in == intent.Help {
			continue
		}
		t.Run(string(in), func(t *testing.T) {
			m, _ := newManager(dialogue.Seed{})
			a := m.Process(intent.NewResult(in, "go", 0.8, intent.SourceRules))

			required := len(in.RequiredEntities())
			turns := 0
			for a.Kind() == dialogue.KindClarify {
				require.LessOrEqual(t, turns, required)
				field := a.(dialogue.Clarify).Field
				answer, ok := answers[field]
				require.True(t, ok, field)
				a = m.Fill(answer)
				turns++
			}
			assert.Equal(t, required, turns)
			assert.Empty(t, m.State().Missing)
			if in.RequiresConfirmation() {
				require.Equal(t, dialogue.KindConfirm, a.Kind())
				a = m.HandleConfirmation("yes")
			}
			require.Equal(t, dialogue.KindExecute, a.Kind())
			assert.NotEmpty(t, a.(dialogue.Execute).Command)
		})
	}
}

func TestConfirmationGate(t *testing.T) {
	for _, in := range intent.All() {
		if !in.RequiresConfirmation() {
			continue
		}
		t.Run(string(in), func(t *testing.T) {
			m, _ := newManager(dialogue.Seed{LastAccount: "Binance"})
			r := intent.NewResult(in, "x", 0.9, intent.SourceCloud)
			for _, f := range in.RequiredEntities() {
				r.Entities[f] = intent.NewNumber(decimal.NewFromInt(1))
			}
			a := m.Process(r)
			require.Equal(t, dialogue.KindConfirm, a.Kind())

			a = m.HandleConfirmation("actually make it 50000")
			assert.Equal(t, dialogue.Clarify{Question: dialogue.MsgConfirmPrompt, Field: dialogue.FieldConfirmation, Suggestions: []string{"y", "n"}}, a)
			assert.Equal(t, dialogue.PhaseConfirming, m.Phase())

			a = m.HandleConfirmation("")
			assert.Equal(t, dialogue.KindExecute, a.Kind())
		})
	}
}

func TestHandleConfirmation_NothingPending(t *testing.T) {
	m, _ := newManager(dialogue.Seed{})
	assert.Equal(t, dialogue.Cancel{Message: dialogue.MsgNothingPending}, m.HandleConfirmation("y"))
	for _, w := range []string{"no", "CANCEL", "abort"} {
		assert.Equal(t, dialogue.Cancel{Message: dialogue.MsgNothingPending}, m.HandleConfirmation(w), w)
	}
}

func TestContextCarryover(t *testing.T) {
	m, x := newManager(dialogue.Seed{})

	m.Process(x.Extract("I bought 0.1 btc at 95000 on Binance"))
	m.HandleConfirmation("y")

	a := m.Process(x.Extract("I bought 1 eth at 3000"))
	require.Equal(t, dialogue.KindConfirm, a.Kind())
	assert.Equal(t, `tx buy ETH 1 --account "Binance" --price 3000`, a.(dialogue.Confirm).Command)
}

func TestSeedContextFillsAccount(t *testing.T) {
	m, x := newManager(dialogue.Seed{LastAccount: "Ledger"})
	a := m.Process(x.Extract("I bought 2 sol at 150"))
	require.Equal(t, dialogue.KindConfirm, a.Kind())
	assert.Contains(t, a.(dialogue.Confirm).Command, `--account "Ledger"`)
}

func TestTransferDoesNotUseAccountContext(t *testing.T) {
	m, x := newManager(dialogue.Seed{LastAccount: "Ledger"})

	a := m.Process(x.Extract("transfer"))
	require.Equal(t, dialogue.KindClarify, a.Kind())
	c := a.(dialogue.Clarify)
	assert.Equal(t, intent.FieldAsset, c.Field)
	assert.Equal(t, "Which cryptocurrency?", c.Question)
	assert.Equal(t, []string{"BTC", "ETH", "SOL"}, c.Suggestions)
	assert.Equal(t, intent.HoldingsMove, m.State().Intent)
	assert.Equal(t, []string{intent.FieldAsset, intent.FieldQuantity, intent.FieldFromAccount, intent.FieldToAccount}, m.State().Missing)
}

func TestControlIntentsStayIdle(t *testing.T) {
	m, x := newManager(dialogue.Seed{})

	a := m.Process(x.Extract("asdlkj qweh"))
	assert.Equal(t, dialogue.Clarify{
		Question:    dialogue.MsgUnclear,
		Field:       dialogue.FieldIntent,
		Suggestions: []string{"check prices", "view portfolio", "record a transaction"},
	}, a)
	assert.Equal(t, dialogue.PhaseIdle, m.Phase())

	a = m.Process(intent.NewResult(intent.Ambiguous, "eth", 0.4, intent.SourceCloud))
	assert.Equal(t, dialogue.Disambiguate{Message: dialogue.MsgAmbiguous, Options: []string{"Check price", "View holdings"}}, a)

	a = m.Process(intent.NewResult(intent.OutOfScope, "weather?", 0.9, intent.SourceCloud))
	assert.Equal(t, dialogue.KindOutOfScope, a.Kind())

	a = m.Process(x.Extract("help"))
	assert.Equal(t, dialogue.Respond{Message: dialogue.MsgHelp}, a)

	assert.Equal(t, dialogue.PhaseIdle, m.Phase())
	assert.Empty(t, m.State().Collected)
}

func TestControlIntentStillRecordsContext(t *testing.T) {
	m, _ := newManager(dialogue.Seed{})
	r := intent.NewResult(intent.Ambiguous, "kraken eth", 0.4, intent.SourceCloud)
	r.Entities[intent.FieldAccount] = intent.NewString("Kraken")
	r.Entities[intent.FieldAsset] = intent.NewString("ETH")

	m.Process(r)
	s := m.State()
	assert.Equal(t, "Kraken", s.LastAccount)
	assert.Equal(t, "ETH", s.LastAsset)
}

func TestInterrupt(t *testing.T) {
	m, x := newManager(dialogue.Seed{})
	assert.Equal(t, dialogue.Cancel{Message: dialogue.MsgNothingPending}, m.Interrupt())

	m.Process(x.Extract("I want to sell some eth"))
	require.Equal(t, dialogue.PhaseCollecting, m.Phase())
	assert.Equal(t, dialogue.Cancel{Message: dialogue.MsgCancelled}, m.Interrupt())
	assert.Equal(t, dialogue.PhaseIdle, m.Phase())
}

func TestNewIntentReplacesPartialOperation(t *testing.T) {
	m, x := newManager(dialogue.Seed{})
	m.Process(x.Extract("I want to sell some eth"))

	a := m.Process(x.Extract("show my portfolio"))
	assert.Equal(t, dialogue.Execute{Command: "portfolio"}, a)
	assert.Equal(t, dialogue.PhaseIdle, m.Phase())
}

func TestHandleEntityInput(t *testing.T) {
	m, _ := newManager(dialogue.Seed{})
	tests := []struct {
		field, in string
		want      intent.Entity
		ok        bool
	}{
		{intent.FieldQuantity, "1,500", intent.NewNumber(decimal.NewFromInt(1500)), true},
		{intent.FieldPrice, "$95k", intent.NewNumber(decimal.NewFromInt(95000)), true},
		{intent.FieldPrice, "2.5K", intent.NewNumber(decimal.NewFromInt(2500)), true},
		{intent.FieldFee, "0.0005", intent.NewNumber(decimal.RequireFromString("0.0005")), true},
		{intent.FieldQuantity, "lots", intent.Entity{}, false},
		{intent.FieldQuantity, "k", intent.Entity{}, false},
		{intent.FieldQuantity, "-3", intent.Entity{}, false},
		{intent.FieldSymbols, "btc, eth sol", intent.NewSymbols("BTC", "ETH", "SOL"), true},
		{intent.FieldSymbols, " , ", intent.Entity{}, false},
		{intent.FieldAsset, "ethereum", intent.NewString("ETH"), true},
		{intent.FieldAccount, " My Kraken ", intent.NewString("My Kraken"), true},
		{intent.FieldNotes, "", intent.Entity{}, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s=%q", tt.field, tt.in), func(t *testing.T) {
			got, ok := m.HandleEntityInput(tt.in, tt.field)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.True(t, tt.want.Equal(got), "got %s", got)
			}
		})
	}
}

func TestHistoryIsCapped(t *testing.T) {
	m, x := newManager(dialogue.Seed{})
	for i := 0; i < 8; i++ {
		m.Process(x.Extract(fmt.Sprintf("price btc %d", i)))
	}
	h := m.State().History
	require.Len(t, h, dialogue.MaxHistory)
	assert.Equal(t, "user", h[0].Role)
	assert.Equal(t, "price btc 3", h[0].Content)
	assert.Equal(t, dialogue.Turn{Role: "assistant", Content: "price BTC"}, h[len(h)-1])
}

func TestStateSnapshotIsIsolated(t *testing.T) {
	m, x := newManager(dialogue.Seed{})
	m.Process(x.Extract("I want to sell some eth"))

	s := m.State()
	s.Collected[intent.FieldQuantity] = intent.NewString("99")
	s.Missing[0] = "nope"

	fresh := m.State()
	assert.NotContains(t, fresh.Collected, intent.FieldQuantity)
	assert.Equal(t, intent.FieldQuantity, fresh.Missing[0])
}

func TestQuestion(t *testing.T) {
	assert.Equal(t, "How much did you buy?", dialogue.Question(intent.TxBuy, intent.FieldQuantity))
	assert.Equal(t, "What quantity?", dialogue.Question(intent.HoldingsAdd, intent.FieldQuantity))
	assert.Equal(t, "What price did you pay per unit?", dialogue.Question(intent.TxBuy, intent.FieldPrice))
	assert.Equal(t, "Which account?", dialogue.Question(intent.HoldingsRemove, intent.FieldAccount))
	assert.Equal(t, "Which account to transfer from?", dialogue.Question(intent.TxTransfer, intent.FieldFromAccount))
	assert.Equal(t, "What name for the account?", dialogue.Question(intent.AccountAdd, intent.FieldName))
	assert.Equal(t, "Please provide the missing information.", dialogue.Question(intent.TxBuy, "mystery"))
}
