package nlp_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bdobrica/folio/internal/folio/intent"
	"github.com/bdobrica/folio/internal/folio/nlp"
)

func TestCatalogueListsEveryIntent(t *testing.T) {
	cat := nlp.Catalogue()
	for _, in := range intent.All() {
		assert.Contains(t, cat, "- "+string(in)+":")
	}
	assert.Contains(t, cat, "tx.buy: Record a buy transaction (entities: asset, quantity, account, price, fee?, notes?)")
	assert.Contains(t, cat, "holdings.list: List holdings, optionally for one account (entities: account?)")
}

func TestContextBlock(t *testing.T) {
	assert.Empty(t, nlp.ContextBlock(nlp.DialogueContext{}))

	block := nlp.ContextBlock(nlp.DialogueContext{
		LastAccount: "Ledger",
		LastAsset:   "ETH",
		Collected: map[string]intent.Entity{
			intent.FieldQuantity: intent.NewString("2"),
			intent.FieldAsset:    intent.NewString("ETH"),
		},
	})
	assert.Equal(t, "\n\nCONTEXT:\nLast used account: Ledger\nLast mentioned asset: ETH\nAlready collected: asset: ETH, quantity: 2", block)
}

func TestSystemPrompt(t *testing.T) {
	p := nlp.SystemPrompt(nlp.DialogueContext{LastAccount: "Kraken"})
	assert.True(t, strings.HasSuffix(p, "Last used account: Kraken"))
	assert.Contains(t, p, "RESPOND WITH JSON ONLY")
	assert.NotContains(t, p, "%!")
}
