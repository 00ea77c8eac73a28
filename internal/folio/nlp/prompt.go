package nlp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bdobrica/folio/internal/folio/intent"
)

// optionalEntities lists entities a model may fill that are not required.
var optionalEntities = map[intent.Intent][]string{
	intent.MarketView:    {intent.FieldShow24h},
	intent.TxBuy:         {intent.FieldFee, intent.FieldNotes},
	intent.TxSell:        {intent.FieldFee, intent.FieldNotes},
	intent.TxTransfer:    {intent.FieldFee},
	intent.PortfolioView: {intent.FieldAccount, intent.FieldCategory, intent.FieldByAccount, intent.FieldByCategory},
	intent.HoldingsList:  {intent.FieldAccount},
	intent.HoldingsAdd:   {intent.FieldCostBasis},
	intent.Sync:          {intent.FieldAccount},
}

// Catalogue renders the intent vocabulary for the system prompt, one intent
// per line in presentation order.
func Catalogue() string {
	var sb strings.Builder
	for _, in := range intent.All() {
		fmt.Fprintf(&sb, "- %s: %s", in, in.Description())
		var ents []string
		ents = append(ents, in.RequiredEntities()...)
		for _, opt := range optionalEntities[in] {
			ents = append(ents, opt+"?")
		}
		if len(ents) > 0 {
			fmt.Fprintf(&sb, " (entities: %s)", strings.Join(ents, ", "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

const systemPromptTmpl = `You are a crypto portfolio assistant that parses natural language into structured commands.
You NEVER execute anything; you only describe what the user asked for.

TASK: Analyze the user input and extract:
1. intent: the action the user wants to perform
2. entities: structured data extracted from the input
3. missing: required entities that were not provided

AVAILABLE INTENTS:
%s
ENTITY NORMALIZATION:
- Crypto symbols are uppercase tickers: "bitcoin" -> "BTC", "ethereum" -> "ETH"
- Account names preserve case
- Numbers are JSON numbers: "0.5", "half" -> 0.5, "1k" -> 1000
- symbols is always an array of tickers

RESPOND WITH JSON ONLY:
{
  "intent": "tx.buy",
  "entities": {"asset": "BTC", "quantity": 0.1, "account": "Binance", "price": 95000},
  "missing": [],
  "confidence": 0.95
}

RULES:
- If required information is missing, list it in "missing"; never invent values
- confidence is between 0.0 and 1.0
- Use "ambiguous" when the input could mean several things
- Use "out_of_scope" for anything that is not crypto portfolio management%s`

// SystemPrompt builds the full system prompt, including the context block
// for dctx when it carries anything.
func SystemPrompt(dctx DialogueContext) string {
	return fmt.Sprintf(systemPromptTmpl, Catalogue(), ContextBlock(dctx))
}

// ContextBlock summarises the session state a model may use to resolve
// references like "same account". Empty when there is nothing to say.
func ContextBlock(dctx DialogueContext) string {
	var parts []string
	if dctx.LastAccount != "" {
		parts = append(parts, "Last used account: "+dctx.LastAccount)
	}
	if dctx.LastAsset != "" {
		parts = append(parts, "Last mentioned asset: "+dctx.LastAsset)
	}
	if len(dctx.Collected) > 0 {
		keys := make([]string, 0, len(dctx.Collected))
		for k := range dctx.Collected {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, k+": "+dctx.Collected[k].String())
		}
		parts = append(parts, "Already collected: "+strings.Join(pairs, ", "))
	}
	if len(parts) == 0 {
		return ""
	}
	return "\n\nCONTEXT:\n" + strings.Join(parts, "\n")
}
