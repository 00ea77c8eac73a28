package dialogue

import "github.com/bdobrica/folio/internal/folio/intent"

// Question is the prompt used to ask for field while collecting values for
// in. The same state always yields the same question.
func Question(in intent.Intent, field string) string {
	switch field {
	case intent.FieldQuantity:
		switch in {
		case intent.TxBuy:
			return "How much did you buy?"
		case intent.TxSell:
			return "How much did you sell?"
		}
		return "What quantity?"
	case intent.FieldPrice:
		switch in {
		case intent.TxBuy:
			return "What price did you pay per unit?"
		case intent.TxSell:
			return "What price did you sell at?"
		}
	case intent.FieldAccount:
		switch in {
		case intent.TxBuy:
			return "Which account did you buy on?"
		case intent.TxSell:
			return "Which account did you sell from?"
		}
		return "Which account?"
	case intent.FieldFromAccount:
		return "Which account to transfer from?"
	case intent.FieldToAccount:
		return "Which account to transfer to?"
	case intent.FieldAsset, intent.FieldSymbol:
		return "Which cryptocurrency?"
	case intent.FieldSymbols:
		return "Which cryptocurrency(s)?"
	case intent.FieldFromAsset:
		return "Which cryptocurrency are you swapping from?"
	case intent.FieldToAsset:
		return "Which cryptocurrency are you swapping to?"
	case intent.FieldFromQuantity:
		return "How much are you swapping?"
	case intent.FieldToQuantity:
		return "How much did you receive?"
	case intent.FieldName:
		if in == intent.AccountAdd {
			return "What name for the account?"
		}
		return "Which account?"
	case intent.FieldAccountType:
		return "What type? (exchange, hardware_wallet, software_wallet)"
	case intent.FieldCategory:
		return "Which category? (trading, cold-storage, hot-wallets)"
	case intent.FieldKey:
		return "Which setting?"
	case intent.FieldValue:
		return "What value?"
	}
	return "Please provide the missing information."
}
