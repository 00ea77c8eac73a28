package command

import (
	"github.com/bdobrica/folio/internal/folio/intent"
)

// Detail is one labelled line of a confirmation summary.
type Detail struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type summaryField struct {
	label string
	field string
	money bool
}

var summaryFields = []summaryField{
	{label: "Asset", field: intent.FieldAsset},
	{label: "Quantity", field: intent.FieldQuantity},
	{label: "Price", field: intent.FieldPrice, money: true},
	{label: "Account", field: intent.FieldAccount},
	{label: "From", field: intent.FieldFromAccount},
	{label: "To", field: intent.FieldToAccount},
	{label: "Sell", field: intent.FieldFromAsset},
	{label: "Sell quantity", field: intent.FieldFromQuantity},
	{label: "Buy", field: intent.FieldToAsset},
	{label: "Buy quantity", field: intent.FieldToQuantity},
	{label: "Cost basis", field: intent.FieldCostBasis, money: true},
	{label: "Fee", field: intent.FieldFee, money: true},
	{label: "Name", field: intent.FieldName},
	{label: "Type", field: intent.FieldAccountType},
	{label: "Category", field: intent.FieldCategory},
	{label: "Key", field: intent.FieldKey},
	{label: "Value", field: intent.FieldValue},
}

// Summary describes the pending operation: a headline such as
// "Transaction: BUY" and the collected values in a fixed order. Buy and
// sell also get a computed Total.
func Summary(in intent.Intent, entities Entities) (string, []Detail) {
	var details []Detail
	for _, sf := range summaryFields {
		e, ok := entities[sf.field]
		if !ok || e.String() == "" {
			continue
		}
		value := e.String()
		if sf.money {
			if d, ok := e.AsNumber(); ok {
				value = "$" + d.StringFixed(2)
			}
		}
		details = append(details, Detail{Key: sf.label, Value: value})
	}

	if in == intent.TxBuy || in == intent.TxSell {
		if total, ok := Total(entities); ok {
			details = append(details, Detail{Key: "Total", Value: "$" + total.StringFixed(2)})
		}
	}

	return "Transaction: " + in.Label(), details
}
