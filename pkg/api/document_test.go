package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tabsplit/internal/calculator"
	"github.com/mmynk/tabsplit/internal/models"
)

const dinnerJSON = `{
  "participants": [
    {"id": "d", "name": "D", "tipPercent": 20, "cashOnHand": 10, "isPayer": true},
    {"id": "joe", "name": "Joe", "tipPercent": 0, "cashOnHand": 20},
    {"id": "adam", "name": "Adam", "tipPercent": 20, "cashOnHand": 0}
  ],
  "items": [
    {"id": "burger", "description": "Burger", "price": 12, "taxable": true, "ownerIds": ["joe"]},
    {"id": "pasta", "description": "Pasta", "price": 15, "taxable": true, "ownerIds": ["d"]},
    {"id": "salad", "description": "Salad", "price": 8, "taxable": true, "ownerIds": ["adam"]},
    {"id": "drinks", "description": "Drinks", "price": 9, "taxable": true, "ownerIds": ["d", "joe", "adam"]}
  ],
  "charges": [
    {"id": "tax", "kind": "tax", "label": "Sales tax", "amount": 4.4}
  ],
  "paymentMode": "cashOnly"
}`

func TestDecodeDocument(t *testing.T) {
	doc, err := DecodeDocument([]byte(dinnerJSON))
	require.NoError(t, err)

	assert.Len(t, doc.Participants, 3)
	assert.Equal(t, "cashOnly", doc.PaymentMode)
	assert.Nil(t, doc.Charges[0].AllocateByTaxableBase)

	ledger, err := doc.Ledger()
	require.NoError(t, err)
	assert.Equal(t, models.TipOnBaseAndTax, ledger.Participants()[0].TipBasis)

	_, err = DecodeDocument([]byte(`{"participants": 3}`))
	assert.Error(t, err)
}

func TestDocument_RoundTrip(t *testing.T) {
	no := false
	doc := &Document{
		Participants: []Participant{
			{ID: "a", Name: "Ann", TipPercent: 12.5, TipBasis: "base", CashOnHand: 7.25, IsPayer: true},
			{ID: "b", Name: "Ben", TipBasis: "base+tax"},
		},
		Items: []Item{{ID: "x", Description: "Pho", Price: 13.37, Taxable: true, OwnerIDs: []string{"a", "b"}}},
		Charges: []Charge{
			{ID: "t", Kind: "tax", Amount: 1.1, AllocateByTaxableBase: &no},
			{ID: "f", Kind: "fee", Label: "Service", Amount: 2, SplitEvenly: true},
		},
		Expenses: []Expense{{
			ID: "cab", Amount: 30, PayerID: "b", ParticipantIDs: []string{"a", "b"},
			SplitMode:  "custom",
			Shares:     []Share{{ParticipantID: "a", Percent: 70}, {ParticipantID: "b", Percent: 30}},
			Surcharges: []Surcharge{{Kind: "tip", Mode: "percent", Value: 10}},
		}},
		PaymentMode:      "cardAllowed",
		SettlementPolicy: "inputOrder",
	}

	data, err := EncodeDocument(doc)
	require.NoError(t, err)
	decoded, err := DecodeDocument(data)
	require.NoError(t, err)
	assert.Equal(t, doc, decoded)

	// Converting through a ledger keeps the document intact.
	ledger, err := decoded.Ledger()
	require.NoError(t, err)
	opts := decoded.Options(calculator.Options{})
	assert.Equal(t, doc, NewDocument(ledger, opts))
}

func TestDocument_Options(t *testing.T) {
	defaults := calculator.Options{PaymentMode: calculator.CashOnly, SettlementPolicy: calculator.InputOrder}

	assert.Equal(t, defaults, (&Document{}).Options(defaults))
	assert.Equal(t,
		calculator.Options{PaymentMode: calculator.CardAllowed, SettlementPolicy: calculator.InputOrder},
		(&Document{PaymentMode: "cardAllowed"}).Options(defaults))
}

func TestDocument_LedgerRejectsUnknownOwner(t *testing.T) {
	doc := &Document{
		Participants: []Participant{{ID: "a"}},
		Items:        []Item{{ID: "x", Price: 1, OwnerIDs: []string{"ghost"}}},
	}
	_, err := doc.Ledger()
	assert.ErrorIs(t, err, models.ErrUnknownParticipant)

	p := NewProblem(err)
	require.NotNil(t, p)
	assert.Equal(t, "unknownParticipant", p.Kind)
	assert.Contains(t, p.Message, "ghost")

	p = NewProblem(&models.ValidationError{Kind: models.ErrSelfTransfer, Ref: "recorded[0] d"})
	require.NotNil(t, p)
	assert.Equal(t, "selfTransfer", p.Kind)
}

func TestNewResult_RoundsToCents(t *testing.T) {
	doc, err := DecodeDocument([]byte(dinnerJSON))
	require.NoError(t, err)
	ledger, err := doc.Ledger()
	require.NoError(t, err)
	computed, err := calculator.Compute(ledger, doc.Options(calculator.Options{}))
	require.NoError(t, err)

	res := NewResult(computed)
	assert.Equal(t, 54.78, res.Totals.GrandTotal)
	assert.Equal(t, 24.78, res.ShortfallToCollect)
	assert.Equal(t, "d", res.PayerID)

	owed := map[string]float64{}
	for _, p := range res.PerParticipant {
		owed[p.ID] = p.Owed
	}
	assert.Equal(t, map[string]float64{"d": 23.76, "joe": 16.5, "adam": 14.52}, owed)

	assert.Equal(t, []Transfer{
		{FromID: "adam", ToID: "d", Amount: 11.02},
		{FromID: "adam", ToID: "joe", Amount: 3.5},
	}, res.Transfers)

	// Empty lists are sent as [] rather than null.
	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"warnings":[]`)
}
