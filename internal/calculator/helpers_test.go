package calculator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mmynk/tabsplit/internal/models"
)

const tolerance = 1e-9

func mustLedger(t *testing.T, participants []models.Participant, items []models.Item, charges []models.Charge, expenses []models.Expense) *models.Ledger {
	t.Helper()
	l, err := models.NewLedger(participants, items, charges, expenses)
	require.NoError(t, err)
	return l
}

func boolPtr(b bool) *bool { return &b }

// dinnerLedger is the D / Joe / Adam receipt: four taxable items, $4.40 of
// sales tax allocated by taxable base, D and Adam tipping 20% on base+tax.
func dinnerLedger(t *testing.T) *models.Ledger {
	t.Helper()
	return mustLedger(t,
		[]models.Participant{
			{ID: "d", Name: "D", TipPercent: 20, TipBasis: models.TipOnBaseAndTax, CashOnHand: 10, IsPayer: true},
			{ID: "joe", Name: "Joe", TipPercent: 0, TipBasis: models.TipOnBaseAndTax, CashOnHand: 20},
			{ID: "adam", Name: "Adam", TipPercent: 20, TipBasis: models.TipOnBaseAndTax},
		},
		[]models.Item{
			{ID: "burger", Description: "Burger", Price: 12, Taxable: true, OwnerIDs: []string{"joe"}},
			{ID: "pasta", Description: "Pasta", Price: 15, Taxable: true, OwnerIDs: []string{"d"}},
			{ID: "salad", Description: "Salad", Price: 8, Taxable: true, OwnerIDs: []string{"adam"}},
			{ID: "drinks", Description: "Drinks", Price: 9, Taxable: true, OwnerIDs: []string{"d", "joe", "adam"}},
		},
		[]models.Charge{
			{ID: "tax", Kind: models.ChargeTax, Label: "Sales Tax", Amount: 4.40, AllocateByTaxableBase: boolPtr(true)},
		},
		nil,
	)
}

func sumOwed(people []PersonAllocation) float64 {
	var sum float64
	for _, p := range people {
		sum += p.Owed
	}
	return sum
}
