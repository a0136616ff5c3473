package calculator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tabsplit/internal/models"
)

func TestValidateLedger(t *testing.T) {
	ab := []models.Participant{{ID: "a"}, {ID: "b"}}
	item := []models.Item{{ID: "x", Price: 1, OwnerIDs: []string{"a"}}}

	tests := []struct {
		name     string
		ledger   func(t *testing.T) *models.Ledger
		wantKind error
	}{
		{
			name:     "no participants",
			ledger:   func(t *testing.T) *models.Ledger { return mustLedger(t, nil, nil, nil, nil) },
			wantKind: models.ErrNoParticipants,
		},
		{
			name:     "no items or expenses",
			ledger:   func(t *testing.T) *models.Ledger { return mustLedger(t, ab, nil, nil, nil) },
			wantKind: models.ErrNoItems,
		},
		{
			name: "shares summing to 90",
			ledger: func(t *testing.T) *models.Ledger {
				return mustLedger(t, ab, nil, nil, []models.Expense{{
					ID: "e1", Amount: 10, ParticipantIDs: []string{"a", "b"},
					SplitMode: models.SplitCustom,
					Shares:    []models.Share{{ParticipantID: "a", Percent: 50}, {ParticipantID: "b", Percent: 40}},
				}})
			},
			wantKind: models.ErrSharesNotSumming100,
		},
		{
			name: "shares within epsilon",
			ledger: func(t *testing.T) *models.Ledger {
				return mustLedger(t, ab, nil, nil, []models.Expense{{
					ID: "e1", Amount: 10, ParticipantIDs: []string{"a", "b"},
					SplitMode: models.SplitCustom,
					Shares:    []models.Share{{ParticipantID: "a", Percent: 33.3333}, {ParticipantID: "b", Percent: 66.6669}},
				}})
			},
		},
		{
			name: "equal split ignores stray shares",
			ledger: func(t *testing.T) *models.Ledger {
				return mustLedger(t, ab, nil, nil, []models.Expense{{
					ID: "e1", Amount: 10, ParticipantIDs: []string{"a", "b"},
					Shares: []models.Share{{ParticipantID: "a", Percent: 10}},
				}})
			},
		},
		{
			name:   "valid",
			ledger: func(t *testing.T) *models.Ledger { return mustLedger(t, ab, item, nil, nil) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLedger(tt.ledger(t))
			if tt.wantKind == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantKind)
		})
	}
}

func TestValidateLedger_SharesNotSumming100Details(t *testing.T) {
	ledger := mustLedger(t, []models.Participant{{ID: "A"}, {ID: "B"}}, nil, nil, []models.Expense{{
		ID: "dinner", Amount: 90, ParticipantIDs: []string{"A", "B"},
		SplitMode: models.SplitCustom,
		Shares:    []models.Share{{ParticipantID: "A", Percent: 50}, {ParticipantID: "B", Percent: 40}},
	}})

	err := ValidateLedger(ledger)
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "dinner", verr.Ref)
	assert.InDelta(t, 90.0, verr.Actual, tolerance)
}

func TestCheckAllocation(t *testing.T) {
	ledger := mustLedger(t,
		[]models.Participant{{ID: "a"}, {ID: "b", IsPayer: true}, {ID: "c", IsPayer: true}},
		[]models.Item{
			{ID: "wine", Price: 9},
			{ID: "water", Price: 0},
			{ID: "bread", Price: 4, OwnerIDs: []string{"a"}},
		},
		[]models.Charge{
			{ID: "tax", Kind: models.ChargeTax, Amount: 1.2},
			{ID: "zero-tax", Kind: models.ChargeTax, Amount: 0},
			{ID: "fee", Kind: models.ChargeFee, Amount: 2},
		},
		[]models.Expense{{ID: "taxi", Amount: 12}},
	)

	alloc := Allocate(ledger)
	warnings := CheckAllocation(ledger, alloc)
	assert.Equal(t, []models.Warning{
		{Kind: models.WarnUnassignedItem, Ref: "wine", Amount: 9},
		{Kind: models.WarnUnassignedItem, Ref: "taxi", Amount: 12},
		{Kind: models.WarnZeroTaxDenominator, Ref: "tax", Amount: 1.2},
	}, warnings)

	assert.Equal(t, []models.Warning{
		{Kind: models.WarnMultiplePayers, Ref: "b,c"},
	}, CheckBalances(ledger))
}

func TestCheckAllocation_ZeroFeeBase(t *testing.T) {
	ledger := mustLedger(t,
		[]models.Participant{{ID: "a"}},
		[]models.Item{{ID: "x", Price: 5}},
		[]models.Charge{
			{ID: "service", Kind: models.ChargeFee, Amount: 2},
			{ID: "even", Kind: models.ChargeFee, Amount: 2, SplitEvenly: true},
		},
		nil,
	)
	warnings := CheckAllocation(ledger, Allocate(ledger))
	assert.Contains(t, warnings, models.Warning{Kind: models.WarnZeroFeeBase, Ref: "service", Amount: 2})
	assert.NotContains(t, warnings, models.Warning{Kind: models.WarnZeroFeeBase, Ref: "even", Amount: 2})
}
