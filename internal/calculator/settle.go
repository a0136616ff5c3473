package calculator

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tabsplit/internal/models"
)

// SettlementPolicy selects the order in which creditors and debtors are
// matched. Both produce a valid settlement; the transfer sets differ.
type SettlementPolicy string

const (
	// SortedDescending matches the largest creditor with the largest
	// debtor first. Ties keep input order.
	SortedDescending SettlementPolicy = "sortedDescending"
	// InputOrder matches creditors and debtors in list order.
	InputOrder SettlementPolicy = "inputOrder"
)

// ParseSettlementPolicy validates a policy. Empty means SortedDescending.
func ParseSettlementPolicy(s string) (SettlementPolicy, error) {
	switch p := SettlementPolicy(s); p {
	case "":
		return SortedDescending, nil
	case SortedDescending, InputOrder:
		return p, nil
	}
	return "", &models.ValidationError{Kind: models.ErrInvalidEnum, Ref: fmt.Sprintf("settlementPolicy %q", s)}
}

// NetBalance is one participant's position going into settlement.
type NetBalance struct {
	ParticipantID string
	Net           float64 // positive = owed money, negative = owes money
}

// settleEpsilon is the remainder below which a party counts as settled.
var settleEpsilon = decimal.New(1, -4)

type party struct {
	id        string
	remaining decimal.Decimal
}

// Settle turns net balances into transfers using greedy matching.
//
// Algorithm:
//   - Round every net to cents and split into creditors (> 0) and debtors
//     (< 0, tracked as a positive amount owed).
//   - Order both lists by the policy.
//   - Repeatedly move min(creditor, debtor) from the current debtor to the
//     current creditor, advancing past anyone whose remainder is within
//     settleEpsilon, until either list runs out.
//
// Each debtor pays out exactly what they owe and each creditor receives
// what they are owed, provided the nets sum to zero. The number of
// transfers is at most creditors + debtors - 1 but is not guaranteed to be
// the minimum; finding that is a subset-partition problem and out of reach
// for a greedy pass.
func Settle(nets []NetBalance, policy SettlementPolicy) []models.Transfer {
	var creditors, debtors []*party
	for _, n := range nets {
		amount := cents(n.Net)
		switch amount.Sign() {
		case 1:
			creditors = append(creditors, &party{id: n.ParticipantID, remaining: amount})
		case -1:
			debtors = append(debtors, &party{id: n.ParticipantID, remaining: amount.Neg()})
		}
	}

	if policy != InputOrder {
		largestFirst := func(a, b *party) int { return b.remaining.Cmp(a.remaining) }
		slices.SortStableFunc(creditors, largestFirst)
		slices.SortStableFunc(debtors, largestFirst)
	}

	var transfers []models.Transfer
	ci, di := 0, 0
	for ci < len(creditors) && di < len(debtors) {
		creditor, debtor := creditors[ci], debtors[di]

		amount := decimal.Min(creditor.remaining, debtor.remaining)
		if amount.IsPositive() {
			transfers = append(transfers, models.Transfer{
				FromID: debtor.id,
				ToID:   creditor.id,
				Amount: amount.InexactFloat64(),
			})
			creditor.remaining = creditor.remaining.Sub(amount)
			debtor.remaining = debtor.remaining.Sub(amount)
		}

		if creditor.remaining.LessThanOrEqual(settleEpsilon) {
			ci++
		}
		if debtor.remaining.LessThanOrEqual(settleEpsilon) {
			di++
		}
	}

	return transfers
}
