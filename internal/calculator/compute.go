package calculator

import (
	"github.com/mmynk/tabsplit/internal/models"
)

// Options are the externally chosen settings of a compute pass.
// The zero value uses CardAllowed and SortedDescending.
type Options struct {
	PaymentMode      PaymentMode
	SettlementPolicy SettlementPolicy
}

// Result is everything a compute pass produces. Amounts are unrounded
// except Shortfall and Transfers, which are already in cents.
type Result struct {
	Totals    Totals
	People    []PersonBalance
	PayerID   string
	AmountDue float64
	Shortfall float64
	Transfers []models.Transfer
	Warnings  []models.Warning
}

// Compute runs a full pass over a ledger snapshot: validation, allocation,
// balances and settlement. It reads nothing but its arguments and keeps
// nothing afterwards, so concurrent calls on separate snapshots are safe.
// A validation failure returns a *models.ValidationError and no result.
func Compute(ledger *models.Ledger, opts Options) (*Result, error) {
	mode, err := ParsePaymentMode(string(opts.PaymentMode))
	if err != nil {
		return nil, err
	}
	policy, err := ParseSettlementPolicy(string(opts.SettlementPolicy))
	if err != nil {
		return nil, err
	}

	if err := ValidateLedger(ledger); err != nil {
		return nil, err
	}

	alloc := Allocate(ledger)
	if !finite(alloc.Totals.GrandTotal) {
		return nil, overflow("grand total overflows")
	}
	warnings := CheckAllocation(ledger, alloc)

	balances, err := CalculateBalances(ledger, alloc, mode)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, CheckBalances(ledger)...)

	nets := balances.Nets()
	if err := CheckNets(nets); err != nil {
		return nil, err
	}

	return &Result{
		Totals:    alloc.Totals,
		People:    balances.People,
		PayerID:   balances.PayerID,
		AmountDue: balances.AmountDue,
		Shortfall: balances.Shortfall,
		Transfers: Settle(nets, policy),
		Warnings:  warnings,
	}, nil
}
