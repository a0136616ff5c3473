package calculator

import (
	"math"
	"strings"

	"github.com/mmynk/tabsplit/internal/models"
)

// shareEpsilon is how far custom shares may drift from 100 percent.
const shareEpsilon = 0.001

// ValidateLedger returns the first blocking problem that prevents a
// compute pass, or nil.
func ValidateLedger(ledger *models.Ledger) error {
	if len(ledger.Participants()) == 0 {
		return &models.ValidationError{Kind: models.ErrNoParticipants}
	}
	expenses := ledger.Expenses()
	if len(ledger.Items()) == 0 && len(expenses) == 0 {
		return &models.ValidationError{Kind: models.ErrNoItems}
	}
	for _, e := range expenses {
		if e.SplitMode != models.SplitCustom {
			continue
		}
		var sum float64
		for _, s := range e.Shares {
			sum += s.Percent
		}
		if math.Abs(sum-100) > shareEpsilon {
			return &models.ValidationError{Kind: models.ErrSharesNotSumming100, Ref: e.ID, Actual: sum}
		}
	}
	return nil
}

// CheckAllocation reports the non-blocking findings of an allocation:
// unowned items and expenses, and charges that had nothing to spread over.
func CheckAllocation(ledger *models.Ledger, alloc *Allocation) []models.Warning {
	var warnings []models.Warning

	for _, it := range ledger.Items() {
		if len(it.OwnerIDs) == 0 && it.Price != 0 {
			warnings = append(warnings, models.Warning{Kind: models.WarnUnassignedItem, Ref: it.ID, Amount: it.Price})
		}
	}
	for _, e := range ledger.Expenses() {
		if len(e.ParticipantIDs) == 0 && e.Amount != 0 {
			warnings = append(warnings, models.Warning{Kind: models.WarnUnassignedItem, Ref: e.ID, Amount: e.Total()})
		}
	}

	var baseSum float64
	for _, p := range alloc.People {
		baseSum += p.Base
	}

	for _, c := range ledger.Charges() {
		if c.Amount == 0 {
			continue
		}
		switch {
		case c.Kind == models.ChargeTax:
			denominator := alloc.Totals.Subtotal
			if c.ByTaxableBase() {
				denominator = alloc.Totals.TaxableSubtotal
			}
			if denominator == 0 {
				warnings = append(warnings, models.Warning{Kind: models.WarnZeroTaxDenominator, Ref: c.ID, Amount: c.Amount})
			}
		case !c.SplitEvenly && baseSum == 0:
			warnings = append(warnings, models.Warning{Kind: models.WarnZeroFeeBase, Ref: c.ID, Amount: c.Amount})
		}
	}

	return warnings
}

// CheckBalances reports the non-blocking findings of the payment step.
func CheckBalances(ledger *models.Ledger) []models.Warning {
	if payers := ledger.MarkedPayers(); len(payers) > 1 {
		return []models.Warning{{Kind: models.WarnMultiplePayers, Ref: strings.Join(payers, ",")}}
	}
	return nil
}
