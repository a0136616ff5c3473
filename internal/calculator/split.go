package calculator

import (
	"github.com/mmynk/tabsplit/internal/models"
)

// PersonAllocation is one participant's share of every bill component.
type PersonAllocation struct {
	ParticipantID string
	Name          string

	// Base is the participant's share of item and expense cost.
	Base float64

	// TaxableBase is the part of Base that comes from taxable items.
	TaxableBase float64

	Tax  float64
	Fees float64 // fees minus discounts
	Tip  float64

	// Owed is Base + Tax + Fees + Tip.
	Owed float64
}

// Totals are the receipt-wide aggregates.
type Totals struct {
	Subtotal        float64
	TaxableSubtotal float64
	TotalTax        float64
	TotalFees       float64
	TotalTips       float64
	GrandTotal      float64

	// Unallocated is the part of GrandTotal assigned to nobody: unassigned
	// items and expenses, and surcharges that had no base to spread over.
	Unallocated float64
}

// Allocation is the output of Allocate. People is in ledger order.
type Allocation struct {
	People []PersonAllocation
	Totals Totals
}

// Allocate distributes item costs, taxes, fees, discounts and tips across
// the participants of a ledger.
//
// Algorithm:
//   - Items: price / |owners| to each owner's base (and taxable base when
//     taxable). Unowned items still count toward the subtotals.
//   - Expenses: amount × weight (1/n, or percent/100 for custom shares) to
//     base; each surcharge is spread with the same weights into tax or tip.
//   - Taxes: rate = amount / taxable subtotal (or subtotal), applied to
//     each taxable base (or base). A zero denominator allocates nothing.
//   - Fees and discounts: per head, or proportional to base.
//   - Tips: each participant's percentage on their base, or base plus
//     tax. Expenses with a tip surcharge of their own are left out of
//     that basis so they are not tipped twice.
//
// Everything stays in full precision; callers round at output.
func Allocate(ledger *models.Ledger) *Allocation {
	participants := ledger.Participants()
	n := len(participants)

	people := make([]PersonAllocation, n)
	for i, p := range participants {
		people[i].ParticipantID = p.ID
		people[i].Name = p.Name
	}
	var totals Totals

	// Base and tax a participant's own tip applies to.
	tipBase := make([]float64, n)
	tipTax := make([]float64, n)

	for _, item := range ledger.Items() {
		totals.Subtotal += item.Price
		if item.Taxable {
			totals.TaxableSubtotal += item.Price
		}
		if len(item.OwnerIDs) == 0 {
			totals.Unallocated += item.Price
			continue
		}

		share := item.Price / float64(len(item.OwnerIDs))
		for _, owner := range item.OwnerIDs {
			i := ledger.ParticipantIndex(owner)
			people[i].Base += share
			tipBase[i] += share
			if item.Taxable {
				people[i].TaxableBase += share
			}
		}
	}

	for _, e := range ledger.Expenses() {
		totals.Subtotal += e.Amount

		weights := expenseWeights(ledger, e, n)
		tipped := e.HasTip()
		var assigned float64
		for i, w := range weights {
			people[i].Base += e.Amount * w
			if !tipped {
				tipBase[i] += e.Amount * w
			}
			assigned += w
		}
		totals.Unallocated += e.Amount * (1 - assigned)

		for _, s := range e.Surcharges {
			amount := s.Total(e.Amount)
			switch s.Kind {
			case models.SurchargeTax:
				totals.TotalTax += amount
			case models.SurchargeTip:
				totals.TotalTips += amount
			}
			for i, w := range weights {
				if s.Kind == models.SurchargeTax {
					people[i].Tax += amount * w
					if !tipped {
						tipTax[i] += amount * w
					}
				} else {
					people[i].Tip += amount * w
				}
			}
			totals.Unallocated += amount * (1 - assigned)
		}
	}

	charges := ledger.Charges()

	for _, c := range charges {
		if c.Kind != models.ChargeTax {
			continue
		}
		totals.TotalTax += c.Amount

		denominator := totals.Subtotal
		if c.ByTaxableBase() {
			denominator = totals.TaxableSubtotal
		}
		if denominator == 0 {
			totals.Unallocated += c.Amount
			continue
		}

		rate := c.Amount / denominator
		var allocated float64
		for i := range people {
			weight, tipWeight := people[i].Base, tipBase[i]
			if c.ByTaxableBase() {
				// Only items are taxable, and items are always in the tip basis.
				weight, tipWeight = people[i].TaxableBase, people[i].TaxableBase
			}
			tax := rate * weight
			people[i].Tax += tax
			tipTax[i] += rate * tipWeight
			allocated += tax
		}
		totals.Unallocated += c.Amount - allocated
	}

	var baseSum float64
	for _, p := range people {
		baseSum += p.Base
	}

	for _, c := range charges {
		if c.Kind == models.ChargeTax {
			continue
		}
		totals.TotalFees += c.Amount

		switch {
		case c.SplitEvenly && n > 0:
			each := c.Amount / float64(n)
			var allocated float64
			for i := range people {
				people[i].Fees += each
				allocated += each
			}
			totals.Unallocated += c.Amount - allocated
		case !c.SplitEvenly && baseSum != 0:
			var allocated float64
			for i := range people {
				fee := c.Amount * (people[i].Base / baseSum)
				people[i].Fees += fee
				allocated += fee
			}
			totals.Unallocated += c.Amount - allocated
		default:
			totals.Unallocated += c.Amount
		}
	}

	for i, p := range participants {
		basis := tipBase[i]
		if p.TipBasis != models.TipOnBase {
			basis += tipTax[i]
		}
		tip := p.TipPercent / 100 * basis
		people[i].Tip += tip
		totals.TotalTips += tip
	}

	for i := range people {
		p := &people[i]
		p.Owed = p.Base + p.Tax + p.Fees + p.Tip
	}
	totals.GrandTotal = totals.Subtotal + totals.TotalTax + totals.TotalFees + totals.TotalTips

	return &Allocation{People: people, Totals: totals}
}

// expenseWeights returns, per participant index, the fraction of an
// expense they carry.
func expenseWeights(ledger *models.Ledger, e models.Expense, n int) []float64 {
	weights := make([]float64, n)
	if e.SplitMode == models.SplitCustom {
		for _, s := range e.Shares {
			weights[ledger.ParticipantIndex(s.ParticipantID)] += s.Percent / 100
		}
		return weights
	}
	if len(e.ParticipantIDs) == 0 {
		return weights
	}
	w := 1 / float64(len(e.ParticipantIDs))
	for _, id := range e.ParticipantIDs {
		weights[ledger.ParticipantIndex(id)] = w
	}
	return weights
}
