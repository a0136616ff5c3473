package models

import (
	"fmt"
	"math"
	"slices"
)

// TipBasis selects what a participant's tip percentage is applied to.
type TipBasis string

const (
	TipOnBase       TipBasis = "base"
	TipOnBaseAndTax TipBasis = "base+tax"
)

// DefaultTipBasis is used when a participant leaves TipBasis empty.
const DefaultTipBasis = TipOnBaseAndTax

// Participant is one person sharing the bill.
type Participant struct {
	// ID is the stable identifier referenced by items, expenses and shares.
	ID string

	// Name is the display name.
	Name string

	// TipPercent is this person's own tip, e.g. 20 for 20%.
	TipPercent float64

	// TipBasis is the amount the tip is computed on. Empty means base+tax.
	TipBasis TipBasis

	// CashOnHand is the cash this person puts down right now.
	CashOnHand float64

	// IsPayer marks the person who covers any shortfall. Only the first
	// marked participant is effective; with none marked the first
	// participant pays.
	IsPayer bool
}

// Item is a receipt line. Its price is split equally among its owners.
type Item struct {
	ID          string
	Description string
	Price       float64
	Taxable     bool

	// OwnerIDs is a set of participant IDs; order carries no meaning.
	// An item with no owners still counts toward the subtotal.
	OwnerIDs []string
}

// ChargeKind is the type of a receipt-level surcharge.
type ChargeKind string

const (
	ChargeTax      ChargeKind = "tax"
	ChargeFee      ChargeKind = "fee"
	ChargeDiscount ChargeKind = "discount"
)

// Charge is a tax, fee or discount printed on the receipt.
type Charge struct {
	ID    string
	Kind  ChargeKind
	Label string

	// Amount is positive for tax and fees; discounts are usually negative.
	Amount float64

	// AllocateByTaxableBase applies to taxes only: true (or unset) infers
	// the rate from taxable items, false from the whole subtotal.
	AllocateByTaxableBase *bool

	// SplitEvenly applies to fees and discounts: true splits per head,
	// false splits proportionally to each participant's base.
	SplitEvenly bool
}

// ByTaxableBase reports whether a tax charge is allocated over taxable items.
func (c Charge) ByTaxableBase() bool {
	return c.AllocateByTaxableBase == nil || *c.AllocateByTaxableBase
}

// SplitMode selects how an expense is divided among its participants.
type SplitMode string

const (
	SplitEqual  SplitMode = "equal"
	SplitCustom SplitMode = "custom"
)

// Share is one participant's percentage of a custom-split expense.
type Share struct {
	ParticipantID string
	Percent       float64
}

// SurchargeKind is what an expense-level surcharge counts as.
type SurchargeKind string

const (
	SurchargeTax SurchargeKind = "tax"
	SurchargeTip SurchargeKind = "tip"
)

// SurchargeMode says how a surcharge value is read.
type SurchargeMode string

const (
	SurchargePercent SurchargeMode = "percent"
	SurchargeFixed   SurchargeMode = "fixed"
)

// Surcharge is a tax or tip applied to a single expense.
type Surcharge struct {
	Kind  SurchargeKind
	Mode  SurchargeMode
	Value float64
}

// Total returns the surcharge amount for an expense of the given amount.
func (s Surcharge) Total(amount float64) float64 {
	if s.Mode == SurchargePercent {
		return amount * s.Value / 100
	}
	return s.Value
}

// Expense bundles a cost, its split and its surcharges into one
// transaction already paid by PayerID.
type Expense struct {
	ID          string
	Description string
	Amount      float64

	// PayerID is who paid the full expense. Empty means nobody paid it
	// yet and it is collected at the counter like a receipt item.
	PayerID string

	// ParticipantIDs is the set of people sharing this expense.
	ParticipantIDs []string

	// SplitMode defaults to equal.
	SplitMode SplitMode

	// Shares is used only with SplitCustom and must sum to 100.
	Shares []Share

	Surcharges []Surcharge
}

// Total returns the amount plus every surcharge.
func (e Expense) Total() float64 {
	total := e.Amount
	for _, s := range e.Surcharges {
		total += s.Total(e.Amount)
	}
	return total
}

// HasTip reports whether the expense carries a tip surcharge.
func (e Expense) HasTip() bool {
	for _, s := range e.Surcharges {
		if s.Kind == SurchargeTip {
			return true
		}
	}
	return false
}

// Ledger is a frozen snapshot of everything a compute pass reads.
// It is created by NewLedger (or Draft.Snapshot) and never changes.
type Ledger struct {
	participants []Participant
	items        []Item
	charges      []Charge
	expenses     []Expense
	index        map[string]int
}

// NewLedger copies its arguments into a validated snapshot. It checks
// structure only: identifiers, references and enumerations. Economic
// checks (totals, shares summing to 100) happen at compute time.
func NewLedger(participants []Participant, items []Item, charges []Charge, expenses []Expense) (*Ledger, error) {
	l := &Ledger{
		participants: slices.Clone(participants),
		items:        make([]Item, len(items)),
		charges:      make([]Charge, len(charges)),
		expenses:     make([]Expense, len(expenses)),
		index:        make(map[string]int, len(participants)),
	}

	for i := range l.participants {
		p := &l.participants[i]
		if p.ID == "" {
			return nil, invalid(ErrUnknownParticipant, "participants[%d].id is empty", i)
		}
		if _, dup := l.index[p.ID]; dup {
			return nil, invalid(ErrDuplicateID, "participant %s", p.ID)
		}
		if !finite(p.TipPercent, p.CashOnHand) {
			return nil, invalid(ErrInvalidAmount, "participant %s", p.ID)
		}
		switch p.TipBasis {
		case "":
			p.TipBasis = DefaultTipBasis
		case TipOnBase, TipOnBaseAndTax:
		default:
			return nil, invalid(ErrInvalidEnum, "participant %s tipBasis %q", p.ID, p.TipBasis)
		}
		l.index[p.ID] = i
	}

	seen := make(map[string]bool)
	checkID := func(kind, id string) error {
		if id == "" {
			return nil
		}
		key := kind + "/" + id
		if seen[key] {
			return invalid(ErrDuplicateID, "%s %s", kind, id)
		}
		seen[key] = true
		return nil
	}

	for i, it := range items {
		if err := checkID("item", it.ID); err != nil {
			return nil, err
		}
		if !finite(it.Price) {
			return nil, invalid(ErrInvalidAmount, "items[%d].price", i)
		}
		owners, err := l.participantSet(it.OwnerIDs, "items[%d].ownerIds", i)
		if err != nil {
			return nil, err
		}
		it.OwnerIDs = owners
		l.items[i] = it
	}

	for i, c := range charges {
		if err := checkID("charge", c.ID); err != nil {
			return nil, err
		}
		if !finite(c.Amount) {
			return nil, invalid(ErrInvalidAmount, "charges[%d].amount", i)
		}
		switch c.Kind {
		case ChargeTax, ChargeFee, ChargeDiscount:
		default:
			return nil, invalid(ErrInvalidEnum, "charges[%d].kind %q", i, c.Kind)
		}
		if c.AllocateByTaxableBase != nil {
			v := *c.AllocateByTaxableBase
			c.AllocateByTaxableBase = &v
		}
		l.charges[i] = c
	}

	for i, e := range expenses {
		if err := checkID("expense", e.ID); err != nil {
			return nil, err
		}
		if !finite(e.Amount) {
			return nil, invalid(ErrInvalidAmount, "expenses[%d].amount", i)
		}
		if e.PayerID != "" {
			if _, ok := l.index[e.PayerID]; !ok {
				return nil, invalid(ErrUnknownParticipant, "expenses[%d].payerId %s", i, e.PayerID)
			}
		}
		members, err := l.participantSet(e.ParticipantIDs, "expenses[%d].participantIds", i)
		if err != nil {
			return nil, err
		}
		e.ParticipantIDs = members

		switch e.SplitMode {
		case "":
			e.SplitMode = SplitEqual
		case SplitEqual, SplitCustom:
		default:
			return nil, invalid(ErrInvalidEnum, "expenses[%d].splitMode %q", i, e.SplitMode)
		}

		e.Shares = slices.Clone(e.Shares)
		shareSeen := make(map[string]bool, len(e.Shares))
		for _, s := range e.Shares {
			if !slices.Contains(members, s.ParticipantID) {
				return nil, invalid(ErrShareOutsideParticipant, "expense %s share %s", expenseRef(e, i), s.ParticipantID)
			}
			if shareSeen[s.ParticipantID] {
				return nil, invalid(ErrDuplicateID, "expense %s share %s", expenseRef(e, i), s.ParticipantID)
			}
			shareSeen[s.ParticipantID] = true
			if !finite(s.Percent) {
				return nil, invalid(ErrInvalidAmount, "expense %s share %s", expenseRef(e, i), s.ParticipantID)
			}
		}

		e.Surcharges = slices.Clone(e.Surcharges)
		for j, s := range e.Surcharges {
			if s.Kind != SurchargeTax && s.Kind != SurchargeTip {
				return nil, invalid(ErrInvalidEnum, "expenses[%d].surcharges[%d].kind %q", i, j, s.Kind)
			}
			if s.Mode != SurchargePercent && s.Mode != SurchargeFixed {
				return nil, invalid(ErrInvalidEnum, "expenses[%d].surcharges[%d].mode %q", i, j, s.Mode)
			}
			if !finite(s.Value) {
				return nil, invalid(ErrInvalidAmount, "expenses[%d].surcharges[%d].value", i, j)
			}
		}
		l.expenses[i] = e
	}

	return l, nil
}

// participantSet resolves a list of participant IDs, dropping duplicates
// and keeping first-seen order.
func (l *Ledger) participantSet(ids []string, ref string, refArgs ...any) ([]string, error) {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := l.index[id]; !ok {
			return nil, invalid(ErrUnknownParticipant, "%s: %s", fmt.Sprintf(ref, refArgs...), id)
		}
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out, nil
}

func finite(xs ...float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func expenseRef(e Expense, i int) string {
	if e.ID != "" {
		return e.ID
	}
	return fmt.Sprintf("#%d", i)
}

// Participants returns a copy of the participants in list order.
func (l *Ledger) Participants() []Participant { return slices.Clone(l.participants) }

// Items returns a copy of the receipt items.
func (l *Ledger) Items() []Item {
	out := make([]Item, len(l.items))
	for i, it := range l.items {
		it.OwnerIDs = slices.Clone(it.OwnerIDs)
		out[i] = it
	}
	return out
}

// Charges returns a copy of the receipt charges.
func (l *Ledger) Charges() []Charge {
	out := make([]Charge, len(l.charges))
	for i, c := range l.charges {
		if c.AllocateByTaxableBase != nil {
			v := *c.AllocateByTaxableBase
			c.AllocateByTaxableBase = &v
		}
		out[i] = c
	}
	return out
}

// Expenses returns a copy of the expenses.
func (l *Ledger) Expenses() []Expense {
	out := make([]Expense, len(l.expenses))
	for i, e := range l.expenses {
		e.ParticipantIDs = slices.Clone(e.ParticipantIDs)
		e.Shares = slices.Clone(e.Shares)
		e.Surcharges = slices.Clone(e.Surcharges)
		out[i] = e
	}
	return out
}

// ParticipantIndex returns the list position of a participant, or -1.
func (l *Ledger) ParticipantIndex(id string) int {
	if i, ok := l.index[id]; ok {
		return i
	}
	return -1
}

// Payer returns the index of the effective payer: the first participant
// marked IsPayer, otherwise 0. It returns -1 for an empty ledger.
func (l *Ledger) Payer() int {
	if len(l.participants) == 0 {
		return -1
	}
	for i, p := range l.participants {
		if p.IsPayer {
			return i
		}
	}
	return 0
}

// MarkedPayers returns the IDs of every participant marked IsPayer, in
// list order. When it is non-empty its first entry is the effective payer.
func (l *Ledger) MarkedPayers() []string {
	var ids []string
	for _, p := range l.participants {
		if p.IsPayer {
			ids = append(ids, p.ID)
		}
	}
	return ids
}
