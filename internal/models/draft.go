package models

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Draft is the editable side of a ledger. Hosts apply commands to a Draft
// and hand Snapshot() results to the calculator; a Draft is not safe for
// concurrent use.
type Draft struct {
	participants []Participant
	items        []Item
	charges      []Charge
	expenses     []Expense
}

// NewDraft returns an empty draft.
func NewDraft() *Draft {
	return &Draft{}
}

func newID() string {
	return uuid.New().String()
}

// AddParticipant appends a participant and returns its ID. An empty ID is
// generated and an empty TipBasis defaults to base+tax. The first
// participant added becomes the payer.
func (d *Draft) AddParticipant(p Participant) string {
	if p.ID == "" {
		p.ID = newID()
	}
	if p.TipBasis == "" {
		p.TipBasis = DefaultTipBasis
	}
	if len(d.participants) == 0 {
		p.IsPayer = true
	}
	d.participants = append(d.participants, p)
	return p.ID
}

// UpdateParticipant replaces the participant with the same ID.
func (d *Draft) UpdateParticipant(p Participant) error {
	i := slices.IndexFunc(d.participants, func(x Participant) bool { return x.ID == p.ID })
	if i < 0 {
		return invalid(ErrUnknownParticipant, "participant %s", p.ID)
	}
	d.participants[i] = p
	return nil
}

// SetPayer marks id as the only payer.
func (d *Draft) SetPayer(id string) error {
	if !d.hasParticipant(id) {
		return invalid(ErrUnknownParticipant, "participant %s", id)
	}
	for i := range d.participants {
		d.participants[i].IsPayer = d.participants[i].ID == id
	}
	return nil
}

// RemoveParticipant deletes a participant and every reference to it:
// item owners, expense participants, expense shares and expense payers.
func (d *Draft) RemoveParticipant(id string) error {
	i := slices.IndexFunc(d.participants, func(x Participant) bool { return x.ID == id })
	if i < 0 {
		return invalid(ErrUnknownParticipant, "participant %s", id)
	}
	d.participants = slices.Delete(d.participants, i, i+1)

	drop := func(ids []string) []string {
		return slices.DeleteFunc(ids, func(x string) bool { return x == id })
	}
	for k := range d.items {
		d.items[k].OwnerIDs = drop(d.items[k].OwnerIDs)
	}
	for k := range d.expenses {
		e := &d.expenses[k]
		e.ParticipantIDs = drop(e.ParticipantIDs)
		e.Shares = slices.DeleteFunc(e.Shares, func(s Share) bool { return s.ParticipantID == id })
		if e.PayerID == id {
			e.PayerID = ""
		}
	}
	return nil
}

// AddItem appends a receipt item and returns its ID.
func (d *Draft) AddItem(it Item) (string, error) {
	for _, o := range it.OwnerIDs {
		if !d.hasParticipant(o) {
			return "", invalid(ErrUnknownParticipant, "item owner %s", o)
		}
	}
	if it.ID == "" {
		it.ID = newID()
	}
	it.OwnerIDs = slices.Clone(it.OwnerIDs)
	d.items = append(d.items, it)
	return it.ID, nil
}

// AssignItem adds (assigned=true) or removes an owner of an item.
func (d *Draft) AssignItem(itemID, participantID string, assigned bool) error {
	i := slices.IndexFunc(d.items, func(x Item) bool { return x.ID == itemID })
	if i < 0 {
		return fmt.Errorf("item not found: %s", itemID)
	}
	if !d.hasParticipant(participantID) {
		return invalid(ErrUnknownParticipant, "participant %s", participantID)
	}
	owners := d.items[i].OwnerIDs
	has := slices.Contains(owners, participantID)
	switch {
	case assigned && !has:
		d.items[i].OwnerIDs = append(owners, participantID)
	case !assigned && has:
		d.items[i].OwnerIDs = slices.DeleteFunc(owners, func(x string) bool { return x == participantID })
	}
	return nil
}

// RemoveItem deletes an item.
func (d *Draft) RemoveItem(id string) {
	d.items = slices.DeleteFunc(d.items, func(x Item) bool { return x.ID == id })
}

// AddCharge appends a charge and returns its ID. A tax charge without an
// explicit policy is allocated by taxable base.
func (d *Draft) AddCharge(c Charge) string {
	if c.ID == "" {
		c.ID = newID()
	}
	if c.Kind == ChargeTax && c.AllocateByTaxableBase == nil {
		byTaxable := true
		c.AllocateByTaxableBase = &byTaxable
	}
	d.charges = append(d.charges, c)
	return c.ID
}

// RemoveCharge deletes a charge.
func (d *Draft) RemoveCharge(id string) {
	d.charges = slices.DeleteFunc(d.charges, func(x Charge) bool { return x.ID == id })
}

// AddExpense appends an expense and returns its ID. This is the entry
// point for hand-entered transactions, so a non-positive amount is
// rejected with ErrInvalidAmount.
func (d *Draft) AddExpense(e Expense) (string, error) {
	if e.Amount <= 0 {
		return "", invalid(ErrInvalidAmount, "expense %q amount", e.Description)
	}
	if e.PayerID != "" && !d.hasParticipant(e.PayerID) {
		return "", invalid(ErrUnknownParticipant, "expense payer %s", e.PayerID)
	}
	for _, p := range e.ParticipantIDs {
		if !d.hasParticipant(p) {
			return "", invalid(ErrUnknownParticipant, "expense participant %s", p)
		}
	}
	if e.ID == "" {
		e.ID = newID()
	}
	e.ParticipantIDs = slices.Clone(e.ParticipantIDs)
	e.Shares = slices.Clone(e.Shares)
	e.Surcharges = slices.Clone(e.Surcharges)
	d.expenses = append(d.expenses, e)
	return e.ID, nil
}

// RemoveExpense deletes an expense.
func (d *Draft) RemoveExpense(id string) {
	d.expenses = slices.DeleteFunc(d.expenses, func(x Expense) bool { return x.ID == id })
}

// Reset clears the draft.
func (d *Draft) Reset() {
	*d = Draft{}
}

// Snapshot freezes the current state into a Ledger. Later commands on the
// draft do not affect the returned ledger.
func (d *Draft) Snapshot() (*Ledger, error) {
	return NewLedger(d.participants, d.items, d.charges, d.expenses)
}

func (d *Draft) hasParticipant(id string) bool {
	return slices.ContainsFunc(d.participants, func(p Participant) bool { return p.ID == id })
}
