package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraft_Defaults(t *testing.T) {
	d := NewDraft()
	first := d.AddParticipant(Participant{Name: "D", TipPercent: 20})
	second := d.AddParticipant(Participant{Name: "Joe"})

	_, err := uuid.Parse(first)
	assert.NoError(t, err, "generated IDs are UUIDs")

	taxID := d.AddCharge(Charge{Kind: ChargeTax, Amount: 1})
	_, err = d.AddItem(Item{Price: 5, Taxable: true, OwnerIDs: []string{first}})
	require.NoError(t, err)

	l, err := d.Snapshot()
	require.NoError(t, err)

	people := l.Participants()
	assert.True(t, people[0].IsPayer)
	assert.False(t, people[1].IsPayer)
	assert.Equal(t, second, people[1].ID)
	assert.Equal(t, TipOnBaseAndTax, people[0].TipBasis)

	charges := l.Charges()
	assert.Equal(t, taxID, charges[0].ID)
	require.NotNil(t, charges[0].AllocateByTaxableBase)
	assert.True(t, *charges[0].AllocateByTaxableBase)
}

func TestDraft_RemoveParticipantPrunesReferences(t *testing.T) {
	d := NewDraft()
	a := d.AddParticipant(Participant{ID: "a"})
	b := d.AddParticipant(Participant{ID: "b"})

	item, err := d.AddItem(Item{Price: 10, OwnerIDs: []string{a, b}})
	require.NoError(t, err)
	_, err = d.AddExpense(Expense{
		ID: "e", Amount: 30, PayerID: b, ParticipantIDs: []string{a, b},
		SplitMode: SplitCustom,
		Shares:    []Share{{ParticipantID: a, Percent: 40}, {ParticipantID: b, Percent: 60}},
	})
	require.NoError(t, err)

	require.NoError(t, d.RemoveParticipant(b))

	l, err := d.Snapshot()
	require.NoError(t, err, "snapshot must not reference the removed participant")

	assert.Len(t, l.Participants(), 1)
	assert.Equal(t, item, l.Items()[0].ID)
	assert.Equal(t, []string{a}, l.Items()[0].OwnerIDs)

	e := l.Expenses()[0]
	assert.Empty(t, e.PayerID)
	assert.Equal(t, []string{a}, e.ParticipantIDs)
	assert.Equal(t, []Share{{ParticipantID: a, Percent: 40}}, e.Shares)

	assert.ErrorIs(t, d.RemoveParticipant(b), ErrUnknownParticipant)
}

func TestDraft_AssignItem(t *testing.T) {
	d := NewDraft()
	a := d.AddParticipant(Participant{})
	b := d.AddParticipant(Participant{})
	item, err := d.AddItem(Item{Price: 9})
	require.NoError(t, err)

	require.NoError(t, d.AssignItem(item, a, true))
	require.NoError(t, d.AssignItem(item, b, true))
	require.NoError(t, d.AssignItem(item, a, true))
	require.NoError(t, d.AssignItem(item, a, false))

	l, err := d.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, []string{b}, l.Items()[0].OwnerIDs)

	assert.Error(t, d.AssignItem("missing", a, true))
	assert.ErrorIs(t, d.AssignItem(item, "missing", true), ErrUnknownParticipant)
}

func TestDraft_AddExpenseRejectsNonPositiveAmount(t *testing.T) {
	d := NewDraft()
	a := d.AddParticipant(Participant{})

	for _, amount := range []float64{0, -5} {
		_, err := d.AddExpense(Expense{Description: "lunch", Amount: amount, PayerID: a})
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}
}

func TestDraft_SnapshotIsIndependent(t *testing.T) {
	d := NewDraft()
	a := d.AddParticipant(Participant{Name: "A"})
	item, err := d.AddItem(Item{Price: 3, OwnerIDs: []string{a}})
	require.NoError(t, err)

	before, err := d.Snapshot()
	require.NoError(t, err)

	require.NoError(t, d.AssignItem(item, a, false))
	d.RemoveItem(item)
	require.NoError(t, d.SetPayer(a))
	d.Reset()

	assert.Len(t, before.Items(), 1)
	assert.Equal(t, []string{a}, before.Items()[0].OwnerIDs)

	after, err := d.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, after.Participants())
}
