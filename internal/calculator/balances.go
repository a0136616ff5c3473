package calculator

import (
	"fmt"

	"github.com/mmynk/tabsplit/internal/models"
)

// PaymentMode selects how the shortfall at the counter is covered.
type PaymentMode string

const (
	// CashOnly tells the payer to withdraw the shortfall in cash.
	CashOnly PaymentMode = "cashOnly"
	// CardAllowed puts the shortfall on the payer's card.
	CardAllowed PaymentMode = "cardAllowed"
)

// ParsePaymentMode validates a payment mode. Empty means CardAllowed.
func ParsePaymentMode(s string) (PaymentMode, error) {
	switch m := PaymentMode(s); m {
	case "":
		return CardAllowed, nil
	case CashOnly, CardAllowed:
		return m, nil
	}
	return "", &models.ValidationError{Kind: models.ErrInvalidEnum, Ref: fmt.Sprintf("paymentMode %q", s)}
}

// PersonBalance is a participant's allocation plus what they have paid.
type PersonBalance struct {
	PersonAllocation

	// CashPaid includes any withdrawal the payer was asked to make.
	CashPaid float64
	CardPaid float64

	// Prepaid is the total of expenses this participant already paid.
	Prepaid float64

	// Net is paid minus owed: positive means they should receive money.
	Net float64
}

// Balances is the output of CalculateBalances.
type Balances struct {
	People []PersonBalance

	// PayerID is the effective payer.
	PayerID string

	// AmountDue is what is still to be paid at the counter: the grand
	// total minus expenses already paid.
	AmountDue float64

	// Shortfall is the rounded gap between AmountDue and the cash on the
	// table: cash to withdraw (CashOnly) or the card charge (CardAllowed).
	// Zero when cash covers it.
	Shortfall float64
}

// CalculateBalances nets each participant's allocation against the cash
// they put down, any expense they prepaid, and the payer's cover of the
// shortfall.
//
// Algorithm:
//   - due = grand total - prepaid expenses
//   - shortfall = round2(due - sum(cash)), applied to the payer if positive
//   - net = cash + card + prepaid - owed
func CalculateBalances(ledger *models.Ledger, alloc *Allocation, mode PaymentMode) (*Balances, error) {
	if mode != CashOnly && mode != CardAllowed {
		return nil, &models.ValidationError{Kind: models.ErrInvalidEnum, Ref: fmt.Sprintf("paymentMode %q", mode)}
	}
	participants := ledger.Participants()
	if len(participants) == 0 {
		return nil, &models.ValidationError{Kind: models.ErrNoParticipants}
	}
	if len(alloc.People) != len(participants) {
		return nil, fmt.Errorf("allocation has %d people, ledger has %d", len(alloc.People), len(participants))
	}

	people := make([]PersonBalance, len(participants))
	var cashSum, prepaidSum float64
	for i, p := range participants {
		people[i].PersonAllocation = alloc.People[i]
		people[i].CashPaid = p.CashOnHand
		cashSum += p.CashOnHand
	}

	for _, e := range ledger.Expenses() {
		if e.PayerID == "" {
			continue
		}
		total := e.Total()
		people[ledger.ParticipantIndex(e.PayerID)].Prepaid += total
		prepaidSum += total
	}

	payer := ledger.Payer()
	b := &Balances{
		PayerID:   participants[payer].ID,
		AmountDue: alloc.Totals.GrandTotal - prepaidSum,
	}

	if !finite(b.AmountDue - cashSum) {
		return nil, overflow("amount due overflows")
	}
	shortfall := Round2(b.AmountDue - cashSum)
	if shortfall > 0 {
		b.Shortfall = shortfall
		if mode == CashOnly {
			people[payer].CashPaid += shortfall
		} else {
			people[payer].CardPaid = shortfall
		}
	}

	for i := range people {
		p := &people[i]
		p.Net = p.CashPaid + p.CardPaid + p.Prepaid - p.Owed
	}
	b.People = people
	return b, nil
}

// Nets extracts the settlement input from balances, in ledger order.
func (b *Balances) Nets() []NetBalance {
	nets := make([]NetBalance, len(b.People))
	for i, p := range b.People {
		nets[i] = NetBalance{ParticipantID: p.ParticipantID, Net: p.Net}
	}
	return nets
}

// CombineNets aggregates the nets of several compute results, for a group
// that shares more than one bill, and applies transfers already made.
// Participants are matched by ID and returned in first-seen order.
//
// A recorded transfer improves the sender's position and reduces the
// receiver's, exactly as if the sender had paid that much more of a bill.
// Both ends must appear in at least one result, and the amount must be
// positive.
func CombineNets(results []*Result, recorded []models.Transfer) ([]NetBalance, error) {
	index := make(map[string]int)
	var nets []NetBalance
	for _, r := range results {
		for _, p := range r.People {
			i, ok := index[p.ParticipantID]
			if !ok {
				i = len(nets)
				index[p.ParticipantID] = i
				nets = append(nets, NetBalance{ParticipantID: p.ParticipantID})
			}
			nets[i].Net += p.Net
		}
	}

	for i, t := range recorded {
		ref := fmt.Sprintf("recorded[%d]", i)
		if !finite(t.Amount) || t.Amount <= 0 {
			return nil, &models.ValidationError{Kind: models.ErrInvalidAmount, Ref: ref, Actual: t.Amount}
		}
		from, ok := index[t.FromID]
		if !ok {
			return nil, &models.ValidationError{Kind: models.ErrUnknownParticipant, Ref: ref + ".fromId " + t.FromID}
		}
		to, ok := index[t.ToID]
		if !ok {
			return nil, &models.ValidationError{Kind: models.ErrUnknownParticipant, Ref: ref + ".toId " + t.ToID}
		}
		if from == to {
			return nil, &models.ValidationError{Kind: models.ErrSelfTransfer, Ref: ref + " " + t.FromID}
		}
		nets[from].Net += t.Amount
		nets[to].Net -= t.Amount
	}
	return nets, nil
}
