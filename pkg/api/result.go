package api

import (
	"errors"

	"github.com/mmynk/tabsplit/internal/calculator"
	"github.com/mmynk/tabsplit/internal/models"
)

// Result is the response of LedgerService.Compute. Every amount is
// rounded to cents.
type Result struct {
	Totals             Totals              `json:"totals"`
	PerParticipant     []ParticipantResult `json:"perParticipant"`
	PayerID            string              `json:"payerId"`
	AmountDue          float64             `json:"amountDue"`
	ShortfallToCollect float64             `json:"shortfallToCollect"`
	Transfers          []Transfer          `json:"transfers"`
	Warnings           []Warning           `json:"warnings"`
}

type Totals struct {
	Subtotal        float64 `json:"subtotal"`
	TaxableSubtotal float64 `json:"taxableSubtotal"`
	TotalTax        float64 `json:"totalTax"`
	TotalFees       float64 `json:"totalFees"`
	TotalTips       float64 `json:"totalTips"`
	GrandTotal      float64 `json:"grandTotal"`
	Unallocated     float64 `json:"unallocated"`
}

type ParticipantResult struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Base     float64 `json:"base"`
	Tax      float64 `json:"tax"`
	Fees     float64 `json:"fees"`
	Tip      float64 `json:"tip"`
	Owed     float64 `json:"owed"`
	CashPaid float64 `json:"cashPaid"`
	CardPaid float64 `json:"cardPaid"`
	Prepaid  float64 `json:"prepaid"`
	Net      float64 `json:"net"`
}

type Transfer struct {
	FromID string  `json:"fromId"`
	ToID   string  `json:"toId"`
	Amount float64 `json:"amount"`
}

type Warning struct {
	Kind    string  `json:"kind"`
	Ref     string  `json:"ref"`
	Amount  float64 `json:"amount,omitempty"`
	Message string  `json:"message"`
}

// NewResult rounds a compute result for the wire.
func NewResult(r *calculator.Result) *Result {
	round := calculator.Round2
	out := &Result{
		Totals: Totals{
			Subtotal:        round(r.Totals.Subtotal),
			TaxableSubtotal: round(r.Totals.TaxableSubtotal),
			TotalTax:        round(r.Totals.TotalTax),
			TotalFees:       round(r.Totals.TotalFees),
			TotalTips:       round(r.Totals.TotalTips),
			GrandTotal:      round(r.Totals.GrandTotal),
			Unallocated:     round(r.Totals.Unallocated),
		},
		PerParticipant:     make([]ParticipantResult, len(r.People)),
		PayerID:            r.PayerID,
		AmountDue:          round(r.AmountDue),
		ShortfallToCollect: r.Shortfall,
		Transfers:          NewTransfers(r.Transfers),
		Warnings:           NewWarnings(r.Warnings),
	}
	for i, p := range r.People {
		out.PerParticipant[i] = ParticipantResult{
			ID:       p.ParticipantID,
			Name:     p.Name,
			Base:     round(p.Base),
			Tax:      round(p.Tax),
			Fees:     round(p.Fees),
			Tip:      round(p.Tip),
			Owed:     round(p.Owed),
			CashPaid: round(p.CashPaid),
			CardPaid: round(p.CardPaid),
			Prepaid:  round(p.Prepaid),
			Net:      round(p.Net),
		}
	}
	return out
}

// NewTransfers converts settlement transfers; the result is never nil.
func NewTransfers(ts []models.Transfer) []Transfer {
	out := make([]Transfer, len(ts))
	for i, t := range ts {
		out[i] = Transfer{FromID: t.FromID, ToID: t.ToID, Amount: t.Amount}
	}
	return out
}

// NewWarnings converts warnings; the result is never nil.
func NewWarnings(ws []models.Warning) []Warning {
	out := make([]Warning, len(ws))
	for i, w := range ws {
		out[i] = Warning{
			Kind:    string(w.Kind),
			Ref:     w.Ref,
			Amount:  calculator.Round2(w.Amount),
			Message: w.String(),
		}
	}
	return out
}

// ValidateResponse reports whether a document would compute.
type ValidateResponse struct {
	Valid    bool      `json:"valid"`
	Problem  *Problem  `json:"problem,omitempty"`
	Warnings []Warning `json:"warnings"`
}

// Problem is the wire form of a *models.ValidationError.
type Problem struct {
	Kind    string  `json:"kind"`
	Ref     string  `json:"ref,omitempty"`
	Actual  float64 `json:"actual,omitempty"`
	Message string  `json:"message"`
}

var problemKinds = map[error]string{
	models.ErrNoParticipants:          "noParticipants",
	models.ErrNoItems:                 "noItems",
	models.ErrSharesNotSumming100:     "sharesNotSumming100",
	models.ErrInvalidAmount:           "invalidAmount",
	models.ErrUnknownParticipant:      "unknownParticipant",
	models.ErrDuplicateID:             "duplicateId",
	models.ErrShareOutsideParticipant: "shareOutsideParticipants",
	models.ErrInvalidEnum:             "invalidEnum",
	models.ErrSelfTransfer:            "selfTransfer",
}

// NewProblem converts a validation error. It returns nil for errors that
// are not validation failures.
func NewProblem(err error) *Problem {
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		return nil
	}
	return &Problem{
		Kind:    problemKinds[verr.Kind],
		Ref:     verr.Ref,
		Actual:  verr.Actual,
		Message: verr.Error(),
	}
}

// SettleGroupRequest combines several ledgers shared by the same people
// with transfers already made between them.
type SettleGroupRequest struct {
	Ledgers          []Document `json:"ledgers"`
	Recorded         []Transfer `json:"recorded,omitempty"`
	SettlementPolicy string     `json:"settlementPolicy,omitempty"`
}

type SettleGroupResponse struct {
	Balances  []Balance  `json:"balances"`
	Transfers []Transfer `json:"transfers"`
	Warnings  []Warning  `json:"warnings"`
}

// Balance is a participant's combined net across a group.
type Balance struct {
	ID  string  `json:"id"`
	Net float64 `json:"net"`
}
