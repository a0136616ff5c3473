// Package api defines the JSON wire shape of tabsplit ledgers and results,
// and the Connect plumbing that carries them.
package api

import (
	"encoding/json"
	"fmt"

	"github.com/mmynk/tabsplit/internal/calculator"
	"github.com/mmynk/tabsplit/internal/models"
)

// Document is a ledger as exchanged with hosts: the body of an export file
// and the request of LedgerService.Compute.
type Document struct {
	Participants     []Participant `json:"participants"`
	Items            []Item        `json:"items"`
	Charges          []Charge      `json:"charges"`
	Expenses         []Expense     `json:"expenses,omitempty"`
	PaymentMode      string        `json:"paymentMode,omitempty"`
	SettlementPolicy string        `json:"settlementPolicy,omitempty"`
}

type Participant struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	TipPercent float64 `json:"tipPercent"`
	TipBasis   string  `json:"tipBasis,omitempty"`
	CashOnHand float64 `json:"cashOnHand"`
	IsPayer    bool    `json:"isPayer,omitempty"`
}

type Item struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Taxable     bool     `json:"taxable"`
	OwnerIDs    []string `json:"ownerIds"`
}

type Charge struct {
	ID                    string  `json:"id"`
	Kind                  string  `json:"kind"`
	Label                 string  `json:"label,omitempty"`
	Amount                float64 `json:"amount"`
	AllocateByTaxableBase *bool   `json:"allocateByTaxableBase,omitempty"`
	SplitEvenly           bool    `json:"splitEvenly,omitempty"`
}

type Expense struct {
	ID             string      `json:"id"`
	Description    string      `json:"description,omitempty"`
	Amount         float64     `json:"amount"`
	PayerID        string      `json:"payerId,omitempty"`
	ParticipantIDs []string    `json:"participantIds"`
	SplitMode      string      `json:"splitMode,omitempty"`
	Shares         []Share     `json:"shares,omitempty"`
	Surcharges     []Surcharge `json:"surcharges,omitempty"`
}

type Share struct {
	ParticipantID string  `json:"participantId"`
	Percent       float64 `json:"percent"`
}

type Surcharge struct {
	Kind  string  `json:"kind"`
	Mode  string  `json:"mode"`
	Value float64 `json:"value"`
}

// EncodeDocument renders a document as indented JSON.
func EncodeDocument(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeDocument parses a document. Unknown fields are ignored so exports
// from newer hosts still load.
func DecodeDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &doc, nil
}

// Ledger converts the document into a validated snapshot.
func (d *Document) Ledger() (*models.Ledger, error) {
	participants := make([]models.Participant, len(d.Participants))
	for i, p := range d.Participants {
		participants[i] = models.Participant{
			ID:         p.ID,
			Name:       p.Name,
			TipPercent: p.TipPercent,
			TipBasis:   models.TipBasis(p.TipBasis),
			CashOnHand: p.CashOnHand,
			IsPayer:    p.IsPayer,
		}
	}

	items := make([]models.Item, len(d.Items))
	for i, it := range d.Items {
		items[i] = models.Item{
			ID:          it.ID,
			Description: it.Description,
			Price:       it.Price,
			Taxable:     it.Taxable,
			OwnerIDs:    it.OwnerIDs,
		}
	}

	charges := make([]models.Charge, len(d.Charges))
	for i, c := range d.Charges {
		charges[i] = models.Charge{
			ID:                    c.ID,
			Kind:                  models.ChargeKind(c.Kind),
			Label:                 c.Label,
			Amount:                c.Amount,
			AllocateByTaxableBase: c.AllocateByTaxableBase,
			SplitEvenly:           c.SplitEvenly,
		}
	}

	expenses := make([]models.Expense, len(d.Expenses))
	for i, e := range d.Expenses {
		shares := make([]models.Share, len(e.Shares))
		for j, s := range e.Shares {
			shares[j] = models.Share{ParticipantID: s.ParticipantID, Percent: s.Percent}
		}
		surcharges := make([]models.Surcharge, len(e.Surcharges))
		for j, s := range e.Surcharges {
			surcharges[j] = models.Surcharge{
				Kind:  models.SurchargeKind(s.Kind),
				Mode:  models.SurchargeMode(s.Mode),
				Value: s.Value,
			}
		}
		expenses[i] = models.Expense{
			ID:             e.ID,
			Description:    e.Description,
			Amount:         e.Amount,
			PayerID:        e.PayerID,
			ParticipantIDs: e.ParticipantIDs,
			SplitMode:      models.SplitMode(e.SplitMode),
			Shares:         shares,
			Surcharges:     surcharges,
		}
	}

	return models.NewLedger(participants, items, charges, expenses)
}

// Options returns the compute options named by the document, falling back
// to defaults for fields it leaves empty.
func (d *Document) Options(defaults calculator.Options) calculator.Options {
	opts := defaults
	if d.PaymentMode != "" {
		opts.PaymentMode = calculator.PaymentMode(d.PaymentMode)
	}
	if d.SettlementPolicy != "" {
		opts.SettlementPolicy = calculator.SettlementPolicy(d.SettlementPolicy)
	}
	return opts
}

// NewDocument is the inverse of Document.Ledger.
func NewDocument(l *models.Ledger, opts calculator.Options) *Document {
	doc := &Document{
		Participants:     []Participant{},
		Items:            []Item{},
		Charges:          []Charge{},
		PaymentMode:      string(opts.PaymentMode),
		SettlementPolicy: string(opts.SettlementPolicy),
	}
	for _, p := range l.Participants() {
		doc.Participants = append(doc.Participants, Participant{
			ID:         p.ID,
			Name:       p.Name,
			TipPercent: p.TipPercent,
			TipBasis:   string(p.TipBasis),
			CashOnHand: p.CashOnHand,
			IsPayer:    p.IsPayer,
		})
	}
	for _, it := range l.Items() {
		doc.Items = append(doc.Items, Item{
			ID:          it.ID,
			Description: it.Description,
			Price:       it.Price,
			Taxable:     it.Taxable,
			OwnerIDs:    it.OwnerIDs,
		})
	}
	for _, c := range l.Charges() {
		doc.Charges = append(doc.Charges, Charge{
			ID:                    c.ID,
			Kind:                  string(c.Kind),
			Label:                 c.Label,
			Amount:                c.Amount,
			AllocateByTaxableBase: c.AllocateByTaxableBase,
			SplitEvenly:           c.SplitEvenly,
		})
	}
	for _, e := range l.Expenses() {
		out := Expense{
			ID:             e.ID,
			Description:    e.Description,
			Amount:         e.Amount,
			PayerID:        e.PayerID,
			ParticipantIDs: e.ParticipantIDs,
			SplitMode:      string(e.SplitMode),
		}
		for _, s := range e.Shares {
			out.Shares = append(out.Shares, Share{ParticipantID: s.ParticipantID, Percent: s.Percent})
		}
		for _, s := range e.Surcharges {
			out.Surcharges = append(out.Surcharges, Surcharge{Kind: string(s.Kind), Mode: string(s.Mode), Value: s.Value})
		}
		doc.Expenses = append(doc.Expenses, out)
	}
	return doc
}
