package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/mmynk/tabsplit/internal/calculator"
	"github.com/mmynk/tabsplit/pkg/api"
)

// formatter renders amounts in one currency.
type formatter struct {
	cur money.Currency
}

func newFormatter(code string) formatter {
	// money.New never returns a nil currency, unlike money.GetCurrency.
	return formatter{cur: *money.New(0, code).Currency()}
}

func (f formatter) format(amount float64) string {
	minor := decimal.NewFromFloat(amount).Shift(int32(f.cur.Fraction)).Round(0)
	return f.cur.Formatter().Format(minor.IntPart())
}

// report prints a computed result for people standing at the counter.
// doc.PaymentMode must be the mode the result was computed with.
type report struct {
	doc    *api.Document
	result *api.Result
	money  formatter
}

func (r *report) names() map[string]string {
	names := make(map[string]string, len(r.result.PerParticipant))
	for _, p := range r.result.PerParticipant {
		name := p.Name
		if name == "" {
			name = p.ID
		}
		names[p.ID] = name
	}
	return names
}

func (r *report) write(w io.Writer) error {
	m := r.money.format
	names := r.names()
	t := r.result.Totals

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Totals")
	fmt.Fprintf(tw, "  Subtotal\t%s\n", m(t.Subtotal))
	fmt.Fprintf(tw, "  Tax\t%s\n", m(t.TotalTax))
	if t.TotalFees != 0 {
		fmt.Fprintf(tw, "  Fees and discounts\t%s\n", m(t.TotalFees))
	}
	fmt.Fprintf(tw, "  Tips\t%s\n", m(t.TotalTips))
	fmt.Fprintf(tw, "  Grand total\t%s\n", m(t.GrandTotal))
	if t.Unallocated != 0 {
		fmt.Fprintf(tw, "  Not allocated\t%s\n", m(t.Unallocated))
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "Per participant")
	fmt.Fprintln(tw, "  Name\tBase\tTax\tFees\tTip\tOwes\tPaid\tNet")
	for _, p := range r.result.PerParticipant {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			names[p.ID], m(p.Base), m(p.Tax), m(p.Fees), m(p.Tip), m(p.Owed),
			m(p.CashPaid+p.CardPaid+p.Prepaid), m(p.Net))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "At the counter")
	var cash float64
	for _, p := range r.doc.Participants {
		cash += p.CashOnHand
	}
	fmt.Fprintf(w, "  Due %s, cash on the table %s.\n", m(r.result.AmountDue), m(cash))
	payer := names[r.result.PayerID]
	switch short := r.result.ShortfallToCollect; {
	case short <= 0:
		fmt.Fprintln(w, "  The cash covers the bill.")
	case r.doc.PaymentMode == string(calculator.CashOnly):
		fmt.Fprintf(w, "  %s withdraws %s in cash and pays the bill.\n", payer, m(short))
	default:
		fmt.Fprintf(w, "  %s puts %s on their card.\n", payer, m(short))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Settle up")
	if len(r.result.Transfers) == 0 {
		fmt.Fprintln(w, "  Everyone is square.")
	}
	for _, tr := range r.result.Transfers {
		fmt.Fprintf(w, "  %s pays %s %s\n", names[tr.FromID], names[tr.ToID], m(tr.Amount))
	}

	if len(r.result.Warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Warnings")
		for _, wn := range r.result.Warnings {
			fmt.Fprintf(w, "  - %s\n", wn.Message)
		}
	}
	return nil
}
