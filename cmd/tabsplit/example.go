package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/mmynk/tabsplit/internal/calculator"
	"github.com/mmynk/tabsplit/internal/models"
	"github.com/mmynk/tabsplit/pkg/api"
)

type exampleCmd struct {
	mode string
}

func (*exampleCmd) Name() string     { return "example" }
func (*exampleCmd) Synopsis() string { return "print a sample dinner ledger" }
func (*exampleCmd) Usage() string {
	return `tabsplit example [-mode cashOnly|cardAllowed]

  Prints a ledger for three people sharing dinner: D, Joe and Adam, with
  sales tax on every dish and their own tips. Use it as a starting point
  for your own ledger files.
`
}

func (c *exampleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.mode, "mode", string(calculator.CashOnly), "Payment mode recorded in the ledger.")
}

func (c *exampleCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	mode, err := calculator.ParsePaymentMode(c.mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	ledger, err := dinner()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	data, err := api.EncodeDocument(api.NewDocument(ledger, calculator.Options{
		PaymentMode:      mode,
		SettlementPolicy: calculator.SortedDescending,
	}))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if _, err := stdout.Write(data); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// dinner builds the sample ledger through a Draft, the way a host would.
func dinner() (*models.Ledger, error) {
	d := models.NewDraft()
	me := d.AddParticipant(models.Participant{ID: "d", Name: "D", TipPercent: 20, CashOnHand: 10})
	joe := d.AddParticipant(models.Participant{ID: "joe", Name: "Joe", CashOnHand: 20})
	adam := d.AddParticipant(models.Participant{ID: "adam", Name: "Adam", TipPercent: 20})

	items := []models.Item{
		{ID: "burger", Description: "Burger", Price: 12, Taxable: true, OwnerIDs: []string{joe}},
		{ID: "pasta", Description: "Pasta", Price: 15, Taxable: true, OwnerIDs: []string{me}},
		{ID: "salad", Description: "Salad", Price: 8, Taxable: true, OwnerIDs: []string{adam}},
		{ID: "drinks", Description: "Drinks", Price: 9, Taxable: true, OwnerIDs: []string{me, joe, adam}},
	}
	for _, it := range items {
		if _, err := d.AddItem(it); err != nil {
			return nil, err
		}
	}
	d.AddCharge(models.Charge{ID: "tax", Kind: models.ChargeTax, Label: "Sales Tax", Amount: 4.40})

	return d.Snapshot()
}
