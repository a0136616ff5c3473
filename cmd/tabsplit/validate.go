package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/mmynk/tabsplit/internal/calculator"
)

type validateCmd struct{}

func (*validateCmd) Name() string     { return "validate" }
func (*validateCmd) Synopsis() string { return "check a ledger without settling it" }
func (*validateCmd) Usage() string {
	return `tabsplit validate <ledger.json|->

  Reports the first problem that would stop the ledger from computing, or
  prints "ok" followed by any warnings.
`
}

func (*validateCmd) SetFlags(*flag.FlagSet) {}

func (c *validateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	doc, err := readDocument(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	ledger, err := doc.Ledger()
	if err == nil {
		err = calculator.ValidateLedger(ledger)
	}
	if err == nil {
		opts := doc.Options(calculator.Options{})
		if _, err = calculator.ParsePaymentMode(string(opts.PaymentMode)); err == nil {
			_, err = calculator.ParseSettlementPolicy(string(opts.SettlementPolicy))
		}
	}
	if err != nil {
		fmt.Fprintf(stdout, "invalid: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Fprintln(stdout, "ok")
	warnings := calculator.CheckAllocation(ledger, calculator.Allocate(ledger))
	warnings = append(warnings, calculator.CheckBalances(ledger)...)
	for _, w := range warnings {
		fmt.Fprintf(stdout, "warning: %s\n", w)
	}
	return subcommands.ExitSuccess
}
