package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"

	"connectrpc.com/connect"
	"github.com/google/subcommands"

	"github.com/mmynk/tabsplit/internal/calculator"
	"github.com/mmynk/tabsplit/internal/middleware"
	"github.com/mmynk/tabsplit/pkg/api"
)

type computeCmd struct {
	mode     string
	policy   string
	currency string
	asJSON   bool
	server   string
	token    string
}

func (*computeCmd) Name() string { return "compute" }
func (*computeCmd) Synopsis() string {
	return "split a ledger and print who pays whom"
}
func (*computeCmd) Usage() string {
	return `tabsplit compute [-mode cashOnly|cardAllowed] [-policy sortedDescending|inputOrder] [-json] [-server <url>] <ledger.json|->

  Allocates every item, charge and expense of the ledger, works out what
  the payer must cover at the counter and prints the transfers that settle
  everyone up. With -server the computation runs on a tabsplit server.
`
}

func (c *computeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.mode, "mode", "", "Payment mode at the counter (cashOnly, cardAllowed); overrides the ledger.")
	f.StringVar(&c.policy, "policy", "", "Settlement ordering (sortedDescending, inputOrder); overrides the ledger.")
	f.StringVar(&c.currency, "currency", "USD", "ISO 4217 code used to display amounts.")
	f.BoolVar(&c.asJSON, "json", false, "Print the result as JSON instead of a report.")
	f.StringVar(&c.server, "server", "", "Base URL of a tabsplit server to compute on.")
	f.StringVar(&c.token, "token", os.Getenv("TABSPLIT_TOKEN"), "Service token for -server.")
}

func (c *computeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	doc, err := readDocument(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	// Pin the options so the report and a remote server agree on them.
	opts := doc.Options(calculator.Options{
		PaymentMode:      calculator.CardAllowed,
		SettlementPolicy: calculator.SortedDescending,
	})
	if c.mode != "" {
		opts.PaymentMode = calculator.PaymentMode(c.mode)
	}
	if c.policy != "" {
		opts.SettlementPolicy = calculator.SettlementPolicy(c.policy)
	}
	doc.PaymentMode = string(opts.PaymentMode)
	doc.SettlementPolicy = string(opts.SettlementPolicy)

	var result *api.Result
	if c.server != "" {
		result, err = c.computeRemote(ctx, doc)
	} else {
		result, err = computeLocal(doc)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if c.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	r := &report{doc: doc, result: result, money: newFormatter(c.currency)}
	if err := r.write(stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func computeLocal(doc *api.Document) (*api.Result, error) {
	ledger, err := doc.Ledger()
	if err != nil {
		return nil, err
	}
	result, err := calculator.Compute(ledger, doc.Options(calculator.Options{}))
	if err != nil {
		return nil, err
	}
	return api.NewResult(result), nil
}

func (c *computeCmd) computeRemote(ctx context.Context, doc *api.Document) (*api.Result, error) {
	var opts []connect.ClientOption
	if c.token != "" {
		opts = append(opts, connect.WithInterceptors(middleware.BearerToken(c.token)))
	}
	client := api.NewLedgerServiceClient(http.DefaultClient, c.server, opts...)
	resp, err := client.Compute(ctx, connect.NewRequest(doc))
	if err != nil {
		return nil, fmt.Errorf("compute on %s: %w", c.server, err)
	}
	return resp.Msg, nil
}
