package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/mmynk/tabsplit/internal/auth"
)

type tokenCmd struct {
	secret string
	ttl    time.Duration
}

func (*tokenCmd) Name() string     { return "token" }
func (*tokenCmd) Synopsis() string { return "mint a service token for a client" }
func (*tokenCmd) Usage() string {
	return `tabsplit token [-secret <secret>] [-ttl <duration>] <client>

  Prints a bearer token accepted by a server started with the same
  AUTH_SECRET.
`
}

func (c *tokenCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.secret, "secret", os.Getenv("AUTH_SECRET"), "Signing secret (defaults to $AUTH_SECRET).")
	f.DurationVar(&c.ttl, "ttl", 720*time.Hour, "How long the token stays valid.")
}

func (c *tokenCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	if c.secret == "" {
		fmt.Fprintln(os.Stderr, "a signing secret is required: pass -secret or set AUTH_SECRET")
		return subcommands.ExitUsageError
	}

	token, err := auth.NewJWTManager(c.secret, c.ttl).Generate(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintln(stdout, token)
	return subcommands.ExitSuccess
}
