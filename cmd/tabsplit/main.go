// Command tabsplit splits a shared bill from a ledger file.
//
//	tabsplit example > dinner.json
//	tabsplit compute dinner.json
//	tabsplit validate dinner.json
//	tabsplit token -secret $AUTH_SECRET kiosk
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/mmynk/tabsplit/pkg/logging"
)

func main() {
	logging.Setup()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// register adds the tabsplit subcommands.
func register(c *subcommands.Commander) {
	c.Register(&computeCmd{}, "ledger")
	c.Register(&validateCmd{}, "ledger")
	c.Register(&exampleCmd{}, "ledger")
	c.Register(&tokenCmd{}, "server")
}
