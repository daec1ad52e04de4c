// Command watchlistctl administers tenant stores and portfolios directly
// against the database.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	commander.Register(&provisionCmd{}, "tenants")
	commander.Register(&teardownCmd{}, "tenants")
	commander.Register(&tenantsCmd{}, "tenants")

	commander.Register(&summaryCmd{}, "portfolios")
	commander.Register(&refreshCmd{}, "portfolios")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
