package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/epeers/watchlist/config"
	"github.com/epeers/watchlist/internal/app"
	"github.com/epeers/watchlist/internal/report"
	"github.com/epeers/watchlist/internal/services"
	"github.com/google/subcommands"
)

// run loads the configuration, builds the app and hands it to fn
func run(ctx context.Context, fn func(ctx context.Context, a *app.App) error) subcommands.ExitStatus {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := app.ConfigureLogging(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if err := fn(ctx, a); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// printMarkdown renders md for the terminal, or prints it raw when plain is set
func printMarkdown(md string, plain bool) error {
	if plain {
		fmt.Print(md)
		return nil
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

type provisionCmd struct{}

func (*provisionCmd) Name() string     { return "provision" }
func (*provisionCmd) Synopsis() string { return "create or migrate a user's tenant store" }
func (*provisionCmd) Usage() string {
	return `watchlistctl provision <username>

  Creates the tenant store for username if missing and applies any pending
  migrations. Safe to run repeatedly.
`
}
func (*provisionCmd) SetFlags(*flag.FlagSet) {}

func (*provisionCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return run(ctx, func(ctx context.Context, a *app.App) error {
		store, err := a.Tenants.EnsureTenant(ctx, f.Arg(0))
		if err != nil {
			return err
		}
		version, err := a.Tenants.Version(ctx, store.Username)
		if err != nil {
			return err
		}
		fmt.Printf("%s at schema version %d\n", store.Schema, version)
		return nil
	})
}

type teardownCmd struct {
	force bool
}

func (*teardownCmd) Name() string     { return "teardown" }
func (*teardownCmd) Synopsis() string { return "drop a user's tenant store and everything in it" }
func (*teardownCmd) Usage() string {
	return `watchlistctl teardown -force <username>

  Drops the tenant store of username, including its account, portfolios
  and cached points.
`
}

func (c *teardownCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "force", false, "confirm the store should be dropped")
}

func (c *teardownCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	if !c.force {
		fmt.Fprintln(os.Stderr, "refusing to drop without -force")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(ctx context.Context, a *app.App) error {
		if err := a.Tenants.Drop(ctx, f.Arg(0)); err != nil {
			return err
		}
		fmt.Printf("dropped tenant store of %s\n", f.Arg(0))
		return nil
	})
}

type tenantsCmd struct{}

func (*tenantsCmd) Name() string             { return "tenants" }
func (*tenantsCmd) Synopsis() string         { return "list tenant stores" }
func (*tenantsCmd) Usage() string            { return "watchlistctl tenants\n" }
func (*tenantsCmd) SetFlags(f *flag.FlagSet) {}

func (*tenantsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *app.App) error {
		names, err := a.Tenants.Tenants(ctx)
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	})
}

type summaryCmd struct {
	plain    bool
	currency string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display a portfolio and its cached data" }
func (*summaryCmd) Usage() string {
	return `watchlistctl summary [-plain] [-currency USD] <username> <portfolio>

  Displays the portfolio window, access mode and per-ticker statistics.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.plain, "plain", false, "print markdown without terminal styling")
	f.StringVar(&c.currency, "currency", report.DefaultCurrency, "currency used to display prices")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	username, name := f.Arg(0), f.Arg(1)
	return run(ctx, func(ctx context.Context, a *app.App) error {
		summary, err := a.Portfolios.GetSummary(ctx, username, name)
		if err != nil {
			return err
		}
		stats, err := a.Portfolios.TickerStats(ctx, username, name)
		if err != nil {
			return err
		}
		return printMarkdown(report.PortfolioMarkdown(summary, stats, c.currency), c.plain)
	})
}

type refreshCmd struct {
	plain bool
}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "fetch and store new points for a portfolio" }
func (*refreshCmd) Usage() string {
	return `watchlistctl refresh [-plain] <username> <portfolio>

  Fetches the portfolio window for every member ticker and stores points
  that are not cached yet.
`
}

func (c *refreshCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.plain, "plain", false, "print markdown without terminal styling")
}

func (c *refreshCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	username, name := f.Arg(0), f.Arg(1)
	return run(ctx, func(ctx context.Context, a *app.App) error {
		ctx, wc := services.NewWarningContext(ctx)
		outcomes, err := a.Portfolios.RefreshPortfolio(ctx, username, name)
		if err != nil {
			return err
		}
		return printMarkdown(report.RefreshMarkdown(name, outcomes, wc.GetWarnings()), c.plain)
	})
}
