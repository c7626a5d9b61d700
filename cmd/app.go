// Package cmd implements the CLI application to value the portfolio.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/ycheng/folio"
	"github.com/ycheng/folio/stooq"
	"github.com/ycheng/folio/twse"
	"github.com/ycheng/folio/yahoo"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&updateCmd{}, "valuation")
	c.Register(&summaryCmd{}, "valuation")
	c.Register(&historyCmd{}, "valuation")

	c.Register(&webCmd{}, "serving")
	c.Register(&mailCmd{}, "serving")
	c.Register(&watchCmd{}, "serving")

	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var portfolioFile = flag.String("portfolio-file", "portfolio.json", "Path to the portfolio definition file (JSON)")
var overridesFile = flag.String("overrides-file", "price_overrides.json", "Path to the local price override table (JSON)")
var historyFile = flag.String("history-file", "history.csv", "Path to the history ledger file (CSV)")

// valueAt runs the whole resolution pipeline for one date and returns
// the snapshot together with the ledger it was computed against.
func valueAt(on folio.Date, overridesOnly bool) (*folio.Snapshot, *folio.History, error) {
	p, err := folio.LoadPortfolio(*portfolioFile)
	if err != nil {
		return nil, nil, err
	}
	overrides, err := folio.LoadOverrides(*overridesFile)
	if err != nil {
		return nil, nil, err
	}
	history, err := folio.LoadHistory(*historyFile)
	if err != nil {
		return nil, nil, err
	}

	resolver := folio.NewResolver(overridesOnly, yahoo.New(), twse.New(), stooq.New(), overrides)
	prices, err := resolver.ResolveAll(p.Symbols())
	if err != nil {
		return nil, nil, err
	}

	var live folio.RateSource
	if !overridesOnly {
		live = yahoo.New()
	}
	converter, err := folio.ResolveRate(live, overrides)
	if err != nil {
		return nil, nil, err
	}

	snapshot, err := folio.Value(p, prices, converter, on, history.Prior(on))
	if err != nil {
		return nil, nil, err
	}
	return snapshot, history, nil
}

// printMarkdown renders markdown for the terminal, falling back to the
// raw text when the terminal renderer is not usable.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Println(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}

// fail prints the error and converts it to an exit status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}
