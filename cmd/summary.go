package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/ycheng/folio"
	"github.com/ycheng/folio/renderer"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	date          string
	overridesOnly bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the portfolio valuation without touching history" }
func (*summaryCmd) Usage() string {
	return `fv summary [-d <date>] [-overrides-only]

  Values the portfolio and displays the full breakdown. The history
  ledger is read for the daily return but never written.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date for the report (defaults to today)")
	f.BoolVar(&c.overridesOnly, "overrides-only", false, "Disable online sources and rely solely on the override table")
}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := folio.ParseDate(c.date)
	if err != nil {
		return fail(err)
	}
	snapshot, _, err := valueAt(on, c.overridesOnly)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.ReportMarkdown(snapshot))
	return subcommands.ExitSuccess
}
