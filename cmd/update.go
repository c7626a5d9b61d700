package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/ycheng/folio"
	"github.com/ycheng/folio/renderer"
)

// updateCmd holds the flags for the 'update' subcommand.
type updateCmd struct {
	date          string
	overridesOnly bool
	dryRun        bool
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "value the portfolio and upsert the history ledger" }
func (*updateCmd) Usage() string {
	return `fv update [-d <date>] [-overrides-only] [-dry-run]

  Resolves a price for every holding, converts between USD and TWD, and
  writes the daily totals into the history ledger. Re-running for an
  existing date replaces that date's row.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date for the ledger row (defaults to today)")
	f.BoolVar(&c.overridesOnly, "overrides-only", false, "Disable online sources and rely solely on the override table")
	f.BoolVar(&c.dryRun, "dry-run", false, "Calculate and display totals without updating the ledger")
}

func (c *updateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := folio.ParseDate(c.date)
	if err != nil {
		return fail(err)
	}

	snapshot, history, err := valueAt(on, c.overridesOnly)
	if err != nil {
		return fail(err)
	}

	if c.dryRun {
		fmt.Println("Dry run - the history ledger is not updated.")
		history = history.Clone()
		history.Upsert(snapshot.Record())
	} else {
		history, err = folio.UpdateHistory(*historyFile, snapshot.Record())
		if err != nil {
			return fail(err)
		}
	}

	printMarkdown(renderer.ReportMarkdown(snapshot))
	printMarkdown(renderer.HistoryMarkdown(history, 10))
	return subcommands.ExitSuccess
}
