package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/ycheng/folio"
	"github.com/ycheng/folio/renderer"
)

// historyCmd holds the flags for the 'history' subcommand.
type historyCmd struct {
	rows int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the history ledger" }
func (*historyCmd) Usage() string {
	return `fv history [-n <rows>]

  Displays the last rows of the history ledger as a table.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.rows, "n", 30, "Number of rows to display, 0 for all")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	history, err := folio.LoadHistory(*historyFile)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.HistoryMarkdown(history, c.rows))
	return subcommands.ExitSuccess
}
