package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/ycheng/folio"
	"github.com/ycheng/folio/web"
)

// webCmd holds the flags for the 'web' subcommand.
type webCmd struct {
	addr          string
	overridesOnly bool
}

func (*webCmd) Name() string     { return "web" }
func (*webCmd) Synopsis() string { return "serve the portfolio dashboard" }
func (*webCmd) Usage() string {
	return `fv web [-http <addr>] [-overrides-only]

  Serves a read-only dashboard with the current valuation and the
  history charts. Prices are re-resolved on each page load (cached for
  the day); the ledger is never written.
`
}

func (c *webCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "http", "localhost:8080", "Address to listen on")
	f.BoolVar(&c.overridesOnly, "overrides-only", false, "Disable online sources and rely solely on the override table")
}

func (c *webCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	server := web.New(
		func() (*folio.Snapshot, error) {
			snapshot, _, err := valueAt(folio.Today(), c.overridesOnly)
			return snapshot, err
		},
		func() (*folio.History, error) {
			return folio.LoadHistory(*historyFile)
		},
	)
	if err := server.ListenAndServe(c.addr); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
