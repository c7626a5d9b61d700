package cmd

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/google/subcommands"
	"github.com/robfig/cron/v3"
	"github.com/ycheng/folio"
)

// watchCmd holds the flags for the 'watch' subcommand.
type watchCmd struct {
	schedule      string
	overridesOnly bool
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "run the daily update on a schedule" }
func (*watchCmd) Usage() string {
	return `fv watch [-schedule <cron spec>] [-overrides-only]

  Runs an update on a cron schedule (default: once a day) until
  interrupted. A failed run is logged and the next one proceeds; the
  ledger keeps whatever the last successful run wrote.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.schedule, "schedule", "@daily", "Cron schedule for the update")
	f.BoolVar(&c.overridesOnly, "overrides-only", false, "Disable online sources and rely solely on the override table")
}

func (c *watchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	runner := cron.New()
	_, err := runner.AddFunc(c.schedule, func() {
		on := folio.Today()
		snapshot, _, err := valueAt(on, c.overridesOnly)
		if err != nil {
			log.Printf("scheduled update for %s failed: %v", on, err)
			return
		}
		if _, err := folio.UpdateHistory(*historyFile, snapshot.Record()); err != nil {
			log.Printf("scheduled update for %s failed: %v", on, err)
			return
		}
		log.Printf("scheduled update for %s: %s / %s", on, snapshot.TotalUSD, snapshot.TotalTWD)
	})
	if err != nil {
		return fail(err)
	}

	runner.Start()
	log.Printf("watching with schedule %q, interrupt to stop", c.schedule)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	<-interrupt

	<-runner.Stop().Done()
	return subcommands.ExitSuccess
}
