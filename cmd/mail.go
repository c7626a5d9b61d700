package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/ycheng/folio"
	"github.com/ycheng/folio/mail"
)

// mailCmd holds the flags for the 'mail' subcommand.
type mailCmd struct {
	to            string
	from          string
	smtpAddr      string
	user          string
	overridesOnly bool
}

func (*mailCmd) Name() string     { return "mail" }
func (*mailCmd) Synopsis() string { return "send the daily valuation report by email" }
func (*mailCmd) Usage() string {
	return `fv mail -to <addr> [-from <addr>] [-smtp <host:port>] [-user <name>]

  Values the portfolio and sends the report as a plain-text email. The
  SMTP password is read from the SMTP_PASSWORD environment variable.
`
}

func (c *mailCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.to, "to", "", "Recipient address (required)")
	f.StringVar(&c.from, "from", "fv@localhost", "Sender address")
	f.StringVar(&c.smtpAddr, "smtp", "localhost:25", "SMTP server address")
	f.StringVar(&c.user, "user", "", "SMTP username, empty for an unauthenticated relay")
	f.BoolVar(&c.overridesOnly, "overrides-only", false, "Disable online sources and rely solely on the override table")
}

func (c *mailCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.to == "" {
		fmt.Fprintln(os.Stderr, "Error: -to is required")
		return subcommands.ExitUsageError
	}

	snapshot, _, err := valueAt(folio.Today(), c.overridesOnly)
	if err != nil {
		return fail(err)
	}

	subject, body := mail.Compose(snapshot)
	smtp := mail.SMTP{
		Addr:     c.smtpAddr,
		Username: c.user,
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     c.from,
		To:       c.to,
	}
	if err := smtp.Send(subject, body); err != nil {
		return fail(err)
	}
	fmt.Printf("Report for %s sent to %s\n", snapshot.Date, c.to)
	return subcommands.ExitSuccess
}
