// Package mail composes and delivers the daily valuation report over
// SMTP.
package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/ycheng/folio"
)

// SMTP holds the delivery settings. Username and Password are optional;
// when empty the message is sent without authentication (local relay).
type SMTP struct {
	Addr     string // host:port
	Username string
	Password string
	From     string
	To       string
}

// Compose builds the subject and the plain-text body of the daily
// report.
func Compose(s *folio.Snapshot) (subject, body string) {
	subject = fmt.Sprintf("Portfolio report %s", s.Date)

	var b strings.Builder
	fmt.Fprintf(&b, "Portfolio value on %s\n", s.Date)
	fmt.Fprintf(&b, "  Total USD: %s\n", s.TotalUSD)
	fmt.Fprintf(&b, "  Total TWD: %s\n", s.TotalTWD)
	if s.DailyReturn != nil {
		fmt.Fprintf(&b, "  Daily return: %s\n", s.DailyReturn)
	}
	fmt.Fprintf(&b, "  Exchange rate: %s\n", s.Rate)

	if len(s.Holdings) > 0 {
		b.WriteString("\nHoldings:\n")
		for _, h := range s.Holdings {
			pl := "n/a"
			if h.UnrealizedPL != nil {
				pl = h.UnrealizedPL.SignedString()
			}
			fmt.Fprintf(&b, "  %-10s %10s x %-12s %14s (%s)  P/L %s  [%s]\n",
				h.Symbol, h.Shares, h.Price, h.ValueUSD, h.Weight, pl, h.Source)
		}
	}
	if len(s.Cash) > 0 {
		b.WriteString("\nCash:\n")
		for _, c := range s.Cash {
			if c.Convertible {
				fmt.Fprintf(&b, "  %-10s %14s (%s)\n", c.Currency, c.ValueUSD, c.Weight)
			} else {
				fmt.Fprintf(&b, "  %-10s %14s (excluded)\n", c.Currency, c.Amount)
			}
		}
	}
	for _, w := range s.Warnings {
		fmt.Fprintf(&b, "\nWarning: %s\n", w)
	}
	return subject, b.String()
}

// Send delivers a plain-text message.
func (c SMTP) Send(subject, body string) error {
	msg := strings.Join([]string{
		"From: " + c.From,
		"To: " + c.To,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if c.Username != "" {
		host := c.Addr
		if i := strings.IndexByte(host, ':'); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", c.Username, c.Password, host)
	}
	if err := smtp.SendMail(c.Addr, auth, c.From, []string{c.To}, []byte(msg)); err != nil {
		return fmt.Errorf("cannot send report to %s: %w", c.To, err)
	}
	return nil
}
