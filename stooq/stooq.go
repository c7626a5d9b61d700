// Package stooq fetches daily close prices from the Stooq CSV download
// endpoint. It is the secondary quote source of the resolution chain.
package stooq

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/ycheng/folio"
)

const defaultBaseURL = "https://stooq.com"

// Source fetches prices from the Stooq daily data endpoint.
type Source struct {
	BaseURL string
	Client  *http.Client
}

// New returns a source over the public Stooq endpoint, with the daily
// caching client.
func New() *Source {
	return &Source{BaseURL: defaultBaseURL, Client: folio.DailyClient()}
}

func (s *Source) Name() string { return "stooq" }

// normalize converts a ticker to the Stooq format: plain US tickers
// carry a ".US" suffix, exchange-qualified ones are kept as is.
func normalize(symbol string) string {
	if !strings.Contains(symbol, ".") {
		symbol += ".US"
	}
	return strings.ToLower(symbol)
}

// Fetch implements folio.QuoteSource with the close of the most recent
// daily row.
func (s *Source) Fetch(symbol string) (decimal.Decimal, error) {
	addr := fmt.Sprintf("%s/q/d/l/?s=%s&i=d", s.BaseURL, url.QueryEscape(normalize(symbol)))

	body, err := folio.GetText(s.Client, addr)
	if err != nil {
		return decimal.Zero, err
	}
	// Stooq answers unknown symbols with a plain text notice instead of CSV.
	if !strings.HasPrefix(body, "Date,") {
		return decimal.Zero, fmt.Errorf("no daily data for %q: %w", symbol, folio.ErrNotFound)
	}

	rows, err := csv.NewReader(strings.NewReader(body)).ReadAll()
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid daily data for %q: %v: %w", symbol, err, folio.ErrMalformed)
	}
	if len(rows) < 2 {
		return decimal.Zero, fmt.Errorf("no daily rows for %q: %w", symbol, folio.ErrNotFound)
	}

	closeCol := -1
	for i, name := range rows[0] {
		if name == "Close" {
			closeCol = i
		}
	}
	if closeCol < 0 {
		return decimal.Zero, fmt.Errorf("no Close column for %q: %w", symbol, folio.ErrMalformed)
	}

	// rows are date-ascending, the last one is the latest session
	last := rows[len(rows)-1]
	price, err := decimal.NewFromString(last[closeCol])
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid close %q for %q: %w", last[closeCol], symbol, folio.ErrMalformed)
	}
	return price, nil
}
