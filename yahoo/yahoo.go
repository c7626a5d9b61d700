// Package yahoo fetches latest prices from the Yahoo Finance chart API.
// It is the primary quote source of the resolution chain and, through
// the USDTWD=X pair, the live exchange-rate source.
package yahoo

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
	"github.com/ycheng/folio"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// pricePath extracts the latest market price from a chart response.
const pricePath = "$.chart.result[0].meta.regularMarketPrice"

// Source fetches prices from Yahoo Finance.
type Source struct {
	BaseURL string
	Client  *http.Client
}

// New returns a source over the public Yahoo endpoint, with the daily
// caching client.
func New() *Source {
	return &Source{BaseURL: defaultBaseURL, Client: folio.DailyClient()}
}

func (s *Source) Name() string { return "yahoo" }

// Fetch implements folio.QuoteSource.
func (s *Source) Fetch(symbol string) (decimal.Decimal, error) {
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?range=1d&interval=1d", s.BaseURL, url.PathEscape(symbol))

	var jobj any
	if err := folio.GetJSON(s.Client, addr, &jobj); err != nil {
		return decimal.Zero, err
	}

	jval, err := jsonpath.Get(pricePath, jobj)
	if err != nil {
		return decimal.Zero, fmt.Errorf("no market price for %q in chart response: %w", symbol, folio.ErrMalformed)
	}
	// because jsonpath is never clear about whether it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return decimal.Zero, fmt.Errorf("market price for %q is not a number (%v): %w", symbol, jval, folio.ErrMalformed)
	}
	return decimal.NewFromFloat(val), nil
}

// Rate implements folio.RateSource with the USDTWD=X pair, expressed as
// TWD per USD.
func (s *Source) Rate() (decimal.Decimal, error) {
	return s.Fetch(folio.USD + folio.TWD + "=X")
}
