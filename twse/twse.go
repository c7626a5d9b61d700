// Package twse fetches latest prices from the Taiwan Stock Exchange
// market information system. It is the regional quote source of the
// resolution chain, consulted only for ".TW" symbols.
package twse

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/ycheng/folio"
)

const defaultBaseURL = "https://mis.twse.com.tw"

// Source fetches prices from the TWSE quote endpoint.
type Source struct {
	BaseURL string
	Client  *http.Client
}

// New returns a source over the public TWSE endpoint, with the daily
// caching client.
func New() *Source {
	return &Source{BaseURL: defaultBaseURL, Client: folio.DailyClient()}
}

func (s *Source) Name() string { return "twse" }

// channel converts a ".TW" symbol to the TWSE quote channel, e.g.
// "2330.TW" becomes "tse_2330.tw".
func channel(symbol string) string {
	return "tse_" + strings.ToLower(symbol)
}

// Fetch implements folio.QuoteSource. Symbols without the ".TW" suffix
// are not TWSE listings and report ErrNotFound without a network call.
func (s *Source) Fetch(symbol string) (decimal.Decimal, error) {
	if !folio.IsTW(symbol) {
		return decimal.Zero, fmt.Errorf("%q is not a TWSE listing: %w", symbol, folio.ErrNotFound)
	}

	addr := fmt.Sprintf("%s/stock/api/getStockInfo.jsp?ex_ch=%s&json=1&delay=0", s.BaseURL, channel(symbol))

	// that's the payload
	var content struct {
		MsgArray []struct {
			// z is the latest trade price, "-" before the first trade of the day.
			Z string `json:"z"`
		} `json:"msgArray"`
	}
	if err := folio.GetJSON(s.Client, addr, &content); err != nil {
		return decimal.Zero, err
	}
	if len(content.MsgArray) == 0 {
		return decimal.Zero, fmt.Errorf("no quote for %q: %w", symbol, folio.ErrNotFound)
	}
	z := content.MsgArray[0].Z
	if z == "" || z == "-" {
		return decimal.Zero, fmt.Errorf("no trade price for %q yet: %w", symbol, folio.ErrNotFound)
	}
	price, err := decimal.NewFromString(z)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid trade price %q for %q: %w", z, symbol, folio.ErrMalformed)
	}
	return price, nil
}
