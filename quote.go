package folio

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// A QuoteSource can fetch the latest price for a symbol.
//
// Implementations are stateless between calls and report expected
// conditions (unknown symbol, network failure, unparsable payload) as
// errors wrapping one of the sentinel errors below. They never panic
// and never return a non-positive price as success.
type QuoteSource interface {
	Name() string
	Fetch(symbol string) (decimal.Decimal, error)
}

// Sentinel failures a quote or rate source can report. The resolver
// falls through to the next source on any of them; they only become
// fatal when the whole chain is exhausted.
var (
	ErrNotFound    = errors.New("symbol not found")
	ErrUnavailable = errors.New("source unavailable")
	ErrMalformed   = errors.New("malformed response")
)

// Source identifies which quote source satisfied a price resolution.
type Source string

const (
	SourcePrimary   Source = "primary"
	SourceRegional  Source = "regional"
	SourceSecondary Source = "secondary"
	SourceOverride  Source = "override"
)

// ResolvedPrice is the outcome of resolving one symbol: the price in the
// symbol's native currency and the provenance of the value. It is
// produced fresh on every run and never persisted.
type ResolvedPrice struct {
	Symbol string
	Price  Money
	Source Source
	AsOf   time.Time
}
