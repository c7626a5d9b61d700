package folio

import (
	"errors"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
)

// A RateSource can produce the current USD/TWD exchange rate, expressed
// as TWD per USD. Failures follow the quote sentinel errors.
type RateSource interface {
	Name() string
	Rate() (decimal.Decimal, error)
}

// RateOrigin identifies which source satisfied the rate resolution.
type RateOrigin string

const (
	RateLive     RateOrigin = "live"
	RateOverride RateOrigin = "override"
)

// ExchangeRate is the rate resolved for one run, expressed as units of
// To per unit of From.
type ExchangeRate struct {
	From, To string
	Rate     decimal.Decimal
	Origin   RateOrigin
}

func (r ExchangeRate) String() string {
	return fmt.Sprintf("%s/%s %s (%s)", r.From, r.To, r.Rate, r.Origin)
}

// UnsupportedPairError reports a conversion attempt on a pair other
// than USD/TWD. It is fatal for the run.
type UnsupportedPairError struct {
	From, To string
}

func (e *UnsupportedPairError) Error() string {
	return fmt.Sprintf("unsupported currency pair %s/%s: only USD and TWD are convertible", e.From, e.To)
}

// Converter converts amounts between USD and TWD using the single rate
// resolved for the run. Both directions use the same rate (the inverse
// uses its exact reciprocal), which keeps the USD and TWD totals of a
// snapshot mutually consistent.
type Converter struct {
	rate ExchangeRate
}

// ResolveRate resolves the USD/TWD rate through the fallback chain:
// the live source first, then the override table. A nil live source
// (the overrides-only path) goes straight to the override.
func ResolveRate(live, override RateSource) (*Converter, error) {
	var errs []error
	try := func(src RateSource, origin RateOrigin) *Converter {
		if src == nil {
			return nil
		}
		rate, err := src.Rate()
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			return nil
		}
		if !rate.IsPositive() {
			errs = append(errs, fmt.Errorf("%s: non-positive rate %s: %w", src.Name(), rate, ErrMalformed))
			return nil
		}
		log.Printf("resolved %s/%s=%s from %s", USD, TWD, rate, src.Name())
		return &Converter{rate: ExchangeRate{From: USD, To: TWD, Rate: rate, Origin: origin}}
	}
	if c := try(live, RateLive); c != nil {
		return c, nil
	}
	if c := try(override, RateOverride); c != nil {
		return c, nil
	}
	return nil, fmt.Errorf("cannot resolve %s/%s rate: %w", USD, TWD, errors.Join(errs...))
}

// NewConverter returns a converter over a fixed rate, mostly for tests.
func NewConverter(rate ExchangeRate) *Converter { return &Converter{rate: rate} }

// Rate returns the rate resolved for this run.
func (c *Converter) Rate() ExchangeRate { return c.rate }

// Convert converts a monetary value to the given currency. Converting
// to the value's own currency is the identity; anything other than
// USD<->TWD fails with UnsupportedPairError.
func (c *Converter) Convert(m Money, to string) (Money, error) {
	from := m.Currency()
	switch {
	case from == to:
		return m, nil
	case from == USD && to == TWD:
		return M(m.Decimal().Mul(c.rate.Rate), TWD), nil
	case from == TWD && to == USD:
		return M(m.Decimal().Div(c.rate.Rate), USD), nil
	}
	return Money{}, &UnsupportedPairError{From: from, To: to}
}
