package folio

import (
	"github.com/shopspring/decimal"
)

// USDm is a helper for test to create usd money from const
func USDm(v float64) Money { return M(v, USD) }

// TWDm is a helper for test to create twd money from const
func TWDm(v float64) Money { return M(v, TWD) }

// D is a helper for test to create a decimal from const
func D(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// qp returns a Quantity pointer, for optional average costs.
func qp(v float64) *Quantity {
	q := Q(v)
	return &q
}

// fakeQuote is a scripted quote source for resolver tests.
type fakeQuote struct {
	name   string
	prices map[string]float64
	err    error // returned for every symbol when set
	calls  int
}

func (f *fakeQuote) Name() string { return f.name }

func (f *fakeQuote) Fetch(symbol string) (decimal.Decimal, error) {
	f.calls++
	if f.err != nil {
		return decimal.Zero, f.err
	}
	price, ok := f.prices[symbol]
	if !ok {
		return decimal.Zero, ErrNotFound
	}
	return decimal.NewFromFloat(price), nil
}

// fakeRate is a scripted rate source for converter tests.
type fakeRate struct {
	name string
	rate decimal.Decimal
	err  error
}

func (f *fakeRate) Name() string { return f.name }

func (f *fakeRate) Rate() (decimal.Decimal, error) {
	if f.err != nil {
		return decimal.Zero, f.err
	}
	return f.rate, nil
}

// converterAt returns a converter over a fixed TWD-per-USD rate.
func converterAt(rate float64) *Converter {
	return NewConverter(ExchangeRate{From: USD, To: TWD, Rate: D(rate), Origin: RateOverride})
}
