package folio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/shopspring/decimal"
)

// RatePair is the pseudo symbol under which the override table carries
// the USD/TWD exchange rate.
const RatePair = "USDTWD"

// Overrides is the offline, manually maintained symbol to price mapping.
// It is loaded once per run and backs the last quote source of the
// resolution chain; in overrides-only mode it is the only source.
//
// It also doubles as the fallback rate source through the USDTWD pseudo
// symbol.
type Overrides struct {
	prices map[string]decimal.Decimal
}

// DecodeOverrides reads an override table in JSON form, a flat object of
// symbol to price.
func DecodeOverrides(r io.Reader) (*Overrides, error) {
	prices := make(map[string]decimal.Decimal)
	dec := json.NewDecoder(r)
	if err := dec.Decode(&prices); err != nil {
		return nil, fmt.Errorf("invalid overrides file: %w", err)
	}
	for symbol, price := range prices {
		if !price.IsPositive() {
			return nil, fmt.Errorf("override for %s: price must be positive, got %s", symbol, price)
		}
	}
	return &Overrides{prices: prices}, nil
}

// LoadOverrides reads the override table from a file. A missing file is
// not an error: it yields an empty table, so every lookup reports
// ErrNotFound.
func LoadOverrides(path string) (*Overrides, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("no override file at %s, using an empty table", path)
		return &Overrides{prices: map[string]decimal.Decimal{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open overrides file: %w", err)
	}
	defer f.Close()
	return DecodeOverrides(f)
}

// Len returns the number of override prices (the rate pair included).
func (o *Overrides) Len() int { return len(o.prices) }

// Name implements QuoteSource.
func (o *Overrides) Name() string { return "override" }

// Fetch implements QuoteSource from the static table. It never fails
// for network reasons; the only possible failure is ErrNotFound.
func (o *Overrides) Fetch(symbol string) (decimal.Decimal, error) {
	price, ok := o.prices[symbol]
	if !ok {
		return decimal.Zero, fmt.Errorf("no override for %s: %w", symbol, ErrNotFound)
	}
	return price, nil
}

// Rate implements RateSource from the USDTWD entry of the table.
func (o *Overrides) Rate() (decimal.Decimal, error) {
	return o.Fetch(RatePair)
}
