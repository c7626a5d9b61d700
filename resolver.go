package folio

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

// link is one step of the resolution chain: a quote source plus the
// policy governing when it is consulted.
type link struct {
	source     QuoteSource
	provenance Source
	network    bool // skipped in overrides-only mode
	twOnly     bool // consulted only for ".TW" symbols
}

// Resolver resolves a current price for a symbol by trying quote
// sources in a fixed priority order: primary feed, regional feed (for
// ".TW" symbols only), secondary feed, then the offline override table.
type Resolver struct {
	chain []link
}

// NewResolver builds a resolver over the given sources. With
// overridesOnly set, every network-backed source is dropped from the
// chain and only the override table is consulted; this is the
// deterministic offline path.
func NewResolver(overridesOnly bool, primary, regional, secondary QuoteSource, overrides *Overrides) *Resolver {
	all := []link{
		{primary, SourcePrimary, true, false},
		{regional, SourceRegional, true, true},
		{secondary, SourceSecondary, true, false},
		{overrides, SourceOverride, false, false},
	}
	chain := make([]link, 0, len(all))
	for _, l := range all {
		if overridesOnly && l.network {
			continue
		}
		chain = append(chain, l)
	}
	return &Resolver{chain: chain}
}

// ResolutionError reports that every source of the chain failed for one
// symbol. It aborts the run: a silent zero-price substitution would
// corrupt the valuation total undetectably.
type ResolutionError struct {
	Symbol   string
	attempts []error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("no price for %s: %v", e.Symbol, errors.Join(e.attempts...))
}

func (e *ResolutionError) Unwrap() []error { return e.attempts }

// Resolve returns the price of a symbol from the first source of the
// chain that yields a usable (positive) price, with its provenance.
func (r *Resolver) Resolve(symbol string) (ResolvedPrice, error) {
	var attempts []error
	for _, l := range r.chain {
		if l.twOnly && !IsTW(symbol) {
			continue
		}
		price, err := l.source.Fetch(symbol)
		if err != nil {
			attempts = append(attempts, fmt.Errorf("%s: %w", l.source.Name(), err))
			continue
		}
		if !price.IsPositive() {
			attempts = append(attempts, fmt.Errorf("%s: non-positive price %s: %w", l.source.Name(), price, ErrMalformed))
			continue
		}
		log.Printf("resolved %s=%s from %s", symbol, price, l.source.Name())
		return ResolvedPrice{
			Symbol: symbol,
			Price:  M(price, NativeCurrency(symbol)),
			Source: l.provenance,
			AsOf:   time.Now(),
		}, nil
	}
	return ResolvedPrice{}, &ResolutionError{Symbol: symbol, attempts: attempts}
}

// ResolveAll resolves every symbol independently. When any symbol
// exhausts its chain the whole call fails, after trying all of them, so
// the error names every unresolved symbol at once.
func (r *Resolver) ResolveAll(symbols []string) (map[string]ResolvedPrice, error) {
	prices := make(map[string]ResolvedPrice, len(symbols))
	var failed []string
	var errs []error
	for _, symbol := range symbols {
		if _, done := prices[symbol]; done {
			continue
		}
		rp, err := r.Resolve(symbol)
		if err != nil {
			failed = append(failed, symbol)
			errs = append(errs, err)
			continue
		}
		prices[symbol] = rp
	}
	if len(failed) > 0 {
		return nil, fmt.Errorf("unresolved symbols %s: %w", strings.Join(failed, ", "), errors.Join(errs...))
	}
	return prices, nil
}
