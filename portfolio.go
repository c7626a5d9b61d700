package folio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Supported valuation currencies. Cash in any other currency is carried
// at face value but excluded from the totals.
const (
	USD = "USD"
	TWD = "TWD"
)

// Holding is a single equity position: a symbol, a share count, and an
// optional average acquisition cost per share in the symbol's native
// currency.
type Holding struct {
	Symbol      string    `json:"symbol"`
	Shares      Quantity  `json:"shares"`
	AverageCost *Quantity `json:"average_cost,omitempty"`
}

// Currency returns the currency the holding is quoted in.
func (h Holding) Currency() string { return NativeCurrency(h.Symbol) }

// CashPosition is a cash balance in a single currency.
type CashPosition struct {
	Currency string   `json:"currency"`
	Amount   Quantity `json:"amount"`
}

// Money returns the position as a monetary value.
func (c CashPosition) Money() Money { return M(c.Amount.Decimal(), c.Currency) }

// Portfolio is the definition of what is held. It is the single source
// of truth for holdings, cash and cost basis; a valuation run never
// mutates it.
type Portfolio struct {
	Stocks []Holding      `json:"stocks"`
	Cash   []CashPosition `json:"cash"`
}

// Symbols returns the symbols of all holdings, in definition order.
func (p *Portfolio) Symbols() []string {
	symbols := make([]string, 0, len(p.Stocks))
	for _, h := range p.Stocks {
		symbols = append(symbols, h.Symbol)
	}
	return symbols
}

// Validate checks the portfolio definition for values that would corrupt
// a valuation: empty symbols, negative share counts or costs, empty
// cash currencies.
func (p *Portfolio) Validate() error {
	for i, h := range p.Stocks {
		if strings.TrimSpace(h.Symbol) == "" {
			return fmt.Errorf("stock #%d: empty symbol", i+1)
		}
		if h.Shares.IsNegative() {
			return fmt.Errorf("stock %s: negative shares %s", h.Symbol, h.Shares)
		}
		if h.AverageCost != nil && h.AverageCost.IsNegative() {
			return fmt.Errorf("stock %s: negative average cost %s", h.Symbol, h.AverageCost)
		}
	}
	for i, c := range p.Cash {
		if strings.TrimSpace(c.Currency) == "" {
			return fmt.Errorf("cash #%d: empty currency", i+1)
		}
	}
	return nil
}

// DecodePortfolio reads a portfolio definition in JSON form.
func DecodePortfolio(r io.Reader) (*Portfolio, error) {
	var p Portfolio
	dec := json.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("invalid portfolio file: %w", err)
	}
	for i := range p.Cash {
		p.Cash[i].Currency = strings.ToUpper(p.Cash[i].Currency)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadPortfolio reads the portfolio definition from a file.
func LoadPortfolio(path string) (*Portfolio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open portfolio file: %w", err)
	}
	defer f.Close()
	return DecodePortfolio(f)
}

// IsTW reports whether the symbol is listed on the Taiwan exchange,
// marked by the ".TW" suffix.
func IsTW(symbol string) bool {
	return strings.HasSuffix(strings.ToUpper(symbol), ".TW")
}

// NativeCurrency returns the currency a symbol is quoted in: TWD for
// ".TW" listings, USD for everything else.
func NativeCurrency(symbol string) string {
	if IsTW(symbol) {
		return TWD
	}
	return USD
}
