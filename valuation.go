package folio

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// HoldingLine is the valuation of a single equity position.
type HoldingLine struct {
	Symbol   string
	Shares   Quantity
	Price    Money
	Source   Source
	ValueUSD Money
	ValueTWD Money
	Weight   Percent

	// Nil when the portfolio carries no average cost for the holding:
	// "no cost basis known" is a distinct state from breakeven.
	UnrealizedPL *Money
	ROI          *Percent
}

// CashLine is the valuation of a single cash balance. A balance in a
// currency other than USD or TWD is carried at face value, not
// convertible, and excluded from the totals.
type CashLine struct {
	Currency    string
	Amount      Money
	ValueUSD    Money
	ValueTWD    Money
	Weight      Percent
	Convertible bool
}

// Snapshot is the single daily, fully-resolved valuation of the whole
// portfolio. TotalUSD and TotalTWD are each summed natively (never
// derived by converting the other total) and are mutually consistent
// under the snapshot's own Rate.
type Snapshot struct {
	Date     Date
	TotalUSD Money
	TotalTWD Money
	Rate     ExchangeRate
	Holdings []HoldingLine
	Cash     []CashLine
	Warnings []string

	// Nil when there is no prior history record to compare against.
	DailyReturn *Percent
}

// Value aggregates resolved prices, the resolved exchange rate, cash
// balances and cost data into a snapshot for the given date. prior is
// the most recent history record of a different date, or nil; it feeds
// the daily return.
//
// Every holding must have a resolved price: the resolver either
// produced one or already failed the run.
func Value(p *Portfolio, prices map[string]ResolvedPrice, conv *Converter, on Date, prior *Record) (*Snapshot, error) {
	s := &Snapshot{
		Date:     on,
		TotalUSD: M(0, USD),
		TotalTWD: M(0, TWD),
		Rate:     conv.Rate(),
	}

	for _, h := range p.Stocks {
		rp, ok := prices[h.Symbol]
		if !ok {
			return nil, fmt.Errorf("no resolved price for %s", h.Symbol)
		}
		line, err := valueHolding(h, rp, conv)
		if err != nil {
			return nil, err
		}
		s.TotalUSD = s.TotalUSD.Add(line.ValueUSD)
		s.TotalTWD = s.TotalTWD.Add(line.ValueTWD)
		s.Holdings = append(s.Holdings, line)
	}

	for _, c := range p.Cash {
		line, err := valueCash(c, conv)
		if err != nil {
			return nil, err
		}
		if line.Convertible {
			s.TotalUSD = s.TotalUSD.Add(line.ValueUSD)
			s.TotalTWD = s.TotalTWD.Add(line.ValueTWD)
		} else {
			s.Warnings = append(s.Warnings,
				fmt.Sprintf("cash position %s %s is not convertible and is excluded from the totals", line.Amount, line.Currency))
		}
		s.Cash = append(s.Cash, line)
	}

	s.applyWeights()
	s.applyDailyReturn(prior)
	return s, nil
}

func valueHolding(h Holding, rp ResolvedPrice, conv *Converter) (HoldingLine, error) {
	value := rp.Price.Mul(h.Shares)
	usd, err := conv.Convert(value, USD)
	if err != nil {
		return HoldingLine{}, err
	}
	twd, err := conv.Convert(value, TWD)
	if err != nil {
		return HoldingLine{}, err
	}
	line := HoldingLine{
		Symbol:   h.Symbol,
		Shares:   h.Shares,
		Price:    rp.Price,
		Source:   rp.Source,
		ValueUSD: usd,
		ValueTWD: twd,
	}
	if h.AverageCost != nil {
		cost := M(h.AverageCost.Decimal(), h.Currency())
		pl := rp.Price.Sub(cost).Mul(h.Shares)
		line.UnrealizedPL = &pl
		if cost.IsPositive() {
			roi := Percent(rp.Price.Sub(cost).Decimal().Div(cost.Decimal()).Mul(decimal.NewFromInt(100)).InexactFloat64())
			line.ROI = &roi
		}
	}
	return line, nil
}

func valueCash(c CashPosition, conv *Converter) (CashLine, error) {
	amount := c.Money()
	line := CashLine{Currency: c.Currency, Amount: amount}
	if c.Currency != USD && c.Currency != TWD {
		return line, nil
	}
	usd, err := conv.Convert(amount, USD)
	if err != nil {
		return CashLine{}, err
	}
	twd, err := conv.Convert(amount, TWD)
	if err != nil {
		return CashLine{}, err
	}
	line.ValueUSD = usd
	line.ValueTWD = twd
	line.Convertible = true
	return line, nil
}

// applyWeights sets each line's share of the grand total, measured in
// the USD reference. Weights over all convertible lines sum to 100
// within rounding tolerance.
func (s *Snapshot) applyWeights() {
	total := s.TotalUSD.Decimal()
	if total.IsZero() {
		return
	}
	hundred := decimal.NewFromInt(100)
	weight := func(v Money) Percent {
		return Percent(v.Decimal().Div(total).Mul(hundred).InexactFloat64())
	}
	for i := range s.Holdings {
		s.Holdings[i].Weight = weight(s.Holdings[i].ValueUSD)
	}
	for i := range s.Cash {
		if s.Cash[i].Convertible {
			s.Cash[i].Weight = weight(s.Cash[i].ValueUSD)
		}
	}
}

// applyDailyReturn computes the day-over-day return against the prior
// record's USD total. It stays absent without a prior record or with a
// zero prior total.
func (s *Snapshot) applyDailyReturn(prior *Record) {
	if prior == nil || prior.TotalUSD.IsZero() {
		return
	}
	change := s.TotalUSD.Sub(prior.TotalUSD).Decimal().
		Div(prior.TotalUSD.Decimal()).
		Mul(decimal.NewFromInt(100))
	ret := Percent(change.InexactFloat64())
	s.DailyReturn = &ret
}

// Record returns the snapshot as a history ledger row, totals rounded
// to the persisted precision.
func (s *Snapshot) Record() Record {
	rec := Record{
		Date:     s.Date,
		TotalUSD: s.TotalUSD.Round2(),
		TotalTWD: s.TotalTWD.Round2(),
	}
	if s.DailyReturn != nil {
		rec.DailyReturn = *s.DailyReturn
	}
	return rec
}
