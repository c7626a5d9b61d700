package folio

import (
	"strings"
	"testing"
)

func priceTable(entries ...ResolvedPrice) map[string]ResolvedPrice {
	prices := make(map[string]ResolvedPrice, len(entries))
	for _, e := range entries {
		prices[e.Symbol] = e
	}
	return prices
}

func TestValueMixedPortfolio(t *testing.T) {
	p := &Portfolio{
		Stocks: []Holding{
			{Symbol: "AAPL", Shares: Q(10), AverageCost: qp(100)},
			{Symbol: "2330.TW", Shares: Q(1000), AverageCost: qp(500)},
		},
		Cash: []CashPosition{
			{Currency: USD, Amount: Q(500)},
			{Currency: TWD, Amount: Q(32500)},
		},
	}
	conv := converterAt(32.5)
	prices := priceTable(
		ResolvedPrice{Symbol: "AAPL", Price: USDm(150), Source: SourcePrimary},
		ResolvedPrice{Symbol: "2330.TW", Price: TWDm(650), Source: SourceRegional},
	)

	s, err := Value(p, prices, conv, D20240102(t), nil)
	if err != nil {
		t.Fatal(err)
	}

	// 1500 + 650000/32.5 + 500 + 32500/32.5 = 1500 + 20000 + 500 + 1000
	if !s.TotalUSD.Equal(USDm(23000)) {
		t.Errorf("TotalUSD = %s, want $23,000.00", s.TotalUSD)
	}
	if !s.TotalTWD.Equal(TWDm(747500)) {
		t.Errorf("TotalTWD = %s, want NT$747,500.00", s.TotalTWD)
	}

	aapl := s.Holdings[0]
	if aapl.UnrealizedPL == nil || !aapl.UnrealizedPL.Equal(USDm(500)) {
		t.Errorf("AAPL unrealized P/L = %v, want $500.00", aapl.UnrealizedPL)
	}
	if aapl.ROI == nil || !aapl.ROI.Equal(Percent(50)) {
		t.Errorf("AAPL ROI = %v, want 50%%", aapl.ROI)
	}
	tsmc := s.Holdings[1]
	if tsmc.UnrealizedPL == nil || !tsmc.UnrealizedPL.Equal(TWDm(150000)) {
		t.Errorf("2330.TW unrealized P/L = %v, want NT$150,000.00", tsmc.UnrealizedPL)
	}
	if tsmc.ROI == nil || !tsmc.ROI.Equal(Percent(30)) {
		t.Errorf("2330.TW ROI = %v, want 30%%", tsmc.ROI)
	}

	var sum Percent
	for _, h := range s.Holdings {
		sum += h.Weight
	}
	for _, c := range s.Cash {
		sum += c.Weight
	}
	if !sum.Equal(Percent(100)) {
		t.Errorf("weights sum to %s, want 100%%", sum)
	}
	// AAPL is 1500 of 23000.
	if want := Percent(1500.0 / 23000.0 * 100); !aapl.Weight.Equal(want) {
		t.Errorf("AAPL weight = %s, want %s", aapl.Weight, want)
	}
	if len(s.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", s.Warnings)
	}
	if s.DailyReturn != nil {
		t.Errorf("daily return should be absent without prior history, got %s", *s.DailyReturn)
	}
}

func TestValueWithoutCostBasis(t *testing.T) {
	p := &Portfolio{Stocks: []Holding{{Symbol: "AAPL", Shares: Q(10)}}}
	conv := converterAt(32.5)
	prices := priceTable(ResolvedPrice{Symbol: "AAPL", Price: USDm(150), Source: SourceOverride})

	s, err := Value(p, prices, conv, D20240102(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	line := s.Holdings[0]
	if line.UnrealizedPL != nil || line.ROI != nil {
		t.Errorf("P/L and ROI must stay absent without a cost basis, got %v %v", line.UnrealizedPL, line.ROI)
	}
	if line.Source != SourceOverride {
		t.Errorf("source = %s, want %s", line.Source, SourceOverride)
	}
}

func TestValueExcludesUnsupportedCash(t *testing.T) {
	p := &Portfolio{
		Cash: []CashPosition{
			{Currency: USD, Amount: Q(100)},
			{Currency: "JPY", Amount: Q(10000)},
		},
	}
	conv := converterAt(32.5)

	s, err := Value(p, nil, conv, D20240102(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !s.TotalUSD.Equal(USDm(100)) {
		t.Errorf("TotalUSD = %s, the JPY balance must not contribute", s.TotalUSD)
	}
	if len(s.Cash) != 2 {
		t.Fatalf("both cash lines must be carried, got %d", len(s.Cash))
	}
	jpy := s.Cash[1]
	if jpy.Convertible {
		t.Error("JPY line marked convertible")
	}
	if len(s.Warnings) != 1 || !strings.Contains(s.Warnings[0], "JPY") {
		t.Errorf("warnings = %v, want one naming JPY", s.Warnings)
	}
}

func TestValueMissingPrice(t *testing.T) {
	p := &Portfolio{Stocks: []Holding{{Symbol: "AAPL", Shares: Q(10)}}}
	_, err := Value(p, nil, converterAt(32.5), D20240102(t), nil)
	if err == nil || !strings.Contains(err.Error(), "AAPL") {
		t.Errorf("err = %v, want a failure naming AAPL", err)
	}
}

func TestValueDailyReturn(t *testing.T) {
	p := &Portfolio{Cash: []CashPosition{{Currency: USD, Amount: Q(2100)}}}
	conv := converterAt(32.5)
	prior := &Record{Date: NewDate(2024, 1, 1), TotalUSD: USDm(2000), TotalTWD: TWDm(65000)}

	s, err := Value(p, nil, conv, D20240102(t), prior)
	if err != nil {
		t.Fatal(err)
	}
	if s.DailyReturn == nil || !s.DailyReturn.Equal(Percent(5)) {
		t.Errorf("daily return = %v, want 5%%", s.DailyReturn)
	}

	// A zero prior total cannot produce a meaningful return.
	s, err = Value(p, nil, conv, D20240102(t), &Record{Date: NewDate(2024, 1, 1), TotalUSD: USDm(0)})
	if err != nil {
		t.Fatal(err)
	}
	if s.DailyReturn != nil {
		t.Errorf("daily return = %s, want absent on a zero prior total", *s.DailyReturn)
	}
}

func TestSnapshotRecord(t *testing.T) {
	ret := Percent(1.2345)
	s := &Snapshot{
		Date:        D20240102(t),
		TotalUSD:    M(2000.005, USD),
		TotalTWD:    M(65000.124, TWD),
		DailyReturn: &ret,
	}
	rec := s.Record()
	if !rec.TotalUSD.Equal(USDm(2000.01)) || !rec.TotalTWD.Equal(TWDm(65000.12)) {
		t.Errorf("totals = %s / %s, want rounded to cents", rec.TotalUSD, rec.TotalTWD)
	}
	if !rec.DailyReturn.Equal(ret) {
		t.Errorf("daily return = %s, want %s", rec.DailyReturn, ret)
	}
}

// D20240102 is the fixed valuation date used across these tests.
func D20240102(t *testing.T) Date {
	t.Helper()
	return NewDate(2024, 1, 2)
}
