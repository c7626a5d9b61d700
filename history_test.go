package folio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func rec(y, m, d int, usd, twd float64) Record {
	return Record{Date: NewDate(y, time.Month(m), d), TotalUSD: USDm(usd), TotalTWD: TWDm(twd)}
}

func TestHistoryUpsertReplaces(t *testing.T) {
	h := NewHistory()
	h.Upsert(rec(2024, 1, 1, 2000, 65000))
	h.Upsert(rec(2024, 1, 2, 2100, 68250))
	h.Upsert(rec(2024, 1, 2, 2200, 71500)) // re-run of the same day

	if h.Len() != 2 {
		t.Fatalf("ledger has %d rows, want 2: a re-run must replace, not append", h.Len())
	}
	got := h.On(NewDate(2024, 1, 2))
	if got == nil || !got.TotalUSD.Equal(USDm(2200)) {
		t.Errorf("row for 2024-01-02 = %v, want the replacement totals", got)
	}
	// 2000 -> 2200 is 10%, computed against the preceding date, not
	// against the row being replaced.
	if !got.DailyReturn.Equal(Percent(10)) {
		t.Errorf("daily return = %s, want 10%%", got.DailyReturn)
	}
}

func TestHistoryUpsertKeepsOrder(t *testing.T) {
	h := NewHistory()
	h.Upsert(rec(2024, 1, 3, 2100, 68250))
	h.Upsert(rec(2024, 1, 1, 2000, 65000))
	h.Upsert(rec(2024, 1, 2, 2050, 66625))

	var dates []string
	for _, r := range h.Records() {
		dates = append(dates, r.Date.String())
	}
	if got := strings.Join(dates, " "); got != "2024-01-01 2024-01-02 2024-01-03" {
		t.Errorf("dates = %s, want them sorted", got)
	}
	// Recompute covers downstream rows after a backfill.
	if got := h.On(NewDate(2024, 1, 3)); !got.DailyReturn.Equal(Percent(2100.0/2050.0*100 - 100)) {
		t.Errorf("daily return of last row = %s after backfill", got.DailyReturn)
	}
}

func TestHistoryRecomputeFirstRow(t *testing.T) {
	h := NewHistory()
	h.Upsert(rec(2024, 1, 2, 2100, 68250))
	if got := h.Last(); !got.DailyReturn.Equal(Percent(0)) {
		t.Errorf("first row daily return = %s, want 0", got.DailyReturn)
	}
	h.Upsert(rec(2024, 1, 1, 0, 0))
	// A zero previous total yields 0, not a division failure.
	if got := h.Last(); !got.DailyReturn.Equal(Percent(0)) {
		t.Errorf("daily return after zero-total predecessor = %s, want 0", got.DailyReturn)
	}
}

func TestHistoryPrior(t *testing.T) {
	h := NewHistory()
	h.Upsert(rec(2024, 1, 1, 2000, 65000))
	h.Upsert(rec(2024, 1, 3, 2100, 68250))

	testCases := []struct {
		name string
		on   Date
		want *Date
	}{
		{"before everything", NewDate(2023, 12, 31), nil},
		{"same date excluded", NewDate(2024, 1, 1), nil},
		{"gap lands on earlier row", NewDate(2024, 1, 2), dp(NewDate(2024, 1, 1))},
		{"re-run skips own row", NewDate(2024, 1, 3), dp(NewDate(2024, 1, 1))},
		{"after everything", NewDate(2024, 1, 4), dp(NewDate(2024, 1, 3))},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := h.Prior(tc.on)
			switch {
			case got == nil && tc.want != nil:
				t.Errorf("Prior(%s) = nil, want %s", tc.on, *tc.want)
			case got != nil && tc.want == nil:
				t.Errorf("Prior(%s) = %s, want nil", tc.on, got.Date)
			case got != nil && got.Date != *tc.want:
				t.Errorf("Prior(%s) = %s, want %s", tc.on, got.Date, *tc.want)
			}
		})
	}
}

func dp(d Date) *Date { return &d }

func TestHistoryCloneIsIndependent(t *testing.T) {
	h := NewHistory()
	h.Upsert(rec(2024, 1, 1, 2000, 65000))

	dry := h.Clone()
	dry.Upsert(rec(2024, 1, 2, 2100, 68250))

	if h.Len() != 1 {
		t.Errorf("dry-run upsert leaked into the original ledger (%d rows)", h.Len())
	}
	if dry.Len() != 2 {
		t.Errorf("clone has %d rows, want 2", dry.Len())
	}
}

func TestHistorySaveLoadRoundTrip(t *testing.T) {
	h := NewHistory()
	h.Upsert(rec(2024, 1, 1, 2000, 65000))
	h.Upsert(rec(2024, 1, 2, 2105.5, 68428.75))

	path := filepath.Join(t.TempDir(), "history.csv")
	if err := h.Save(path); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if lines[0] != "date,total_usd,total_twd,daily_return_pct" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "2024-01-01,2000.00,65000.00,0.0000" {
		t.Errorf("first row = %q", lines[1])
	}

	loaded, err := LoadHistory(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("loaded %d rows, want 2", loaded.Len())
	}
	last := loaded.Last()
	if !last.TotalUSD.Equal(USDm(2105.5)) || !last.TotalTWD.Equal(TWDm(68428.75)) {
		t.Errorf("last row totals = %s / %s", last.TotalUSD, last.TotalTWD)
	}
	if !last.DailyReturn.Equal(h.Last().DailyReturn) {
		t.Errorf("daily return = %s, want %s", last.DailyReturn, h.Last().DailyReturn)
	}
}

func TestUpdateHistoryKeepsOverlappingRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	seed := NewHistory()
	seed.Upsert(rec(2024, 1, 1, 2000, 65000))
	if err := seed.Save(path); err != nil {
		t.Fatal(err)
	}

	// Two runs that both loaded the ledger before either wrote. The
	// write re-reads the file under the lock instead of trusting the
	// run's stale in-memory copy, so the second run must not drop the
	// row the first one added.
	if _, err := UpdateHistory(path, rec(2024, 1, 2, 2100, 68250)); err != nil {
		t.Fatal(err)
	}
	written, err := UpdateHistory(path, rec(2024, 1, 3, 2200, 71500))
	if err != nil {
		t.Fatal(err)
	}
	if written.Len() != 3 {
		t.Fatalf("returned ledger has %d rows, want 3", written.Len())
	}

	final, err := LoadHistory(path)
	if err != nil {
		t.Fatal(err)
	}
	if final.Len() != 3 {
		t.Fatalf("ledger has %d rows, want 3", final.Len())
	}
	if final.On(NewDate(2024, 1, 2)) == nil {
		t.Error("the first run's row was dropped by the second run's write")
	}
	// Returns are recomputed over the merged rows: 2100 -> 2200.
	if got := final.On(NewDate(2024, 1, 3)); !got.DailyReturn.Equal(Percent(2200.0/2100.0*100 - 100)) {
		t.Errorf("daily return of the merged last row = %s", got.DailyReturn)
	}
}

func TestLoadHistoryMissingFile(t *testing.T) {
	h, err := LoadHistory(filepath.Join(t.TempDir(), "nope.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if h.Len() != 0 {
		t.Errorf("missing file must yield an empty ledger, got %d rows", h.Len())
	}
}

func TestDecodeHistoryRejectsGarbage(t *testing.T) {
	testCases := []struct{ name, in string }{
		{"bad column count", "date,total_usd,total_twd,daily_return_pct\n2024-01-01,2000.00\n"},
		{"bad date", "9999-99-99,2000.00,65000.00,0.0000\n"},
		{"bad amount", "2024-01-01,two grand,65000.00,0.0000\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeHistory(strings.NewReader(tc.in)); err == nil {
				t.Error("decoded without error")
			}
		})
	}
}
