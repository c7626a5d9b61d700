package folio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/gofrs/flock"
	"github.com/shopspring/decimal"
)

// historyHeader is the column set of the history ledger file.
var historyHeader = []string{"date", "total_usd", "total_twd", "daily_return_pct"}

// Record is one persisted row of the history ledger. Uniqueness key is
// the date.
type Record struct {
	Date        Date
	TotalUSD    Money
	TotalTWD    Money
	DailyReturn Percent
}

// History is the daily ledger of portfolio totals. Records are kept
// sorted by date and unique per date: an upsert for an existing date
// replaces the row instead of appending a duplicate.
type History struct {
	records []Record
}

// NewHistory returns an empty ledger.
func NewHistory() *History { return &History{} }

// Len returns the number of records.
func (h *History) Len() int { return len(h.records) }

// Records returns the records sorted by date.
func (h *History) Records() []Record { return h.records }

// Last returns the most recent record, or nil for an empty ledger.
func (h *History) Last() *Record {
	if len(h.records) == 0 {
		return nil
	}
	return &h.records[len(h.records)-1]
}

// On returns the record for the given date, or nil.
func (h *History) On(d Date) *Record {
	for i := range h.records {
		if h.records[i].Date == d {
			return &h.records[i]
		}
	}
	return nil
}

// Prior returns the most recent record strictly before the given date,
// or nil. This is the daily-return baseline: when a date is re-run the
// return is computed against the preceding distinct date, never against
// the row being replaced.
func (h *History) Prior(d Date) *Record {
	var prior *Record
	for i := range h.records {
		if h.records[i].Date.Before(d) {
			prior = &h.records[i]
		}
	}
	return prior
}

// Upsert replaces or appends the row for the record's date, then
// recomputes every daily return over the date-sorted rows.
func (h *History) Upsert(rec Record) {
	replaced := false
	for i := range h.records {
		if h.records[i].Date == rec.Date {
			h.records[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		h.records = append(h.records, rec)
	}
	h.sort()
	h.recompute()
}

// Clone returns a deep copy, used to simulate an upsert in dry runs.
func (h *History) Clone() *History {
	return &History{records: slices.Clone(h.records)}
}

func (h *History) sort() {
	slices.SortFunc(h.records, func(a, b Record) int {
		switch {
		case a.Date.Before(b.Date):
			return -1
		case a.Date.After(b.Date):
			return 1
		}
		return 0
	})
}

// recompute rewrites daily_return_pct for every row as the change of
// total_usd against the previous row. The first row carries 0.
func (h *History) recompute() {
	hundred := decimal.NewFromInt(100)
	for i := range h.records {
		if i == 0 || h.records[i-1].TotalUSD.IsZero() {
			h.records[i].DailyReturn = 0
			continue
		}
		prev := h.records[i-1].TotalUSD
		change := h.records[i].TotalUSD.Sub(prev).Decimal().Div(prev.Decimal()).Mul(hundred)
		h.records[i].DailyReturn = Percent(change.InexactFloat64())
	}
}

// DecodeHistory reads a ledger in CSV form.
func DecodeHistory(r io.Reader) (*History, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid history file: %w", err)
	}
	h := NewHistory()
	for i, row := range rows {
		if i == 0 && len(row) > 0 && row[0] == historyHeader[0] {
			continue // header
		}
		if len(row) != len(historyHeader) {
			return nil, fmt.Errorf("invalid history row %d: want %d columns, got %d", i+1, len(historyHeader), len(row))
		}
		rec, err := decodeRecord(row)
		if err != nil {
			return nil, fmt.Errorf("invalid history row %d: %w", i+1, err)
		}
		h.records = append(h.records, rec)
	}
	h.sort()
	return h, nil
}

func decodeRecord(row []string) (Record, error) {
	on, err := ParseDate(row[0])
	if err != nil {
		return Record{}, err
	}
	usd, err := decimal.NewFromString(row[1])
	if err != nil {
		return Record{}, fmt.Errorf("invalid total_usd %q: %w", row[1], err)
	}
	twd, err := decimal.NewFromString(row[2])
	if err != nil {
		return Record{}, fmt.Errorf("invalid total_twd %q: %w", row[2], err)
	}
	ret, err := strconv.ParseFloat(row[3], 64)
	if err != nil {
		return Record{}, fmt.Errorf("invalid daily_return_pct %q: %w", row[3], err)
	}
	return Record{Date: on, TotalUSD: M(usd, USD), TotalTWD: M(twd, TWD), DailyReturn: Percent(ret)}, nil
}

// Encode writes the ledger in CSV form.
func (h *History) Encode(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(historyHeader); err != nil {
		return err
	}
	for _, rec := range h.records {
		row := []string{
			rec.Date.String(),
			rec.TotalUSD.Decimal().StringFixed(2),
			rec.TotalTWD.Decimal().StringFixed(2),
			strconv.FormatFloat(float64(rec.DailyReturn), 'f', 4, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// LoadHistory reads the ledger from a file. A missing file yields an
// empty ledger.
func LoadHistory(path string) (*History, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewHistory(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open history file: %w", err)
	}
	defer f.Close()
	return DecodeHistory(f)
}

// UpdateHistory upserts one record into the ledger file as a single
// read-modify-write transaction: the file lock is held across the
// re-read, the upsert and the write, so an overlapping run cannot drop
// a row written between this run's load and its save. It returns the
// ledger as written.
func UpdateHistory(path string, rec Record) (*History, error) {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("cannot lock history file: %w", err)
	}
	defer lock.Unlock()

	h, err := LoadHistory(path)
	if err != nil {
		return nil, err
	}
	h.Upsert(rec)
	if err := h.save(path); err != nil {
		return nil, err
	}
	return h, nil
}

// Save writes the full ledger back to path under the exclusive file
// lock. It overwrites whatever the file holds; to add one row to a
// shared ledger use UpdateHistory, which re-reads under the lock.
func (h *History) Save(path string) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("cannot lock history file: %w", err)
	}
	defer lock.Unlock()
	return h.save(path)
}

// save writes the rows atomically: a temporary file in the same
// directory, renamed over the target. Callers hold the file lock.
func (h *History) save(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".history-*.csv")
	if err != nil {
		return fmt.Errorf("cannot create temporary history file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := h.Encode(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("cannot write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cannot write history: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("cannot replace history file: %w", err)
	}
	return nil
}
