// Package folio values a multi-currency investment portfolio (equities
// plus USD and TWD cash) once a day.
//
// A run resolves a price for every holding through an ordered chain of
// quote sources, resolves a single USD/TWD exchange rate through its own
// fallback chain, aggregates everything into a daily Snapshot, and
// upserts the result into a CSV history ledger keyed by date.
//
// The CLI lives in cmd/ and fv/, report rendering in renderer/, and the
// network-backed quote sources in yahoo/, twse/ and stooq/.
package folio
