package renderer

import (
	"github.com/ycheng/folio"
)

// ReportMarkdown renders a full valuation snapshot to a markdown string.
func ReportMarkdown(s *folio.Snapshot) string {
	partials := map[string]string{
		"report_title":    "report_title.md",
		"report_summary":  "report_summary.md",
		"report_holdings": "report_holdings.md",
		"report_cash":     "report_cash.md",
		"report_warnings": "report_warnings.md",
	}
	return renderTemplate("report", "report.md", partials, s)
}

// historyView is the data handed to the history template.
type historyView struct {
	Records []folio.Record
	Total   int
}

// HistoryMarkdown renders the last n rows of the ledger to a markdown
// table, oldest first. n <= 0 renders everything.
func HistoryMarkdown(h *folio.History, n int) string {
	records := h.Records()
	if n > 0 && len(records) > n {
		records = records[len(records)-n:]
	}
	return renderTemplate("history", "history.md", nil, historyView{Records: records, Total: h.Len()})
}
