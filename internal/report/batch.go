package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/sprite-ai/commitlint-core/internal/model"
)

// BatchEntry is one item of a batch run. Exactly one of Report and Err is set.
type BatchEntry struct {
	ID     string
	Report *Report
	Err    error
}

// Status returns the entry status; errored entries count as failed.
func (e BatchEntry) Status() model.Status {
	if e.Err != nil || e.Report == nil {
		return model.StatusFail
	}
	return e.Report.Status
}

type jsonBatchEntry struct {
	ID     string      `json:"id"`
	Status string      `json:"status"`
	Error  string      `json:"error,omitempty"`
	Report *jsonReport `json:"report,omitempty"`
}

type jsonBatch struct {
	Total   int              `json:"total"`
	Counts  map[string]int   `json:"counts"`
	Entries []jsonBatchEntry `json:"entries"`
}

// BatchCounts returns how many entries ended in each status, plus errors.
func BatchCounts(entries []BatchEntry) map[string]int {
	counts := map[string]int{"pass": 0, "warn": 0, "fail": 0, "error": 0}
	for _, e := range entries {
		if e.Err != nil {
			counts["error"]++
			continue
		}
		counts[e.Status().String()]++
	}
	return counts
}

// BatchSummaryLine is the one-line human summary of a batch.
func BatchSummaryLine(entries []BatchEntry) string {
	c := BatchCounts(entries)
	return fmt.Sprintf("%d message(s): %d pass, %d warn, %d fail, %d error",
		len(entries), c["pass"], c["warn"], c["fail"], c["error"])
}

// FormatBatch renders every entry of a batch in input order.
func FormatBatch(entries []BatchEntry, t Target) (string, error) {
	switch t {
	case TargetJSON:
		return formatBatchJSON(entries)
	case TargetTable:
		return formatBatchTable(entries), nil
	case TargetMarkdown:
		return formatBatchMarkdown(entries), nil
	default:
		return "", fmt.Errorf("unknown format %q", t)
	}
}

func formatBatchJSON(entries []BatchEntry) (string, error) {
	out := jsonBatch{
		Total:   len(entries),
		Counts:  BatchCounts(entries),
		Entries: make([]jsonBatchEntry, 0, len(entries)),
	}
	for _, e := range entries {
		je := jsonBatchEntry{ID: e.ID, Status: e.Status().String()}
		if e.Err != nil {
			je.Status = "error"
			je.Error = e.Err.Error()
		} else if e.Report != nil {
			r := toJSON(*e.Report)
			je.Report = &r
		}
		out.Entries = append(out.Entries, je)
	}
	return encodeJSON(out)
}

func entryDetail(e BatchEntry) string {
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Report == nil || len(e.Report.Findings) == 0 {
		return "-"
	}
	codes := make([]string, 0, len(e.Report.Findings))
	for _, f := range sorted(e.Report.Findings) {
		codes = append(codes, f.Code)
	}
	return strings.Join(codes, ", ")
}

func entryStatus(e BatchEntry) string {
	if e.Err != nil {
		return "error"
	}
	return e.Status().String()
}

func formatBatchTable(entries []BatchEntry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.ID, entryStatus(e), entryDetail(e)})
	}

	t := newTable("ID", "STATUS", "FINDINGS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 1 && row >= 0 && row < len(entries) {
				return cellStyle.Foreground(StatusColor(entries[row].Status())).Bold(true)
			}
			return cellStyle
		})

	return BatchSummaryLine(entries) + "\n" + t.Render() + "\n"
}

func formatBatchMarkdown(entries []BatchEntry) string {
	var b strings.Builder
	b.WriteString("## Commit Message Batch Report\n\n")
	fmt.Fprintf(&b, "%s\n\n", BatchSummaryLine(entries))
	b.WriteString("| ID | Status | Findings |\n")
	b.WriteString("|----|--------|----------|\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", markdownEscape(e.ID), entryStatus(e), markdownEscape(entryDetail(e)))
	}
	return b.String()
}
