// Package report renders validation findings for CI and humans.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sprite-ai/commitlint-core/internal/analysis"
	"github.com/sprite-ai/commitlint-core/internal/model"
)

// Target is an output format.
type Target string

const (
	TargetJSON     Target = "json"
	TargetTable    Target = "table"
	TargetMarkdown Target = "markdown"
)

// Targets lists the supported output formats.
func Targets() []Target {
	return []Target{TargetJSON, TargetTable, TargetMarkdown}
}

// ParseTarget validates a format name.
func ParseTarget(s string) (Target, error) {
	for _, t := range Targets() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (want json, table or markdown)", s)
}

// Report is the rendered outcome of validating one commit message.
// GeneratedAt is only emitted when the caller sets it.
type Report struct {
	Findings    []analysis.Finding
	Status      model.Status
	GeneratedAt *time.Time
}

// New builds a report and derives its status from the findings.
func New(findings []analysis.Finding) Report {
	return Report{Findings: findings, Status: analysis.StatusOf(findings)}
}

// Summary returns the severity breakdown, e.g. "1 critical, 2 medium".
func (r Report) Summary() string {
	return (&analysis.Results{Findings: r.Findings}).Summary()
}

// SummaryLine is the one-line human summary.
func SummaryLine(r Report) string {
	return fmt.Sprintf("%s: %s", r.Status, r.Summary())
}

// Format renders r in the given target. It has no side effects.
func Format(r Report, t Target) (string, error) {
	switch t {
	case TargetJSON:
		return formatJSON(r)
	case TargetTable:
		return formatTable(r), nil
	case TargetMarkdown:
		return formatMarkdown(r), nil
	default:
		return "", fmt.Errorf("unknown format %q", t)
	}
}

// sorted returns a copy of findings, stably ordered by severity descending.
func sorted(findings []analysis.Finding) []analysis.Finding {
	out := make([]analysis.Finding, len(findings))
	copy(out, findings)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity > out[j].Severity
	})
	return out
}

type jsonReport struct {
	Status      model.Status       `json:"status"`
	Summary     string             `json:"summary"`
	Findings    []analysis.Finding `json:"findings"`
	GeneratedAt *time.Time         `json:"generated_at,omitempty"`
}

func toJSON(r Report) jsonReport {
	findings := r.Findings
	if findings == nil {
		findings = []analysis.Finding{}
	}
	return jsonReport{
		Status:      r.Status,
		Summary:     r.Summary(),
		Findings:    findings,
		GeneratedAt: r.GeneratedAt,
	}
}

func encodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}
	return buf.String(), nil
}

func formatJSON(r Report) (string, error) {
	return encodeJSON(toJSON(r))
}

func formatMarkdown(r Report) string {
	var b strings.Builder
	b.WriteString("## Commit Message Report\n\n")
	fmt.Fprintf(&b, "**Status:** %s | **Findings:** %d\n\n", r.Status, len(r.Findings))

	if len(r.Findings) == 0 {
		b.WriteString("No issues found.\n")
		return b.String()
	}

	b.WriteString("| Severity | Code | Location | Message |\n")
	b.WriteString("|----------|------|----------|---------|\n")
	for _, f := range sorted(r.Findings) {
		fmt.Fprintf(&b, "| %s | `%s` | %s | %s |\n", f.Severity, f.Code, f.Location, markdownEscape(f.Message))
	}
	return b.String()
}

func markdownEscape(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
