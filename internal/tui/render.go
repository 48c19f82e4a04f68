package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sprite-ai/commitlint-core/internal/engine"
	"github.com/sprite-ai/commitlint-core/internal/model"
	"github.com/sprite-ai/commitlint-core/internal/report"
)

// renderedLine is a single line of the detail pane ready for display.
type renderedLine struct {
	Content string
	Style   lipgloss.Style

	// Syntax highlighting tokens (nil = no highlighting)
	Tokens []report.Token
}

func plain(content string) renderedLine {
	return renderedLine{Content: content, Style: textStyle}
}

func styled(style lipgloss.Style, content string) renderedLine {
	return renderedLine{Content: content, Style: style}
}

func severityStyle(s model.Severity) lipgloss.Style {
	switch s {
	case model.SeverityCritical:
		return findingCriticalStyle
	case model.SeverityHigh:
		return findingHighStyle
	case model.SeverityMedium:
		return findingMediumStyle
	default:
		return findingLowStyle
	}
}

// entryStatus returns the label and style shown for an entry.
func entryStatus(e engine.Entry) (string, lipgloss.Style) {
	if e.Err != nil || e.Result == nil {
		return "error", statusFailStyle
	}
	switch s := e.Result.Report.Status; s {
	case model.StatusFail:
		return s.String(), statusFailStyle
	case model.StatusWarn:
		return s.String(), statusWarnStyle
	default:
		return s.String(), statusPassStyle
	}
}

func isFailing(e engine.Entry) bool {
	return e.Err != nil || e.Result == nil || e.Result.Report.Status == model.StatusFail
}

// renderEntry produces the detail lines for one entry.
func renderEntry(e engine.Entry, jsonView bool) []renderedLine {
	if e.Err != nil {
		return []renderedLine{styled(errorStyle, "parse error: "+e.Err.Error())}
	}
	if e.Result == nil {
		return nil
	}
	if jsonView {
		return renderJSON(e.Result.Report)
	}
	return renderFindings(e.Result)
}

func renderFindings(res *engine.Result) []renderedLine {
	var lines []renderedLine
	msg := res.Message

	lines = append(lines, styled(sectionStyle, "Message"))
	lines = append(lines, plain("  "+msg.Header()))
	if msg.HasBody() {
		lines = append(lines, plain(""))
		for _, l := range strings.Split(msg.Body(), "\n") {
			lines = append(lines, plain("  "+l))
		}
	}
	if footers := msg.Footers(); len(footers) > 0 {
		lines = append(lines, plain(""))
		for _, f := range footers {
			lines = append(lines, styled(labelStyle, fmt.Sprintf("  %s: %s", f.Key, f.Value)))
		}
	}

	c := res.Classification
	lines = append(lines, plain(""), styled(sectionStyle, "Classification"))
	lines = append(lines, plain(fmt.Sprintf("  %s (confidence %.2f): %s", c.InferredType, c.Confidence, c.Rationale)))

	v := res.Scope
	lines = append(lines, plain(""), styled(sectionStyle, "Scope"))
	switch {
	case v.DeclaredScope == nil:
		lines = append(lines, styled(labelStyle, "  none declared"))
	case v.IsKnown:
		lines = append(lines, plain(fmt.Sprintf("  %s (known)", *v.DeclaredScope)))
	default:
		line := fmt.Sprintf("  %s (unknown)", *v.DeclaredScope)
		if v.SuggestedScope != nil {
			line += fmt.Sprintf(", suggested %s", *v.SuggestedScope)
		}
		lines = append(lines, styled(findingMediumStyle, line))
	}

	r := res.Report
	lines = append(lines, plain(""), styled(sectionStyle, fmt.Sprintf("Findings (%s)", r.Summary())))
	for _, f := range r.Findings {
		lines = append(lines, styled(severityStyle(f.Severity),
			fmt.Sprintf("  [%s] %s (%s): %s", f.Severity, f.Code, f.Location, f.Message)))
	}
	return lines
}

func renderJSON(r report.Report) []renderedLine {
	out, err := report.Format(r, report.TargetJSON)
	if err != nil {
		return []renderedLine{styled(errorStyle, err.Error())}
	}
	src := strings.Split(strings.TrimRight(out, "\n"), "\n")
	highlighted := report.HighlightLines("json", src)

	lines := make([]renderedLine, len(src))
	for i, l := range src {
		lines[i] = renderedLine{Content: l, Style: textStyle, Tokens: highlighted[i].Tokens}
	}
	return lines
}

// renderHighlightedContent renders line content with syntax tokens.
func renderHighlightedContent(rl renderedLine) string {
	var b strings.Builder
	for _, tok := range rl.Tokens {
		if tok.Color != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(tok.Color)).Render(tok.Text))
		} else {
			b.WriteString(textStyle.Render(tok.Text))
		}
	}
	return b.String()
}

func styleLine(rl renderedLine, width int) string {
	if len(rl.Tokens) > 0 && lipgloss.Width(rl.Content) <= width {
		return renderHighlightedContent(rl)
	}
	return rl.Style.Render(truncate(rl.Content, width))
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) > max {
		return string(r[:max-1]) + "…"
	}
	return s
}
