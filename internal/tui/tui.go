// Package tui implements the Bubble Tea batch report browser.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sprite-ai/commitlint-core/internal/engine"
)

// Model is the top-level Bubble Tea model for the batch browser.
type Model struct {
	entries []engine.Entry

	// UI state
	width  int
	height int

	// Entry list
	index int // currently selected entry

	// Detail viewport
	scrollOffset int
	viewHeight   int

	// Rendered lines for the current entry
	lines []renderedLine

	// View mode
	jsonView bool

	// Help
	showHelp bool
}

// New creates a new TUI model over batch entries.
func New(entries []engine.Entry) Model {
	m := Model{entries: entries}
	m.updateLines()
	return m
}

func (m *Model) updateLines() {
	if len(m.entries) == 0 {
		m.lines = nil
		return
	}
	m.lines = renderEntry(m.entries[m.index], m.jsonView)
}

func (m *Model) selectEntry(i int) {
	m.index = i
	m.scrollOffset = 0
	m.updateLines()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewHeight = m.height - 4 // status bar + borders
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Down):
			if m.scrollOffset < len(m.lines)-1 {
				m.scrollOffset++
			}

		case key.Matches(msg, keys.Up):
			if m.scrollOffset > 0 {
				m.scrollOffset--
			}

		case key.Matches(msg, keys.NextEntry):
			if m.index < len(m.entries)-1 {
				m.selectEntry(m.index + 1)
			}

		case key.Matches(msg, keys.PrevEntry):
			if m.index > 0 {
				m.selectEntry(m.index - 1)
			}

		case key.Matches(msg, keys.NextFailing):
			m.jumpToNextFailing()

		case key.Matches(msg, keys.PrevFailing):
			m.jumpToPrevFailing()

		case key.Matches(msg, keys.Toggle):
			m.jsonView = !m.jsonView
			m.scrollOffset = 0
			m.updateLines()

		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
		}
	}

	return m, nil
}

func (m *Model) jumpToNextFailing() {
	for i := m.index + 1; i < len(m.entries); i++ {
		if isFailing(m.entries[i]) {
			m.selectEntry(i)
			return
		}
	}
}

func (m *Model) jumpToPrevFailing() {
	for i := m.index - 1; i >= 0; i-- {
		if isFailing(m.entries[i]) {
			m.selectEntry(i)
			return
		}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	listWidth := m.listWidth()
	detailWidth := m.width - listWidth - 1 // -1 for gap

	list := m.renderList(listWidth, m.height-2)
	detail := m.renderDetail(detailWidth, m.height-2)

	main := lipgloss.JoinHorizontal(lipgloss.Top, list, " ", detail)

	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m Model) listWidth() int {
	maxLen := 20
	for _, e := range m.entries {
		if len(e.ID) > maxLen {
			maxLen = len(e.ID)
		}
	}
	w := maxLen + 10 // padding + status
	if w > m.width/3 {
		w = m.width / 3
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) renderList(width, height int) string {
	var b strings.Builder

	for i, e := range m.entries {
		maxName := width - 12
		name := truncate(e.ID, maxName)
		label, style := entryStatus(e)

		var line string
		if i == m.index {
			line = itemSelectedStyle.Width(width - 4).Render(fmt.Sprintf("%-*s %s", maxName, name, label))
		} else {
			line = itemStyle.Render(fmt.Sprintf("%-*s ", maxName, name)) + style.Render(label)
		}

		b.WriteString(line)
		if i < len(m.entries)-1 {
			b.WriteByte('\n')
		}
	}

	innerHeight := height - 2 // borders
	return listStyle.Width(width).Height(innerHeight).Render(b.String())
}

func (m Model) renderDetail(width, height int) string {
	innerHeight := height - 2
	if len(m.entries) == 0 {
		return detailStyle.Width(width).Height(innerHeight).Render("No messages")
	}

	e := m.entries[m.index]
	innerWidth := width - 4 // borders + padding

	visibleLines := innerHeight - 2 // header takes some space
	if visibleLines < 1 {
		visibleLines = 1
	}

	var b strings.Builder
	b.WriteString(detailHeaderStyle.Render(e.ID))
	b.WriteByte('\n')

	end := m.scrollOffset + visibleLines
	if end > len(m.lines) {
		end = len(m.lines)
	}
	for i := m.scrollOffset; i < end; i++ {
		b.WriteString(styleLine(m.lines[i], innerWidth))
		if i < end-1 {
			b.WriteByte('\n')
		}
	}

	return detailStyle.Width(width).Height(innerHeight).Render(b.String())
}

func (m Model) renderStatusBar() string {
	var failing int
	for _, e := range m.entries {
		if isFailing(e) {
			failing++
		}
	}

	left := fmt.Sprintf(" Message %d/%d", m.index+1, len(m.entries))
	if len(m.lines) > 0 {
		left += fmt.Sprintf("  Line %d/%d", m.scrollOffset+1, len(m.lines))
	}

	mode := "findings"
	if m.jsonView {
		mode = "json"
	}

	right := fmt.Sprintf("%d failing  %s  ? help ", failing, mode)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(detailHeaderStyle.Render("commitlint-core: Keyboard Shortcuts"))
	b.WriteString("\n\n")

	helpItems := []struct{ key, desc string }{
		{"↑/k", "Scroll up"},
		{"↓/j", "Scroll down"},
		{"n/Tab", "Next message"},
		{"N/S-Tab", "Previous message"},
		{"]", "Next failing message"},
		{"[", "Previous failing message"},
		{"v", "Toggle findings/json view"},
		{"?", "Toggle this help"},
		{"q", "Quit"},
	}

	for _, item := range helpItems {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			helpKeyStyle.Width(12).Render(item.key),
			item.desc,
		))
	}

	b.WriteString("\n")
	b.WriteString(helpBarStyle.Render("Press ? to close help"))

	return b.String()
}

// Run starts the TUI application.
func Run(entries []engine.Entry) error {
	p := tea.NewProgram(New(entries), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
