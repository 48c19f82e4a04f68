package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sprite-ai/commitlint-core/internal/engine"
)

func testEntries(t *testing.T) []engine.Entry {
	t.Helper()
	eng := engine.New(engine.Options{})
	return eng.Batch(context.Background(), []engine.Item{
		{ID: "clean", Message: "feat(auth): add OAuth2 login\n\nUses the provider's PKCE flow.\n\nCloses #12"},
		{ID: "vague", Message: "fix stuff"},
		{ID: "long", Message: "chore: bump the lint configuration so that it catches more mistakes early"},
		{ID: "empty", Message: ""},
	})
}

func setupModel(t *testing.T) Model {
	t.Helper()
	m := New(testEntries(t))
	// Simulate window size
	newM, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return newM.(Model)
}

func press(m Model, r rune) Model {
	newM, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return newM.(Model)
}

func TestModelInit(t *testing.T) {
	m := setupModel(t)

	if m.index != 0 {
		t.Errorf("expected index 0, got %d", m.index)
	}
	if len(m.lines) == 0 {
		t.Error("expected lines to be rendered")
	}
	if m.Init() != nil {
		t.Error("expected nil init command")
	}
}

func TestNavigation(t *testing.T) {
	m := setupModel(t)

	m = press(m, 'n')
	if m.index != 1 {
		t.Errorf("expected index 1 after next, got %d", m.index)
	}

	m = press(m, 'n')
	m = press(m, 'n')
	m = press(m, 'n')
	if m.index != 3 {
		t.Errorf("expected index 3 at end, got %d", m.index)
	}

	m = press(m, 'N')
	if m.index != 2 {
		t.Errorf("expected index 2 after prev, got %d", m.index)
	}

	newM, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = newM.(Model)
	if m.index != 3 {
		t.Errorf("expected tab to advance, got %d", m.index)
	}
}

func TestJumpToFailing(t *testing.T) {
	m := setupModel(t)

	m = press(m, ']')
	if m.index != 1 {
		t.Fatalf("expected first failing entry at 1, got %d", m.index)
	}

	// "long" only warns, so the next failing entry is the parse error.
	m = press(m, ']')
	if m.index != 3 {
		t.Fatalf("expected parse error entry at 3, got %d", m.index)
	}

	m = press(m, '[')
	if m.index != 1 {
		t.Errorf("expected to jump back to 1, got %d", m.index)
	}
}

func TestScroll(t *testing.T) {
	m := setupModel(t)

	m = press(m, 'j')
	if m.scrollOffset != 1 {
		t.Errorf("expected scroll 1, got %d", m.scrollOffset)
	}
	m = press(m, 'k')
	m = press(m, 'k')
	if m.scrollOffset != 0 {
		t.Errorf("expected scroll clamped at 0, got %d", m.scrollOffset)
	}

	for i := 0; i < 200; i++ {
		m = press(m, 'j')
	}
	if m.scrollOffset != len(m.lines)-1 {
		t.Errorf("expected scroll clamped at %d, got %d", len(m.lines)-1, m.scrollOffset)
	}

	m = press(m, 'n')
	if m.scrollOffset != 0 {
		t.Error("expected scroll reset when changing entry")
	}
}

func TestToggleJSONView(t *testing.T) {
	m := setupModel(t)
	m = press(m, 'n') // vague

	m = press(m, 'v')
	if !m.jsonView {
		t.Fatal("expected json view")
	}
	first := m.lines[0].Content
	if first != "{" {
		t.Errorf("expected json to start with '{', got %q", first)
	}
	var sawCode bool
	for _, l := range m.lines {
		if strings.Contains(l.Content, `"code": "MISSING_TYPE"`) {
			sawCode = true
		}
	}
	if !sawCode {
		t.Error("expected MISSING_TYPE in json view")
	}

	m = press(m, 'v')
	if m.jsonView {
		t.Error("expected findings view after second toggle")
	}
}

func TestViewContent(t *testing.T) {
	m := setupModel(t)
	view := m.View()

	for _, want := range []string{"clean", "vague", "feat(auth): add OAuth2 login", "Closes: #12", "explicit type", "Message 1/4"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewParseError(t *testing.T) {
	m := setupModel(t)
	for i := 0; i < 3; i++ {
		m = press(m, 'n')
	}
	view := m.View()
	if !strings.Contains(view, "parse error") {
		t.Error("expected parse error in detail view")
	}
	if !strings.Contains(view, "error") {
		t.Error("expected error status in list")
	}
}

func TestHelpToggle(t *testing.T) {
	m := setupModel(t)

	m = press(m, '?')
	if !m.showHelp {
		t.Fatal("expected help to be shown")
	}
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("expected help view")
	}

	m = press(m, '?')
	if m.showHelp {
		t.Error("expected help to be hidden")
	}
}

func TestQuit(t *testing.T) {
	m := setupModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestLoadingBeforeResize(t *testing.T) {
	m := New(nil)
	if m.View() != "Loading..." {
		t.Errorf("expected loading view, got %q", m.View())
	}

	newM, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	if !strings.Contains(newM.View(), "No messages") {
		t.Error("expected empty state")
	}
}
