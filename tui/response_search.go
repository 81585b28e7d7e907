package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
)

// responseSearch tracks the live search over the rendered response.
type responseSearch struct {
	active  bool
	input   textinput.Model
	term    string
	matches int
}

func newResponseSearch() *responseSearch {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = "Search response..."
	input.CharLimit = 100

	return &responseSearch{input: input}
}

// Activate gives the search the keyboard.
func (s *responseSearch) Activate() tea.Cmd {
	s.active = true
	s.input.SetValue(s.term)
	s.input.CursorEnd()
	return s.input.Focus()
}

// Deactivate returns the keyboard but keeps the term highlighted.
func (s *responseSearch) Deactivate() {
	s.active = false
	s.input.Blur()
}

// Clear drops the term and its highlighting.
func (s *responseSearch) Clear() {
	s.Deactivate()
	s.term = ""
	s.matches = 0
	s.input.SetValue("")
}

// handleKey updates the term as the user types. changed reports whether the
// response needs re-rendering.
func (s *responseSearch) handleKey(msg tea.KeyPressMsg) (changed bool, cmd tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.Clear()
		return true, nil
	case "enter":
		s.Deactivate()
		return false, nil
	}

	s.input, cmd = s.input.Update(msg)
	if s.input.Value() != s.term {
		s.term = s.input.Value()
		return true, cmd
	}
	return false, cmd
}

func (s *responseSearch) render() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Search: "))
	if s.active {
		b.WriteString(s.input.View())
	} else {
		b.WriteString(s.term)
	}
	if s.term != "" {
		b.WriteString(FaintStyle.Render(fmt.Sprintf("  (%d matches)", s.matches)))
	}
	return b.String()
}
