package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/pb33f/gqlific/schema"
)

// schemaExplorer lists schema types filtered by a fuzzy term and describes the
// selected one.
type schemaExplorer struct {
	schema  *schema.Schema
	input   textinput.Model
	typing  bool
	matches []schema.Match
	cursor  int
}

func newSchemaExplorer(s *schema.Schema) *schemaExplorer {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = "filter types..."
	input.CharLimit = 64

	e := &schemaExplorer{input: input}
	e.setSchema(s)
	return e
}

func (e *schemaExplorer) setSchema(s *schema.Schema) {
	e.schema = s
	e.refilter()
}

func (e *schemaExplorer) refilter() {
	e.cursor = 0
	e.matches = nil
	if e.schema != nil {
		e.matches = e.schema.Filter(e.input.Value())
	}
}

// selected returns the highlighted type.
func (e *schemaExplorer) selected() (schema.Type, bool) {
	if e.cursor < 0 || e.cursor >= len(e.matches) {
		return schema.Type{}, false
	}
	return e.matches[e.cursor].Type, true
}

func (e *schemaExplorer) handleKey(msg tea.KeyPressMsg) (bool, tea.Cmd) {
	if e.typing {
		switch msg.String() {
		case "esc", "enter":
			e.typing = false
			e.input.Blur()
			return true, nil
		}
		var cmd tea.Cmd
		before := e.input.Value()
		e.input, cmd = e.input.Update(msg)
		if e.input.Value() != before {
			e.refilter()
		}
		return true, cmd
	}

	switch msg.String() {
	case "/":
		e.typing = true
		return true, e.input.Focus()
	case "up", "k":
		if e.cursor > 0 {
			e.cursor--
		}
		return true, nil
	case "down", "j":
		if e.cursor < len(e.matches)-1 {
			e.cursor++
		}
		return true, nil
	case "esc":
		if e.input.Value() != "" {
			e.input.SetValue("")
			e.refilter()
			return true, nil
		}
	}
	return false, nil
}

func (e *schemaExplorer) render(width, height int) string {
	if e.schema == nil {
		return FaintStyle.Render("No schema loaded. Start with --schema <introspection.json>.")
	}

	listWidth := int(float64(width) * schemaListRatio)
	detailWidth := width - listWidth - panelPadding

	var list strings.Builder
	list.WriteString(TitleStyle.Render("Types "))
	if e.typing || e.input.Value() != "" {
		list.WriteString(e.input.View())
	} else {
		list.WriteString(HelpStyle.Render("/ to filter"))
	}
	list.WriteString("\n\n")

	start, end := visibleWindow(e.cursor, len(e.matches), height-3)
	for i := start; i < end; i++ {
		m := e.matches[i]
		name := highlightMatched(m.Type.Name, m.MatchedIndexes)
		line := fmt.Sprintf("%s %s", name, FaintStyle.Render(strings.ToLower(m.Type.Kind)))
		if i == e.cursor {
			line = SelectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		list.WriteString(line)
		list.WriteString("\n")
	}
	if len(e.matches) == 0 {
		list.WriteString(FaintStyle.Render("  no matching types"))
	}

	detail := ""
	if t, ok := e.selected(); ok {
		detail = renderSections(buildTypeSections(t), RenderOptions{Width: detailWidth, Truncate: true})
	}

	left := lipgloss.NewStyle().Width(listWidth).Height(height).Render(list.String())
	right := lipgloss.NewStyle().Width(detailWidth).Height(height).PaddingLeft(panelPadding).Render(detail)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// highlightMatched colours the runes of name a fuzzy match landed on.
func highlightMatched(name string, indexes []int) string {
	if len(indexes) == 0 {
		return name
	}

	hit := make(map[int]bool, len(indexes))
	for _, i := range indexes {
		hit[i] = true
	}

	var b strings.Builder
	for i, r := range name {
		if hit[i] {
			b.WriteString(TitleStyle.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// visibleWindow returns the slice of n items to show in height lines around cursor.
func visibleWindow(cursor, n, height int) (int, int) {
	if height <= 0 || n <= height {
		return 0, n
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	end := start + height
	if end > n {
		end = n
		start = end - height
	}
	return start, end
}
