package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/pb33f/gqlific/motor"
)

func newFilterInput() textinput.Model {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = "data.users[?email != null]"
	input.CharLimit = 512
	return input
}

func (m *WorkbenchModel) openFilterModal() tea.Cmd {
	m.modal = ModalFilter
	m.filterErr = nil
	m.filterInput.SetValue(m.filterExpr)
	m.filterInput.CursorEnd()
	return m.filterInput.Focus()
}

func (m *WorkbenchModel) renderFilterModal() string {
	modalWidth := int(float64(m.width) * modalRatio)
	if modalWidth < 40 {
		modalWidth = 40
	}

	modalStyle := lipgloss.NewStyle().
		Width(modalWidth).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(RGBBlue).
		Padding(1)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(RGBBlue)

	var content strings.Builder

	content.WriteString(titleStyle.Render("JMESPath Filter"))
	content.WriteString("\n\n")
	content.WriteString(m.filterInput.View())
	content.WriteString("\n")

	if m.filterErr != nil {
		content.WriteString("\n")
		content.WriteString(ErrorStyle.Render(m.filterErr.Error()))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(HelpStyle.Render("Enter: Apply | Empty: Clear Filter | Esc: Close"))

	return modalStyle.Render(content.String())
}

func (m *WorkbenchModel) handleFilterModalKeys(msg tea.KeyPressMsg) (bool, tea.Cmd) {
	if m.modal != ModalFilter {
		return false, nil
	}

	switch msg.String() {
	case "esc":
		m.modal = ModalNone
		m.filterInput.Blur()
		return true, nil

	case "enter":
		if err := m.applyFilter(strings.TrimSpace(m.filterInput.Value())); err != nil {
			m.filterErr = err
			return true, nil
		}
		m.modal = ModalNone
		m.filterInput.Blur()
		return true, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return true, cmd
}

// applyFilter narrows the response shown in the Response and Table panes. An
// empty expression removes the filter. The session's response is never changed.
func (m *WorkbenchModel) applyFilter(expr string) error {
	if expr == "" {
		m.filterExpr = ""
		m.filtered = nil
		m.refreshResponse()
		return nil
	}

	resp := m.session.Response()
	if resp == nil {
		m.filterExpr = expr
		return nil
	}

	out, err := motor.FilterResponse(resp.Body, expr)
	if err != nil {
		return err
	}

	m.filterExpr = expr
	m.filtered = out
	m.logger.Debug("applied response filter", "expression", expr, "bytes", len(out))
	m.refreshResponse()
	return nil
}
