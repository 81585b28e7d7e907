package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
)

func (m *WorkbenchModel) openRowDetail() {
	if m.projection == nil || len(m.projection.Rows) == 0 {
		return
	}
	m.modal = ModalRowDetail

	modalWidth, modalHeight := m.modalDimensions()
	if m.detailViewport.Width() == 0 {
		m.detailViewport = viewport.New(
			viewport.WithWidth(modalWidth-4),
			viewport.WithHeight(modalHeight-4),
		)
	} else {
		m.detailViewport.SetWidth(modalWidth - 4)
		m.detailViewport.SetHeight(modalHeight - 4)
	}
	m.detailViewport.SetContent(m.formatRowFull(modalWidth - 4))
	m.detailViewport.GotoTop()
}

func (m *WorkbenchModel) modalDimensions() (int, int) {
	w := int(float64(m.width) * modalRatio)
	h := int(float64(m.height) * modalRatio)
	if w < 20 {
		w = 20
	}
	if h < 8 {
		h = 8
	}
	return w, h
}

// renderDetailModal renders the selected row with every cell in full
func (m *WorkbenchModel) renderDetailModal() string {
	modalWidth, modalHeight := m.modalDimensions()

	modalStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Height(modalHeight).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(RGBBlue).
		Padding(1)

	helpStyle := lipgloss.NewStyle().
		Foreground(RGBGrey).
		Faint(true).
		Width(modalWidth - 4).
		Align(lipgloss.Center)

	var modal strings.Builder
	modal.WriteString(m.detailViewport.View())
	modal.WriteString("\n")
	modal.WriteString(helpStyle.Render("↑/↓: Scroll | y: Copy Row | Esc: Close"))

	return modalStyle.Render(modal.String())
}

// formatRowFull lays out the selected row untruncated; nested objects are highlighted.
func (m *WorkbenchModel) formatRowFull(width int) string {
	sections := buildRowSections(m.projection, m.table.Cursor())
	for i := range sections {
		for j, line := range sections[i].Lines {
			if strings.HasPrefix(line.Value, "{") {
				sections[i].Lines[j].Value = "\n" + HighlightJSON(line.Value)
			}
		}
	}
	return renderSections(sections, RenderOptions{Width: width})
}

// handleDetailModalKeys handles key events when the detail modal is open
func (m *WorkbenchModel) handleDetailModalKeys(msg tea.KeyPressMsg) (bool, tea.Cmd) {
	if m.modal != ModalRowDetail {
		return false, nil
	}

	switch msg.String() {
	case "esc", "enter":
		m.modal = ModalNone
		return true, nil
	case "y":
		m.copySelectedRow()
		return true, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return true, cmd
}
