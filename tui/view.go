package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
)

func (m *WorkbenchModel) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}

	switch m.loadState {
	case LoadStateLoading:
		return m.renderLoadingView()
	case LoadStateError:
		return m.renderErrorView()
	}

	var builder strings.Builder

	builder.WriteString(m.renderTitle())
	builder.WriteString("\n")
	builder.WriteString(m.renderTabs())
	builder.WriteString("\n")
	builder.WriteString(m.renderBody())
	builder.WriteString("\n")
	builder.WriteString(m.renderStatusBar())

	return builder.String()
}

func (m *WorkbenchModel) renderTitle() string {
	env := m.session.Environment()

	titleText := lipgloss.NewStyle().Bold(true).Render("GQLific | ")

	envName := env.Name
	if envName == "" {
		envName = "no environment"
	}
	info := EnvironmentStyle(env.Color).Render(envName)
	if env.URL != "" {
		info += FaintStyle.Render(" " + env.URL)
	}
	if op := m.session.OperationName(); op != "" {
		info += FaintStyle.Render(" | operation ") + op
	}
	if m.loadTime > 0 {
		info += FaintStyle.Render(fmt.Sprintf(" (loaded in %v)", m.loadTime.Round(time.Millisecond)))
	}

	return titleBarStyle.Width(m.width).Render(titleText + info)
}

func (m *WorkbenchModel) renderTabs() string {
	tabs := make([]string, 0, paneCount)
	for p := Pane(0); p < paneCount; p++ {
		label := p.String()
		switch p {
		case PaneVariables:
			label += " " + ModeBadge(m.session.Variables().Mode())
		case PaneHeaders:
			label += " " + ModeBadge(m.session.Headers().Mode())
		case PaneTable:
			if m.projection != nil {
				label += fmt.Sprintf(" (%d)", len(m.projection.Rows))
			}
		}

		if p == m.pane {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *WorkbenchModel) renderBody() string {
	height := m.bodyHeight()

	var body string
	switch m.pane {
	case PaneQuery:
		body = m.queryViewport.View()
	case PaneVariables:
		body = m.variables.render(m.width-panelPadding, true)
	case PaneHeaders:
		body = m.headers.render(m.width-panelPadding, true)
	case PaneResponse:
		body = m.renderResponsePane()
	case PaneTable:
		body = m.renderTablePane()
	case PaneSchema:
		body = m.explorer.render(m.width-panelPadding, height)
	case PaneHistory:
		body = m.renderLibrary(height)
	}

	switch m.modal {
	case ModalFilter:
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, m.renderFilterModal())
	case ModalRowDetail:
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, m.renderDetailModal())
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Height(height).
		MaxHeight(height).
		Padding(0, 1).
		Render(body)
}

func (m *WorkbenchModel) renderResponsePane() string {
	resp := m.session.Response()
	if resp == nil {
		return m.responseViewport.View()
	}

	summary := fmt.Sprintf("%s  %s  %s",
		StatusStyle(resp.StatusCode).Render(formatStatus(resp.StatusCode, resp.StatusText)),
		FaintStyle.Render(formatDuration(resp.Duration)),
		FaintStyle.Render(formatSize(resp.Size())))
	if m.filterExpr != "" {
		summary += HelpStyle.Render("  filter: ") + m.filterExpr
	}

	search := ""
	if m.search.active || m.search.term != "" {
		search = m.search.render()
	}

	return summary + "\n" + search + "\n" + m.responseViewport.View()
}

func (m *WorkbenchModel) renderTablePane() string {
	if m.projection == nil {
		sections := buildResponseSections(m.session.Response(), nil, m.session.ProjectionError())
		if len(sections) == 0 {
			return FaintStyle.Render("No response yet. Press r to run the query.")
		}
		return renderSections(sections, RenderOptions{Width: m.width - panelPadding, Truncate: true})
	}

	header := fmt.Sprintf("%s %s",
		HeaderStyle.Render(m.projection.Source),
		FaintStyle.Render(fmt.Sprintf("%d rows, %d columns", len(m.projection.Rows), len(m.projection.Columns))))

	return header + "\n" + ColorizeProjectionOutput(m.table.View(), m.table.Cursor(), m.rows)
}

func (m *WorkbenchModel) renderStatusBar() string {
	var parts []string

	if m.running {
		parts = append(parts, m.loadingSpinner.View()+" running")
	}

	switch m.pane {
	case PaneQuery:
		parts = append(parts, "r: Run", "o: Next Operation", "y: Copy")
	case PaneVariables, PaneHeaders:
		parts = append(parts, "t: Toggle Mode", "a: Add", "e: Edit", "d: Delete")
		if m.pane == PaneHeaders && len(m.headers.quick) > 0 {
			parts = append(parts, "1-9: Quick Insert")
		}
	case PaneResponse:
		parts = append(parts, "/: Search", "f: Filter", "y: Copy")
	case PaneTable:
		parts = append(parts, "↑/↓: Navigate", "Enter: View Row", "f: Filter", "y: Copy Row")
	case PaneSchema:
		parts = append(parts, "↑/↓: Navigate", "/: Filter Types")
	case PaneHistory:
		parts = append(parts, "↑/↓: Navigate", "Enter: Load", "x: Clear History")
	}
	parts = append(parts, "Tab: Next Pane", "n: Environment", "q: Quit")

	help := HelpStyle.Render(strings.Join(parts, " | "))

	switch {
	case m.err != nil:
		return ErrorStyle.Render(m.err.Error()) + "  " + help
	case m.status != "":
		return StatusOKStyle.Render(m.status) + "  " + help
	}
	return help
}
