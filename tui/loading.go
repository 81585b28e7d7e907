package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/spinner"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/pb33f/gqlific/capture"
	"github.com/pb33f/gqlific/motor/model"
	"github.com/pb33f/gqlific/schema"
)

type LoadState int

const (
	LoadStateLoading LoadState = iota
	LoadStateLoaded
	LoadStateError
)

type loadCompleteMsg struct {
	capture  *capture.Capture
	schema   *schema.Schema
	duration time.Duration
}

type loadErrorMsg struct {
	err error
}

type runCompleteMsg struct {
	resp *model.Response
	err  error
}

// startLoading reads the capture and schema files off the UI goroutine.
func (m *WorkbenchModel) startLoading() tea.Cmd {
	capturePath, schemaPath := m.capturePath, m.schemaPath
	return func() tea.Msg {
		start := time.Now()
		var msg loadCompleteMsg

		if capturePath != "" {
			c, err := capture.Load(capturePath)
			if err != nil {
				return loadErrorMsg{err: fmt.Errorf("failed to load capture: %w", err)}
			}
			msg.capture = c
		}

		if schemaPath != "" {
			data, err := os.ReadFile(schemaPath)
			if err != nil {
				return loadErrorMsg{err: fmt.Errorf("failed to read schema: %w", err)}
			}
			s, err := schema.Parse(data)
			if err != nil {
				return loadErrorMsg{err: fmt.Errorf("failed to parse schema: %w", err)}
			}
			msg.schema = s
		}

		msg.duration = time.Since(start)
		return msg
	}
}

// startRun snapshots the request here, on the update loop, and executes it off the UI
// goroutine so edits made while it runs cannot race with it.
func (m *WorkbenchModel) startRun() tea.Cmd {
	sess := m.session
	req, err := sess.Request()
	if err != nil {
		return func() tea.Msg {
			return runCompleteMsg{err: err}
		}
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		resp, err := sess.Execute(ctx, req)
		return runCompleteMsg{resp: resp, err: err}
	}
}

func (m *WorkbenchModel) renderLoadingView() string {
	spinnerStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center)

	var files []string
	for _, f := range []string{m.capturePath, m.schemaPath} {
		if f != "" {
			files = append(files, f)
		}
	}

	title := TitleStyle.Render("Loading")
	fileInfo := HelpStyle.Render("\n" + strings.Join(files, "\n"))

	return spinnerStyle.Render(fmt.Sprintf("%s %s%s", m.loadingSpinner.View(), title, fileInfo))
}

func (m *WorkbenchModel) renderErrorView() string {
	errorStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(RGBRed).
		Bold(true)

	return errorStyle.Render(fmt.Sprintf("❌ Error loading workbench\n\n%v\n\nPress 'q' to quit", m.err))
}

func createLoadingSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = TitleStyle.UnsetBold()
	return s
}
