package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/v2/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestColorizeProjectionOutput(t *testing.T) {
	columns := []table.Column{
		{Title: "name", Width: 10},
		{Title: "active", Width: 8},
		{Title: "posts", Width: 12},
	}
	rows := []table.Row{
		{"Alice", "true", "[2 items]"},
		{"Bob", "false", "[0 items]"},
		{"Charlie", "true", "[1 items]"},
	}

	tbl := ApplyTableStyles(table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(6),
		table.WithWidth(40),
	))

	view := tbl.View()
	out := ColorizeProjectionOutput(view, 0, rows)

	// colour is only added, never text
	assert.Equal(t, ansi.Strip(view), ansi.Strip(out))

	lines := strings.Split(out, "\n")
	viewLines := strings.Split(view, "\n")
	assert.Equal(t, viewLines[0], lines[0], "header untouched")

	for i, line := range lines {
		plain := ansi.Strip(line)
		switch {
		case strings.Contains(plain, "Alice"):
			assert.Equal(t, viewLines[i], line, "selected row untouched")
		case strings.Contains(plain, "Bob"):
			assert.Contains(t, line, renderedFalse)
			assert.Contains(t, line, StyleCellSummary.Render("[0 items]"))
		case strings.Contains(plain, "Charlie"):
			assert.Contains(t, line, renderedTrue)
		}
	}
}

func TestColorizeProjectionOutput_CursorOutOfRange(t *testing.T) {
	out := ColorizeProjectionOutput("header\n a  true ", 5, nil)
	lines := strings.Split(out, "\n")
	assert.Equal(t, "header", lines[0])
	assert.Contains(t, lines[1], renderedTrue)
}

func TestCompactSpaces(t *testing.T) {
	assert.Equal(t, "abc", compactSpaces("  a b\tc  "))
}
