package tui

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/v2/table"
)

// pre-rendered cell strings to avoid repeated style.Render() calls in hot path
var (
	renderedTrue  string
	renderedFalse string

	itemCountPattern = regexp.MustCompile(`\[\d+ items\]`)
)

func init() {
	renderedTrue = StyleCellTrue.Render("true")
	renderedFalse = StyleCellFalse.Render("false")
}

// ColorizeProjectionOutput post-processes a rendered projection table: booleans are
// coloured and collapsed array counts are faint. The header and the selected row are
// left alone so the table's own styling survives.
func ColorizeProjectionOutput(tableView string, cursor int, rows []table.Row) string {
	lines := strings.Split(tableView, "\n")

	// identify the selected row by content as well, the table background marker is
	// lost when the view scrolls
	var selectedIdentifier string
	if cursor >= 0 && cursor < len(rows) {
		selectedIdentifier = strings.Join(rows[cursor], "")
	}

	// ANSI escape sequence for pink background (matches table selected style from styles.go)
	selectedLineMarker := "\x1b[1;38;5;201;48;2;42;26;42m"

	var result strings.Builder
	result.Grow(len(tableView) + len(lines)*40)

	for i, line := range lines {
		isSelectedLine := strings.Contains(line, selectedLineMarker) ||
			(selectedIdentifier != "" && strings.Contains(compactSpaces(line), compactSpaces(selectedIdentifier)))

		if i >= 1 && !isSelectedLine {
			line = colorizeBooleans(line)
			line = colorizeItemCounts(line)
		}

		result.WriteString(line)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}

	return result.String()
}

func colorizeBooleans(line string) string {
	line = strings.ReplaceAll(line, " true ", " "+renderedTrue+" ")
	return strings.ReplaceAll(line, " false ", " "+renderedFalse+" ")
}

func colorizeItemCounts(line string) string {
	return itemCountPattern.ReplaceAllStringFunc(line, func(s string) string {
		return StyleCellSummary.Render(s)
	})
}

func compactSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
