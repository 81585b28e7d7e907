package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/table"
	"github.com/mattn/go-runewidth"
	"github.com/pb33f/gqlific/motor"
)

// buildProjectionTable turns a projection into bubbles columns and rows. Column
// widths follow the widest cell, clamped, and shrink evenly to fit width.
func buildProjectionTable(t *motor.Table, width int) ([]table.Column, []table.Row) {
	if t == nil {
		return nil, nil
	}

	widths := make([]int, len(t.Columns))
	for i, name := range t.Columns {
		widths[i] = runewidth.StringWidth(name)
	}
	for _, row := range t.Rows {
		for i, cell := range row.Cells {
			if w := runewidth.StringWidth(singleLine(cell)); w > widths[i] {
				widths[i] = w
			}
		}
	}

	available := width - borderPadding - 2*len(widths)
	fitColumnWidths(widths, available)

	columns := make([]table.Column, len(t.Columns))
	for i, name := range t.Columns {
		columns[i] = table.Column{Title: name, Width: widths[i]}
	}

	rows := make([]table.Row, len(t.Rows))
	for r, row := range t.Rows {
		cells := make(table.Row, len(row.Cells))
		for i, cell := range row.Cells {
			cells[i] = truncateString(singleLine(cell), widths[i])
		}
		rows[r] = cells
	}

	return columns, rows
}

// singleLine folds a nested object cell onto one line for the table.
func singleLine(cell string) string {
	if !strings.ContainsRune(cell, '\n') {
		return cell
	}
	return strings.Join(strings.Fields(cell), " ")
}

func fitColumnWidths(widths []int, available int) {
	total := 0
	for i, w := range widths {
		if w < minColumnWidth {
			w = minColumnWidth
		}
		if w > maxColumnWidth {
			w = maxColumnWidth
		}
		widths[i] = w
		total += w
	}

	// take one column from the widest until it fits or nothing can shrink
	for total > available && available > 0 {
		widest := 0
		for i, w := range widths {
			if w > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= minColumnWidth {
			return
		}
		widths[widest]--
		total--
	}
}

func formatStatus(code int, text string) string {
	if code == 0 {
		return "---"
	}

	if text != "" {
		status := fmt.Sprintf("%d %s", code, text)
		if len(status) > 24 {
			return fmt.Sprintf("%d", code)
		}
		return status
	}

	return fmt.Sprintf("%d", code)
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return "---"
	}

	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dμs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		seconds := float64(d.Milliseconds()) / 1000.0
		return fmt.Sprintf("%.1fs", seconds)
	default:
		minutes := int(d.Minutes())
		seconds := int(d.Seconds()) - (minutes * 60)
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}
}

func formatSize(bytes int) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%dB", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.1fKB", float64(bytes)/1024.0)
	default:
		return fmt.Sprintf("%.1fMB", float64(bytes)/(1024.0*1024.0))
	}
}

func truncateString(s string, maxLen int) string {
	if runewidth.StringWidth(s) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return runewidth.Truncate(s, maxLen, "")
	}

	return runewidth.Truncate(s, maxLen, "...")
}
