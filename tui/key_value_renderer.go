package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/pb33f/gqlific/motor"
	"github.com/pb33f/gqlific/motor/model"
	"github.com/pb33f/gqlific/schema"
)

// pre-computed styles to avoid allocation in hot path
var (
	keyStyleBase = lipgloss.NewStyle().
			Foreground(RGBGrey).
			Align(lipgloss.Right)

	sectionHeaderStyleBase = lipgloss.NewStyle().
				Bold(true).
				Foreground(RGBPink)

	emptyValueText = lipgloss.NewStyle().Faint(true).Render("(empty)")
)

// Line is a single labelled value in a section.
type Line struct {
	Key   string
	Value string
}

// Section represents a grouped section of labelled values
type Section struct {
	Title string
	Lines []Line
}

// RenderOptions configures key-value rendering
type RenderOptions struct {
	Width    int  // total available width
	Truncate bool // whether to truncate long values
	KeyWidth int  // key column width (0 = auto-calculate)
}

// renderSections renders multiple sections as formatted key-value output
func renderSections(sections []Section, opts RenderOptions) string {
	if len(sections) == 0 {
		return ""
	}

	keyWidth := opts.KeyWidth
	if keyWidth == 0 {
		keyWidth = opts.Width * 3 / 10 // 30% for keys
		if keyWidth > 25 {
			keyWidth = 25
		}
		if keyWidth < 12 {
			keyWidth = 12
		}
	}
	valueWidth := opts.Width - keyWidth - 3 // -3 for spacing

	var output strings.Builder

	for i, section := range sections {
		if section.Title != "" {
			output.WriteString(sectionHeaderStyleBase.Width(opts.Width).Render(section.Title))
			output.WriteString("\n")
		}

		for _, line := range section.Lines {
			output.WriteString(renderKeyValueRow(line, keyWidth, valueWidth, opts.Truncate))
			output.WriteString("\n")
		}

		// spacing between sections, not after the last
		if i < len(sections)-1 {
			output.WriteString("\n")
		}
	}

	return output.String()
}

// renderKeyValueRow renders a single labelled value
func renderKeyValueRow(line Line, keyWidth, valueWidth int, truncate bool) string {
	keyStyle := keyStyleBase.Width(keyWidth)

	value := line.Value
	if value == "" {
		value = emptyValueText
	} else if truncate && valueWidth > 3 && len(value) > valueWidth {
		value = value[:valueWidth-3] + "..."
	}

	return keyStyle.Render(line.Key) + "  " + value
}

// buildResponseSections summarises the last response and its projection.
func buildResponseSections(resp *model.Response, table *motor.Table, projectErr error) []Section {
	if resp == nil {
		return nil
	}

	sections := make([]Section, 1, 2)
	sections[0] = Section{
		Title: "Response",
		Lines: []Line{
			{"Status", formatStatus(resp.StatusCode, resp.StatusText)},
			{"Duration", formatDuration(resp.Duration)},
			{"Size", formatSize(resp.Size())},
		},
	}

	projection := Section{Title: "Table"}
	switch {
	case projectErr != nil:
		projection.Lines = []Line{{"Error", projectErr.Error()}}
	case table == nil:
		projection.Lines = []Line{{"Source", "no array under data"}}
	default:
		projection.Lines = []Line{
			{"Source", table.Source},
			{"Columns", strings.Join(table.Columns, ", ")},
			{"Rows", fmt.Sprintf("%d", len(table.Rows))},
		}
	}

	return append(sections, projection)
}

// buildRowSections lays out one projected row in column order.
func buildRowSections(table *motor.Table, row int) []Section {
	if table == nil || row < 0 || row >= len(table.Rows) {
		return nil
	}

	lines := make([]Line, len(table.Columns))
	for i, column := range table.Columns {
		lines[i] = Line{column, table.Rows[row].Cells[i]}
	}

	return []Section{{
		Title: fmt.Sprintf("%s #%d (id %s)", table.Source, row+1, table.Rows[row].ID),
		Lines: lines,
	}}
}

// buildPairSections lists the pairs of a key-value field.
func buildPairSections(title string, pairs []motor.KeyValuePair) []Section {
	lines := make([]Line, 0, len(pairs))
	for _, p := range pairs {
		if p.IsPlaceholder() {
			continue
		}
		lines = append(lines, Line{p.Key, p.Value})
	}
	return []Section{{Title: title, Lines: lines}}
}

// buildTypeSections describes a schema type for the explorer.
func buildTypeSections(t schema.Type) []Section {
	sections := []Section{{
		Title: t.Name,
		Lines: []Line{
			{"Kind", t.Kind},
			{"Description", t.Description},
		},
	}}

	if len(t.Fields) > 0 {
		lines := make([]Line, len(t.Fields))
		for i, f := range t.Fields {
			value := f.Signature()
			if f.IsDeprecated {
				value += " (deprecated)"
			}
			lines[i] = Line{f.Name, value}
		}
		sections = append(sections, Section{Title: "Fields", Lines: lines})
	}

	if len(t.InputFields) > 0 {
		lines := make([]Line, len(t.InputFields))
		for i, f := range t.InputFields {
			lines[i] = Line{f.Name, f.Type.String()}
		}
		sections = append(sections, Section{Title: "Input Fields", Lines: lines})
	}

	if len(t.EnumValues) > 0 {
		lines := make([]Line, len(t.EnumValues))
		for i, v := range t.EnumValues {
			lines[i] = Line{v.Name, v.Description}
		}
		sections = append(sections, Section{Title: "Values", Lines: lines})
	}

	if len(t.Interfaces)+len(t.PossibleTypes) > 0 {
		lines := make([]Line, 0, len(t.Interfaces)+len(t.PossibleTypes))
		for _, r := range t.Interfaces {
			lines = append(lines, Line{"implements", r.Named()})
		}
		for _, r := range t.PossibleTypes {
			lines = append(lines, Line{"possible", r.Named()})
		}
		sections = append(sections, Section{Title: "Related", Lines: lines})
	}

	return sections
}
