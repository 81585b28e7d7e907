package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/mattn/go-runewidth"
	"github.com/pb33f/gqlific/motor"
	"github.com/pb33f/gqlific/tui"
	"github.com/spf13/cobra"
)

const maxCellWidth = 40

var (
	tableFilter string
	tableJSON   bool
)

var tableCmd = &cobra.Command{
	Use:   "table [response.json]",
	Short: "Project a GraphQL response into a table",
	Long: `Read a GraphQL response from a file or stdin and print the table projected from
the first list under its data object. Columns come from the first row, nested lists
are summarised as "[N items]" and nested objects are shown as JSON.`,
	Example: `  gqlific table response.json
  curl -s ... | gqlific table --filter "{data: {users: data.users[?active]}}"
  gqlific table response.json --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTableCmd,
}

func init() {
	rootCmd.AddCommand(tableCmd)
	tableCmd.Flags().StringVarP(&tableFilter, "filter", "f", "", "JMESPath expression applied before projecting")
	tableCmd.Flags().BoolVar(&tableJSON, "json", false, "Print the table as JSON")
}

func runTableCmd(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}

	body, err := readInput(cmd, path)
	if err != nil {
		return err
	}

	if tableFilter != "" {
		if body, err = motor.FilterResponse(body, tableFilter); err != nil {
			return err
		}
	}

	return printProjection(cmd.OutOrStdout(), body, tableJSON)
}

type tableJSONDoc struct {
	Source  string         `json:"source"`
	Columns []string       `json:"columns"`
	Rows    []tableJSONRow `json:"rows"`
}

type tableJSONRow struct {
	ID    string   `json:"id"`
	Cells []string `json:"cells"`
}

// printProjection projects body and prints the table, as JSON when asJSON is set.
func printProjection(w io.Writer, body []byte, asJSON bool) error {
	projection, err := motor.Project(body)
	if err != nil {
		return err
	}

	if asJSON {
		doc := tableJSONDoc{Columns: []string{}, Rows: []tableJSONRow{}}
		if projection != nil {
			doc.Source = projection.Source
			doc.Columns = projection.Columns
			for _, row := range projection.Rows {
				doc.Rows = append(doc.Rows, tableJSONRow{ID: row.ID, Cells: row.Cells})
			}
		}
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode table: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}

	if projection == nil {
		_, err := fmt.Fprintln(w, "nothing to tabulate: no list under data")
		return err
	}

	_, err = fmt.Fprintln(w, renderProjection(projection))
	return err
}

// renderProjection draws the table with the workbench colours.
func renderProjection(t *motor.Table) string {
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = runewidth.Truncate(strings.Join(strings.Fields(cell), " "), maxCellWidth, "...")
		}
		rows[i] = cells
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tui.ProjectionBorderStyle).
		Headers(t.Columns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tui.ProjectionHeaderStyle
			}
			switch rows[row][col] {
			case "true":
				return tui.ProjectionCellStyle.Foreground(tui.RGBGreen)
			case "false":
				return tui.ProjectionCellStyle.Foreground(tui.RGBRed)
			}
			return tui.ProjectionCellStyle
		})

	caption := fmt.Sprintf("%s: %d rows", t.Source, len(t.Rows))
	return tbl.Render() + "\n" + tui.FaintStyle.Render(caption)
}

// renderDocument colours a JSON document, leaving other text as it is.
func renderDocument(body []byte) string {
	return tui.RenderJSON(body, "")
}
