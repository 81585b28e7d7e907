package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/pb33f/gqlific/capture"
	"github.com/pb33f/gqlific/tui"
	"github.com/spf13/cobra"
)

var (
	harOperation string
	harTable     bool
)

var harCmd = &cobra.Command{
	Use:   "har <har-file>",
	Short: "List the GraphQL operations in a HAR capture",
	Long: `Read a HAR capture and list every GraphQL operation it contains, including each
operation of a batched request. With --operation one of them is printed in full:
its query, variables and the response it received.`,
	Example: `  gqlific har recording.har
  gqlific har recording.har --operation GetUsersWithPosts
  gqlific har recording.har -o 3 --table`,
	Args: cobra.ExactArgs(1),
	RunE: runHar,
}

func init() {
	rootCmd.AddCommand(harCmd)
	harCmd.Flags().StringVarP(&harOperation, "operation", "o", "", "Operation id, id prefix, name or position")
	harCmd.Flags().BoolVarP(&harTable, "table", "t", false, "Print the operation's response as a table")
}

func runHar(cmd *cobra.Command, args []string) error {
	harFile := args[0]
	logger := GetLogger()

	if err := ValidateFile("HAR", harFile); err != nil {
		return fmt.Errorf("invalid HAR file: %w", err)
	}

	c, err := capture.Load(harFile)
	if err != nil {
		return err
	}

	logger.Info("HAR file loaded",
		"entries", c.TotalEntries,
		"operations", len(c.Operations),
		"read_time", c.ReadTime)
	logger.Debug("HAR creator", "name", c.Creator.Name, "version", c.Creator.Version, "hash", c.Hash)

	out := cmd.OutOrStdout()
	if harOperation == "" {
		return printOperations(out, c)
	}

	op, ok := c.Find(harOperation)
	if !ok {
		return fmt.Errorf("operation %q not found in %s", harOperation, harFile)
	}
	return printOperation(out, op, harTable)
}

func printOperations(w io.Writer, c *capture.Capture) error {
	if len(c.Operations) == 0 {
		_, err := fmt.Fprintf(w, "no GraphQL operations in %d entries\n", c.TotalEntries)
		return err
	}

	rows := make([][]string, len(c.Operations))
	for i, op := range c.Operations {
		started := ""
		if !op.Started.IsZero() {
			started = op.Started.Format(time.DateTime)
		}
		rows[i] = []string{fmt.Sprintf("%d", i), op.ID, op.Name(), op.Method, fmt.Sprintf("%d", op.Status), op.Endpoint, started}
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tui.ProjectionBorderStyle).
		Headers("#", "ID", "Operation", "Method", "Status", "Endpoint", "Started").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tui.ProjectionHeaderStyle
			}
			if col == 4 {
				return tui.StatusStyle(c.Operations[row].Status).Padding(0, 1)
			}
			return tui.ProjectionCellStyle
		})

	_, err := fmt.Fprintf(w, "%s\n%s\n", tbl.Render(),
		tui.FaintStyle.Render(fmt.Sprintf("%d operations in %d entries", len(c.Operations), c.TotalEntries)))
	return err
}

func printOperation(w io.Writer, op capture.Operation, asTable bool) error {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render(op.Name()))
	b.WriteString(tui.FaintStyle.Render(fmt.Sprintf("  %s %s  %d", op.Method, op.Endpoint, op.Status)))
	b.WriteString("\n\n")
	b.WriteString(tui.HighlightGraphQL(op.Query))
	b.WriteString("\n")

	if op.Variables != "" {
		b.WriteString("\n")
		b.WriteString(tui.HeaderStyle.Render("Variables"))
		b.WriteString("\n")
		b.WriteString(renderDocument([]byte(op.Variables)))
		b.WriteString("\n")
	}

	if _, err := fmt.Fprintln(w, b.String()); err != nil {
		return err
	}

	if op.Response == nil {
		_, err := fmt.Fprintln(w, tui.FaintStyle.Render("no response recorded"))
		return err
	}
	if asTable {
		return printProjection(w, op.Response.Body, false)
	}
	return printDocument(w, op.Response.Body, false)
}
