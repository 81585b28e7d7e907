package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/pb33f/gqlific/motor"
	"github.com/spf13/cobra"
)

var (
	runFilter string
	runTable  bool
	runJSON   bool
	runPlain  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a query once and print the response",
	Long: `Run a query against the mock responder without opening the workbench and print
the response. With --table the response is projected and printed as a table.`,
	Example: `  gqlific run --query users.graphql
  gqlific run --query users.graphql --variables vars.json --table
  gqlific run --filter "data.users[?email != null]" --table --json`,
	Args: cobra.NoArgs,
	RunE: runOnce,
}

func init() {
	rootCmd.AddCommand(runCmd)
	addWorkbenchFlags(runCmd)

	runCmd.Flags().StringVarP(&runFilter, "filter", "f", "", "JMESPath expression applied to the response")
	runCmd.Flags().BoolVarP(&runTable, "table", "t", false, "Print the projected table instead of the response")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "Print the table as a JSON array of rows")
	runCmd.Flags().BoolVar(&runPlain, "plain", false, "Print the response without syntax colours")
}

func runOnce(cmd *cobra.Command, args []string) error {
	logger := GetLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sess, err := newSession(cfg, workbench, logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	resp, err := sess.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("query complete", "status", resp.StatusCode, "bytes", resp.Size(), "duration", resp.Duration)

	body := resp.Body
	if runFilter != "" {
		if body, err = motor.FilterResponse(body, runFilter); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if !runTable && !runJSON {
		return printDocument(out, body, runPlain)
	}
	return printProjection(out, body, runJSON)
}

// printDocument writes a JSON document, coloured unless plain.
func printDocument(w io.Writer, body []byte, plain bool) error {
	if plain {
		_, err := fmt.Fprintln(w, string(body))
		return err
	}
	_, err := fmt.Fprintln(w, renderDocument(body))
	return err
}
