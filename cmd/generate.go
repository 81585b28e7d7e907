package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/pb33f/gqlific/mockgen"
	"github.com/spf13/cobra"
)

var (
	genEntryCount int
	genOutputFile string
	genEndpoint   string
	genSeed       int64
	genDictPath   string
	genMaxItems   int
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a HAR capture of mock GraphQL traffic",
	Long: `Generate a HAR (HTTP Archive) capture of GraphQL exchanges answered by the mock
responder. The first exchange is always the sample users query; the rest list
randomly named types with a few fields. The result opens with --har.`,
	Example: `  gqlific generate -n 100 -o traffic.har
  gqlific generate --seed 42 --endpoint https://api.example.com/graphql
  gqlific generate -n 20 -o - | gqlific har /dev/stdin`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().IntVarP(&genEntryCount, "entries", "n", mockgen.DefaultCaptureOptions.Count, "Number of exchanges to generate")
	generateCmd.Flags().StringVarP(&genOutputFile, "output", "o", "", "Output file path, - for stdout (default: gqlific-{timestamp}.har)")
	generateCmd.Flags().StringVar(&genEndpoint, "endpoint", mockgen.DefaultCaptureOptions.Endpoint, "GraphQL URL recorded in every entry")
	generateCmd.Flags().Int64VarP(&genSeed, "seed", "s", 0, "Random seed for reproducibility (0 = use current time)")
	generateCmd.Flags().StringVarP(&genDictPath, "dict", "d", mockgen.DefaultDictionaryPath, "Dictionary file path")
	generateCmd.Flags().IntVar(&genMaxItems, "max-items", 5, "Longest generated list")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	dict, err := mockgen.LoadDictionary(genDictPath)
	if err != nil {
		return err
	}

	opts := mockgen.CaptureOptions{
		Count:      genEntryCount,
		Endpoint:   genEndpoint,
		Seed:       genSeed,
		MaxItems:   genMaxItems,
		Dictionary: dict,
	}

	if genOutputFile == "-" {
		_, err := mockgen.WriteCapture(cmd.Context(), cmd.OutOrStdout(), opts)
		return err
	}

	path := genOutputFile
	if path == "" {
		path = fmt.Sprintf("gqlific-%d.har", time.Now().Unix())
	}

	fmt.Fprintf(os.Stderr, "Generating HAR file with %d exchanges...\n", genEntryCount)
	n, err := mockgen.WriteCaptureFile(cmd.Context(), path, opts)
	if err != nil {
		return fmt.Errorf("failed to generate HAR: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Generated HAR file: %s\n", path)
	fmt.Fprintf(cmd.OutOrStdout(), "  Total entries: %d\n", n)
	return nil
}
