package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/pb33f/gqlific/motor"
	"github.com/spf13/cobra"
)

var encodeCmd = &cobra.Command{
	Use:   "encode [pairs.json]",
	Short: "Encode key/value pairs as a JSON object",
	Long: `Read a JSON array of {"key": ..., "value": ...} pairs and print the object they
encode to. Values are typed the way the workbench types them: embedded objects and
arrays, numbers and booleans become JSON values, everything else stays a string.
Pairs with an empty key are skipped and a repeated key keeps its first position.`,
	Example: `  echo '[{"key":"first","value":"10"},{"key":"tags","value":"[\"a\"]"}]' | gqlific encode`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd, firstArg(args))
		if err != nil {
			return err
		}

		var pairs []motor.KeyValuePair
		if err := json.Unmarshal(data, &pairs); err != nil {
			return fmt.Errorf("input must be a JSON array of key/value pairs: %w", err)
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), motor.Encode(pairs))
		return err
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode [object.json]",
	Short: "Decode a JSON object into key/value pairs",
	Long: `Read a JSON object and print its members as key/value pairs in declaration
order. Nested values are kept as their JSON text.`,
	Example: `  echo '{"first": 10, "filter": {"active": true}}' | gqlific decode`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd, firstArg(args))
		if err != nil {
			return err
		}

		pairs, err := motor.Decode(string(data), nil)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(pairs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode pairs: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd, decodeCmd)
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
