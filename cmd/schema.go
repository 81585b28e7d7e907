package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/pb33f/gqlific/schema"
	"github.com/pb33f/gqlific/tui"
	"github.com/spf13/cobra"
)

var (
	schemaSearch string
	schemaType   string
)

var schemaCmd = &cobra.Command{
	Use:   "schema [introspection.json]",
	Short: "Browse the types of a GraphQL schema",
	Long: `Read an introspection result and list its types. Without a file the schema of the
built-in mock API is used. --search fuzzy-matches type names, --type prints one type
with its fields and arguments.`,
	Example: `  gqlific schema introspection.json
  gqlific schema introspection.json --search usr
  gqlific schema --type User`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().StringVarP(&schemaSearch, "search", "s", "", "Fuzzy filter on type names")
	schemaCmd.Flags().StringVarP(&schemaType, "type", "t", "", "Describe one type")
}

func runSchema(cmd *cobra.Command, args []string) error {
	data := []byte(schema.SampleIntrospection)
	if len(args) > 0 {
		var err error
		if data, err = readInput(cmd, args[0]); err != nil {
			return err
		}
	}

	s, err := schema.Parse(data)
	if err != nil {
		return err
	}
	GetLogger().Debug("schema loaded", "types", len(s.Types), "query", s.QueryType, "mutation", s.MutationType)

	out := cmd.OutOrStdout()
	if schemaType != "" {
		t, ok := s.Type(schemaType)
		if !ok {
			return fmt.Errorf("type %q not found", schemaType)
		}
		return printType(out, t)
	}

	return printTypes(out, s, s.Filter(schemaSearch))
}

func printTypes(w io.Writer, s *schema.Schema, matches []schema.Match) error {
	if len(matches) == 0 {
		_, err := fmt.Fprintln(w, "no matching types")
		return err
	}

	roots := map[string]string{
		s.QueryType:        "query",
		s.MutationType:     "mutation",
		s.SubscriptionType: "subscription",
	}

	var b strings.Builder
	for _, m := range matches {
		fmt.Fprintf(&b, "%-14s %s", tui.FaintStyle.Render(strings.ToLower(m.Type.Kind)), m.Type.Name)
		if root, ok := roots[m.Type.Name]; ok && m.Type.Name != "" {
			b.WriteString(tui.HelpStyle.Render(" (" + root + " root)"))
		}
		b.WriteString("\n")
	}
	_, err := fmt.Fprint(w, b.String())
	return err
}

func printType(w io.Writer, t schema.Type) error {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render(t.Name))
	b.WriteString(tui.FaintStyle.Render(" " + strings.ToLower(t.Kind)))
	b.WriteString("\n")
	if t.Description != "" {
		b.WriteString(t.Description)
		b.WriteString("\n")
	}

	for _, f := range t.Fields {
		fmt.Fprintf(&b, "  %s", f.Signature())
		if f.IsDeprecated {
			b.WriteString(tui.FaintStyle.Render(" (deprecated: " + f.DeprecationReason + ")"))
		}
		b.WriteString("\n")
	}
	for _, f := range t.InputFields {
		fmt.Fprintf(&b, "  %s: %s\n", f.Name, f.Type.String())
	}
	for _, v := range t.EnumValues {
		fmt.Fprintf(&b, "  %s\n", v.Name)
	}
	for _, r := range t.Interfaces {
		fmt.Fprintf(&b, "  implements %s\n", r.Named())
	}
	for _, r := range t.PossibleTypes {
		fmt.Fprintf(&b, "  possible %s\n", r.Named())
	}

	_, err := fmt.Fprint(w, b.String())
	return err
}
