// Package gql reads the shape of GraphQL documents: which operations they hold and
// which fields each operation selects.
package gql

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/gqlparser/v2/ast"
	"github.com/dgraph-io/gqlparser/v2/parser"
)

// ErrNoOperation is returned when a document holds only fragments.
var ErrNoOperation = errors.New("document has no operation")

// SyntaxError reports where a document stopped parsing.
type SyntaxError struct {
	Message string
	Line    int
	Column  int
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return e.Message
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Document is a parsed GraphQL query document.
type Document struct {
	Operations []Operation
}

// Operation is one query, mutation or subscription.
type Operation struct {
	Type       string
	Name       string
	Variables  []string
	Selections []Selection
}

// Selection is a selected field. Key is the response key, the alias when one is given.
// Fragment spreads and inline fragments are flattened into their parent.
type Selection struct {
	Key      string
	Name     string
	Children []Selection
}

// Leaf reports whether the field selects no sub-fields.
func (s Selection) Leaf() bool {
	return len(s.Children) == 0
}

// Title renders the operation the way it is declared, e.g. "query GetUsers".
func (o Operation) Title() string {
	if o.Name == "" {
		return o.Type
	}
	return o.Type + " " + o.Name
}

// Parse reads a query document.
func Parse(text string) (*Document, error) {
	doc, gqlErr := parser.ParseQuery(&ast.Source{Input: text})
	if gqlErr != nil {
		se := &SyntaxError{Message: gqlErr.Message}
		if len(gqlErr.Locations) > 0 {
			se.Line = gqlErr.Locations[0].Line
			se.Column = gqlErr.Locations[0].Column
		}
		return nil, se
	}
	if len(doc.Operations) == 0 {
		return nil, ErrNoOperation
	}

	out := &Document{Operations: make([]Operation, 0, len(doc.Operations))}
	for _, op := range doc.Operations {
		operation := Operation{
			Type:       string(op.Operation),
			Name:       op.Name,
			Selections: flatten(doc, op.SelectionSet, map[string]bool{}),
		}
		if operation.Type == "" {
			operation.Type = string(ast.Query)
		}
		for _, v := range op.VariableDefinitions {
			operation.Variables = append(operation.Variables, v.Variable)
		}
		out.Operations = append(out.Operations, operation)
	}
	return out, nil
}

// Operation picks the operation to run. An empty name selects the only operation;
// documents with several operations need a name.
func (d *Document) Operation(name string) (*Operation, error) {
	if name == "" {
		if len(d.Operations) == 1 {
			return &d.Operations[0], nil
		}
		return nil, fmt.Errorf("document has %d operations, an operation name is required", len(d.Operations))
	}
	for i := range d.Operations {
		if d.Operations[i].Name == name {
			return &d.Operations[i], nil
		}
	}
	return nil, fmt.Errorf("unknown operation %q", name)
}

// Names lists the operation titles in declaration order.
func (d *Document) Names() []string {
	names := make([]string, len(d.Operations))
	for i, op := range d.Operations {
		names[i] = op.Title()
	}
	return names
}

func flatten(doc *ast.QueryDocument, set ast.SelectionSet, visiting map[string]bool) []Selection {
	var out []Selection
	for _, sel := range set {
		switch s := sel.(type) {
		case *ast.Field:
			key := s.Alias
			if key == "" {
				key = s.Name
			}
			out = append(out, Selection{
				Key:      key,
				Name:     s.Name,
				Children: flatten(doc, s.SelectionSet, visiting),
			})
		case *ast.InlineFragment:
			out = merge(out, flatten(doc, s.SelectionSet, visiting))
		case *ast.FragmentSpread:
			def := doc.Fragments.ForName(s.Name)
			if def == nil || visiting[s.Name] {
				continue
			}
			visiting[s.Name] = true
			out = merge(out, flatten(doc, def.SelectionSet, visiting))
			delete(visiting, s.Name)
		}
	}
	return out
}

// merge appends fields whose key is not selected yet.
func merge(into, from []Selection) []Selection {
	for _, f := range from {
		found := false
		for _, existing := range into {
			if existing.Key == f.Key {
				found = true
				break
			}
		}
		if !found {
			into = append(into, f)
		}
	}
	return into
}
