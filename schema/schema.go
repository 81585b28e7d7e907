package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Type kinds as reported by introspection.
const (
	KindScalar      = "SCALAR"
	KindObject      = "OBJECT"
	KindInterface   = "INTERFACE"
	KindUnion       = "UNION"
	KindEnum        = "ENUM"
	KindInputObject = "INPUT_OBJECT"
	KindList        = "LIST"
	KindNonNull     = "NON_NULL"
)

// ErrNoSchema is returned when the document has no data.__schema member.
var ErrNoSchema = errors.New("document has no data.__schema")

// Schema is the subset of an introspection result the explorer shows.
type Schema struct {
	QueryType        string
	MutationType     string
	SubscriptionType string
	Types            []Type
}

type Type struct {
	Kind          string       `json:"kind"`
	Name          string       `json:"name"`
	Description   string       `json:"description,omitempty"`
	Fields        []Field      `json:"fields,omitempty"`
	InputFields   []InputValue `json:"inputFields,omitempty"`
	EnumValues    []EnumValue  `json:"enumValues,omitempty"`
	Interfaces    []TypeRef    `json:"interfaces,omitempty"`
	PossibleTypes []TypeRef    `json:"possibleTypes,omitempty"`
}

type Field struct {
	Name              string       `json:"name"`
	Description       string       `json:"description,omitempty"`
	Args              []InputValue `json:"args,omitempty"`
	Type              TypeRef      `json:"type"`
	IsDeprecated      bool         `json:"isDeprecated,omitempty"`
	DeprecationReason string       `json:"deprecationReason,omitempty"`
}

type InputValue struct {
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Type         TypeRef `json:"type"`
	DefaultValue *string `json:"defaultValue,omitempty"`
}

type EnumValue struct {
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	IsDeprecated      bool   `json:"isDeprecated,omitempty"`
	DeprecationReason string `json:"deprecationReason,omitempty"`
}

// TypeRef is a possibly wrapped reference to a named type.
type TypeRef struct {
	Kind   string   `json:"kind,omitempty"`
	Name   string   `json:"name,omitempty"`
	OfType *TypeRef `json:"ofType,omitempty"`
}

// String renders the reference in SDL notation, e.g. [User] or ID!.
func (r TypeRef) String() string {
	switch r.Kind {
	case KindNonNull:
		if r.OfType == nil {
			return "!"
		}
		return r.OfType.String() + "!"
	case KindList:
		if r.OfType == nil {
			return "[]"
		}
		return "[" + r.OfType.String() + "]"
	}
	if r.Name == "" && r.OfType != nil {
		return r.OfType.String()
	}
	return r.Name
}

// Named returns the innermost type name.
func (r TypeRef) Named() string {
	if r.OfType != nil {
		return r.OfType.Named()
	}
	return r.Name
}

// Signature renders the field as name(arg: Type): Type.
func (f Field) Signature() string {
	var b strings.Builder
	b.WriteString(f.Name)
	if len(f.Args) > 0 {
		b.WriteByte('(')
		for i, arg := range f.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(arg.Name)
			b.WriteString(": ")
			b.WriteString(arg.Type.String())
			if arg.DefaultValue != nil {
				b.WriteString(" = ")
				b.WriteString(*arg.DefaultValue)
			}
		}
		b.WriteByte(')')
	}
	b.WriteString(": ")
	b.WriteString(f.Type.String())
	return b.String()
}

// Internal reports whether the type belongs to the introspection system itself.
func (t Type) Internal() bool {
	return strings.HasPrefix(t.Name, "__")
}

type introspection struct {
	Data *struct {
		Schema *struct {
			QueryType        *TypeRef `json:"queryType"`
			MutationType     *TypeRef `json:"mutationType"`
			SubscriptionType *TypeRef `json:"subscriptionType"`
			Types            []Type   `json:"types"`
		} `json:"__schema"`
	} `json:"data"`
}

// Parse reads an introspection query result.
func Parse(data []byte) (*Schema, error) {
	var doc introspection
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid introspection result: %w", err)
	}
	if doc.Data == nil || doc.Data.Schema == nil {
		return nil, ErrNoSchema
	}

	raw := doc.Data.Schema
	s := &Schema{Types: raw.Types}
	if raw.QueryType != nil {
		s.QueryType = raw.QueryType.Name
	}
	if raw.MutationType != nil {
		s.MutationType = raw.MutationType.Name
	}
	if raw.SubscriptionType != nil {
		s.SubscriptionType = raw.SubscriptionType.Name
	}
	return s, nil
}

// Type looks up a type by name.
func (s *Schema) Type(name string) (Type, bool) {
	for _, t := range s.Types {
		if t.Name == name {
			return t, true
		}
	}
	return Type{}, false
}

// Match is a type selected by Filter with the positions of the matched runes in its name.
type Match struct {
	Type           Type
	MatchedIndexes []int
}

type visibleTypes []Type

func (v visibleTypes) String(i int) string { return v[i].Name }
func (v visibleTypes) Len() int            { return len(v) }

// Filter returns the non-internal types whose names fuzzy-match term, best match first.
// An empty term returns every non-internal type in declaration order.
func (s *Schema) Filter(term string) []Match {
	visible := make(visibleTypes, 0, len(s.Types))
	for _, t := range s.Types {
		if !t.Internal() {
			visible = append(visible, t)
		}
	}

	term = strings.TrimSpace(term)
	if term == "" {
		out := make([]Match, len(visible))
		for i, t := range visible {
			out[i] = Match{Type: t}
		}
		return out
	}

	found := fuzzy.FindFrom(term, visible)
	out := make([]Match, len(found))
	for i, m := range found {
		out[i] = Match{Type: visible[m.Index], MatchedIndexes: m.MatchedIndexes}
	}
	return out
}
