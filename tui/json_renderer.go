package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/charmbracelet/lipgloss/v2"
)

// JSONRenderer pretty prints a JSON document in its original member order,
// colouring syntax and highlighting keys or values that contain a search term.
type JSONRenderer struct {
	indent  string
	term    string
	matches int
}

// NewJSONRenderer creates a renderer highlighting term (case-insensitive, empty for none).
func NewJSONRenderer(term string) *JSONRenderer {
	return &JSONRenderer{indent: "  ", term: strings.ToLower(term)}
}

// MatchCount returns how many keys and values matched during the last Render.
func (r *JSONRenderer) MatchCount() int {
	return r.matches
}

// Render returns the coloured document. Text that is not JSON is returned as is
// with ok false.
func (r *JSONRenderer) Render(doc []byte) (out string, ok bool) {
	r.matches = 0
	if !json.Valid(doc) {
		return string(doc), false
	}

	value, dataType, _, err := jsonparser.Get(doc)
	if err != nil {
		return string(doc), false
	}

	var b strings.Builder
	r.renderNode(&b, value, dataType, 0)
	return b.String(), true
}

func (r *JSONRenderer) renderNode(b *strings.Builder, value []byte, dataType jsonparser.ValueType, depth int) {
	indent := strings.Repeat(r.indent, depth)

	switch dataType {
	case jsonparser.Object:
		type member struct {
			key      string
			value    []byte
			dataType jsonparser.ValueType
		}
		var members []member
		_ = jsonparser.ObjectEach(value, func(key, v []byte, t jsonparser.ValueType, _ int) error {
			k, err := jsonparser.ParseString(key)
			if err != nil {
				k = string(key)
			}
			members = append(members, member{k, v, t})
			return nil
		})

		if len(members) == 0 {
			b.WriteString(SyntaxBraceStyle.Render("{}"))
			return
		}

		b.WriteString(SyntaxBraceStyle.Render("{"))
		b.WriteString("\n")
		for i, m := range members {
			b.WriteString(indent + r.indent)
			b.WriteString(r.renderKey(m.key))
			b.WriteString(": ")
			r.renderNode(b, m.value, m.dataType, depth+1)
			if i < len(members)-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString(indent + SyntaxBraceStyle.Render("}"))

	case jsonparser.Array:
		type item struct {
			value    []byte
			dataType jsonparser.ValueType
		}
		var items []item
		_, _ = jsonparser.ArrayEach(value, func(v []byte, t jsonparser.ValueType, _ int, _ error) {
			items = append(items, item{v, t})
		})

		if len(items) == 0 {
			b.WriteString(SyntaxBracketStyle.Render("[]"))
			return
		}

		b.WriteString(SyntaxBracketStyle.Render("["))
		b.WriteString("\n")
		for i, it := range items {
			b.WriteString(indent + r.indent)
			r.renderNode(b, it.value, it.dataType, depth+1)
			if i < len(items)-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString(indent + SyntaxBracketStyle.Render("]"))

	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			s = string(value)
		}
		b.WriteString(r.renderScalar(fmt.Sprintf("%q", s), s, nil))

	case jsonparser.Number:
		b.WriteString(r.renderScalar(string(value), string(value), &SyntaxNumberStyle))

	case jsonparser.Boolean:
		b.WriteString(r.renderScalar(string(value), string(value), &SyntaxBoolStyle))

	default:
		b.WriteString(r.renderScalar("null", "null", &SyntaxNullStyle))
	}
}

func (r *JSONRenderer) renderKey(key string) string {
	quoted := fmt.Sprintf("%q", key)
	if r.match(key) {
		return SyntaxMatchStyle.Render(quoted)
	}
	return SyntaxKeyStyle.Render(quoted)
}

func (r *JSONRenderer) renderScalar(display, raw string, style *lipgloss.Style) string {
	if r.match(raw) {
		return SyntaxMatchStyle.Render(display)
	}
	if style == nil {
		return display
	}
	return style.Render(display)
}

func (r *JSONRenderer) match(s string) bool {
	if r.term == "" || !strings.Contains(strings.ToLower(s), r.term) {
		return false
	}
	r.matches++
	return true
}

// RenderJSON renders doc with term highlighted. Non-JSON text comes back unchanged.
func RenderJSON(doc []byte, term string) string {
	out, _ := NewJSONRenderer(term).Render(doc)
	return out
}
