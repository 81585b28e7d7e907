package motor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
)

// node is an order-preserving JSON value. encoding/json maps lose member order, and
// member order is what drives pair order and table columns.
type node struct {
	kind    jsonparser.ValueType
	text    string // unescaped for strings, raw literal for numbers and booleans
	raw     []byte // source text, aliases the parsed document
	members []member
	items   []*node
}

type member struct {
	key   string
	value *node
}

func (n *node) lookup(key string) *node {
	for _, m := range n.members {
		if m.key == key {
			return m.value
		}
	}
	return nil
}

// set applies object literal semantics: a repeated key keeps its first position and
// takes the newest value.
func (n *node) set(key string, value *node, positions map[string]int) {
	if i, ok := positions[key]; ok {
		n.members[i].value = value
		return
	}
	positions[key] = len(n.members)
	n.members = append(n.members, member{key: key, value: value})
}

// checkSyntax validates a complete JSON document, reporting the failing offset.
func checkSyntax(data []byte) error {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		pe := &ParseError{Err: err}
		if se, ok := err.(*json.SyntaxError); ok {
			pe.Offset = se.Offset
		}
		return pe
	}
	return nil
}

// parseDocument parses an already validated JSON document into a node tree.
func parseDocument(data []byte) (*node, error) {
	value, kind, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return parseNode(value, kind)
}

func parseNode(value []byte, kind jsonparser.ValueType) (*node, error) {
	n := &node{kind: kind, raw: value}

	switch kind {
	case jsonparser.Object:
		positions := make(map[string]int)
		err := jsonparser.ObjectEach(value, func(key, raw []byte, vt jsonparser.ValueType, _ int) error {
			child, err := parseNode(raw, vt)
			if err != nil {
				return err
			}
			// key may alias a parser stack buffer
			n.set(string(key), child, positions)
			return nil
		})
		if err != nil {
			return nil, &ParseError{Err: err}
		}

	case jsonparser.Array:
		var inner error
		_, err := jsonparser.ArrayEach(value, func(raw []byte, vt jsonparser.ValueType, _ int, _ error) {
			if inner != nil {
				return
			}
			child, err := parseNode(raw, vt)
			if err != nil {
				inner = err
				return
			}
			n.items = append(n.items, child)
		})
		if inner != nil {
			return nil, inner
		}
		if err != nil {
			return nil, &ParseError{Err: err}
		}

	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return nil, &ParseError{Err: err}
		}
		n.text = s

	case jsonparser.Number, jsonparser.Boolean:
		n.text = string(value)

	case jsonparser.Null:
		n.text = "null"

	default:
		return nil, &ParseError{Err: fmt.Errorf("unexpected %s value", kind)}
	}

	return n, nil
}

// kindName names a JSON kind the way error messages refer to it.
func kindName(kind jsonparser.ValueType) string {
	switch kind {
	case jsonparser.Boolean:
		return "boolean"
	default:
		return kind.String()
	}
}

// compact serializes n as single-line JSON.
func (n *node) compact() string {
	var buf bytes.Buffer
	n.write(&buf)
	return buf.String()
}

// pretty serializes n with a stable two space indent.
func (n *node) pretty() string {
	var compact, out bytes.Buffer
	n.write(&compact)
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return compact.String()
	}
	return out.String()
}

// scalarText renders a scalar the way it is shown to a user: strings verbatim,
// numbers in canonical form.
func (n *node) scalarText() string {
	if n.kind == jsonparser.Number {
		return canonicalNumber(n.text)
	}
	return n.text
}

func (n *node) write(buf *bytes.Buffer) {
	switch n.kind {
	case jsonparser.Object:
		buf.WriteByte('{')
		for i, m := range n.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeString(buf, m.key)
			buf.WriteByte(':')
			m.value.write(buf)
		}
		buf.WriteByte('}')

	case jsonparser.Array:
		buf.WriteByte('[')
		for i, item := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			item.write(buf)
		}
		buf.WriteByte(']')

	case jsonparser.String:
		writeString(buf, n.text)

	case jsonparser.Number:
		f, err := strconv.ParseFloat(n.text, 64)
		if err != nil && !math.IsInf(f, 0) {
			buf.WriteString(n.text)
			return
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			buf.WriteString("null")
			return
		}
		buf.WriteString(formatNumber(f))

	case jsonparser.Boolean:
		buf.WriteString(n.text)

	default:
		buf.WriteString("null")
	}
}

// writeString quotes s without the HTML escaping json.Marshal applies.
func writeString(buf *bytes.Buffer, s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		buf.WriteString(strconv.Quote(s))
		return
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
}

// canonicalNumber renders a JSON number literal the way a JavaScript runtime would
// stringify it: 1.50 becomes 1.5, 1E3 becomes 1000.
func canonicalNumber(literal string) string {
	f, err := strconv.ParseFloat(literal, 64)
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if err != nil {
		return literal
	}
	return formatNumber(f)
}

func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	s := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exp, found := strings.Cut(s, "e")
	if !found {
		return s
	}
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + sign + digits
}

// parseFiniteNumber accepts the number forms a JavaScript Number() conversion
// accepts for already trimmed, non-empty input.
func parseFiniteNumber(s string) (float64, bool) {
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			v, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return 0, false
			}
			return float64(v), true
		}
	}

	// strconv spells out inf and nan and accepts hex floats; none of these are
	// finite numbers here
	lower := strings.ToLower(s)
	if strings.Contains(lower, "inf") || strings.Contains(lower, "nan") || strings.Contains(lower, "x") || strings.Contains(s, "_") {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
