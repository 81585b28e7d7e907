package motor

import (
	"strings"

	"github.com/buger/jsonparser"
)

// emptyObject is what blank text decodes as.
const emptyObject = "{}"

// Encode renders pairs as a pretty-printed JSON object. Pairs with an empty key are
// skipped, values are coerced to typed JSON, and a repeated key keeps the position of
// its first occurrence with the value of its last.
func Encode(pairs []KeyValuePair) string {
	obj := &node{kind: jsonparser.Object}
	positions := make(map[string]int, len(pairs))

	for _, p := range pairs {
		if p.Key == "" {
			continue
		}
		obj.set(p.Key, coerce(p.Value), positions)
	}

	return obj.pretty()
}

// coerce types a raw value: embedded JSON objects and arrays first, then finite
// numbers, then the two boolean literals, otherwise the text itself.
func coerce(value string) *node {
	trimmed := strings.TrimSpace(value)

	if looksStructured(trimmed) {
		if checkSyntax([]byte(trimmed)) == nil {
			if n, err := parseDocument([]byte(trimmed)); err == nil {
				return n
			}
		}
	}

	if trimmed != "" {
		if f, ok := parseFiniteNumber(trimmed); ok {
			return &node{kind: jsonparser.Number, text: formatNumber(f)}
		}
	}

	if value == "true" || value == "false" {
		return &node{kind: jsonparser.Boolean, text: value}
	}

	return &node{kind: jsonparser.String, text: value}
}

func looksStructured(s string) bool {
	return strings.HasPrefix(s, "{") || strings.HasSuffix(s, "}") ||
		strings.HasPrefix(s, "[") || strings.HasSuffix(s, "]")
}

// Decode turns JSON object text into pairs in declaration order. Blank text is an
// empty object. Text that is not JSON fails with *ParseError, JSON that is not an
// object fails with *NotObjectError. The result is never empty: an object without
// members yields the placeholder pair.
func Decode(text string, ids IDGenerator) ([]KeyValuePair, error) {
	if ids == nil {
		ids = &CounterIDs{}
	}

	data := []byte(text)
	if strings.TrimSpace(text) == "" {
		data = []byte(emptyObject)
	}

	if err := checkSyntax(data); err != nil {
		return nil, err
	}

	doc, err := parseDocument(data)
	if err != nil {
		return nil, err
	}
	if doc.kind != jsonparser.Object {
		return nil, &NotObjectError{Kind: kindName(doc.kind)}
	}

	pairs := make([]KeyValuePair, 0, len(doc.members)+1)
	for _, m := range doc.members {
		pairs = append(pairs, KeyValuePair{
			ID:    ids.NextID(),
			Key:   m.key,
			Value: stringify(m.value),
		})
	}

	if len(pairs) == 0 {
		pairs = append(pairs, KeyValuePair{ID: ids.NextID()})
	}

	return pairs, nil
}

// stringify turns a decoded member back into editable text: nested values as compact
// JSON, scalars as their canonical text.
func stringify(n *node) string {
	switch n.kind {
	case jsonparser.Object, jsonparser.Array:
		return n.compact()
	default:
		return n.scalarText()
	}
}
