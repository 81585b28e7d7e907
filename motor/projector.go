package motor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
)

const dataKey = "data"

// Table is a column/row view of a JSON response, derived fresh on every projection.
type Table struct {
	// Source is the name of the data property the rows came from.
	Source  string
	Columns []string
	Rows    []Row
}

// Row is one element of the projected array. Cells line up with Table.Columns.
type Row struct {
	// ID is the element's own id when it has one, otherwise its position.
	ID    string
	Cells []string
	// Raw is the element as it appears in the response.
	Raw []byte
}

// Value returns the cell of row i under column, or "" when either is absent.
func (t *Table) Value(i int, column string) string {
	if i < 0 || i >= len(t.Rows) {
		return ""
	}
	for c, name := range t.Columns {
		if name == column && c < len(t.Rows[i].Cells) {
			return t.Rows[i].Cells[c]
		}
	}
	return ""
}

// Map returns row i keyed by column name.
func (t *Table) Map(i int) map[string]string {
	out := make(map[string]string, len(t.Columns))
	if i < 0 || i >= len(t.Rows) {
		return out
	}
	for c, name := range t.Columns {
		out[name] = t.Rows[i].Cells[c]
	}
	return out
}

// Project derives a table from a GraphQL style response. It looks at the direct
// properties of the top-level data object in order and tabulates the first one holding
// an array; the columns are the property names of that array's first element. A nil
// table means there is nothing to tabulate: no response, no data object, or no array
// under it. Malformed JSON is reported as *ParseError.
func Project(response []byte) (*Table, error) {
	if len(strings.TrimSpace(string(response))) == 0 {
		return nil, nil
	}
	if err := checkSyntax(response); err != nil {
		return nil, err
	}

	doc, err := parseDocument(response)
	if err != nil {
		return nil, err
	}
	if doc.kind != jsonparser.Object {
		return nil, nil
	}

	data := doc.lookup(dataKey)
	if data == nil || data.kind != jsonparser.Object {
		return nil, nil
	}

	for _, m := range data.members {
		if m.value.kind == jsonparser.Array {
			return tabulate(m.key, m.value), nil
		}
	}

	return nil, nil
}

func tabulate(source string, arr *node) *Table {
	t := &Table{
		Source:  source,
		Columns: []string{},
		Rows:    []Row{},
	}
	if len(arr.items) == 0 {
		return t
	}

	// the first element fixes the schema; later elements are not reconciled
	if first := arr.items[0]; first.kind == jsonparser.Object {
		for _, m := range first.members {
			t.Columns = append(t.Columns, m.key)
		}
	}

	t.Rows = make([]Row, 0, len(arr.items))
	for i, item := range arr.items {
		row := Row{
			ID:    rowID(item, i),
			Cells: make([]string, len(t.Columns)),
			Raw:   item.source(),
		}
		if item.kind == jsonparser.Object {
			for c, col := range t.Columns {
				if v := item.lookup(col); v != nil {
					row.Cells[c] = cellText(v)
				}
			}
		}
		t.Rows = append(t.Rows, row)
	}

	return t
}

// source returns a copy of the node's JSON text. jsonparser hands strings back
// without their quotes.
func (n *node) source() []byte {
	if n.kind == jsonparser.String {
		out := make([]byte, 0, len(n.raw)+2)
		out = append(out, '"')
		out = append(out, n.raw...)
		return append(out, '"')
	}
	return append([]byte(nil), n.raw...)
}

func rowID(item *node, index int) string {
	if item.kind == jsonparser.Object {
		if id := item.lookup("id"); id != nil && id.kind != jsonparser.Null {
			return cellText(id)
		}
	}
	return strconv.Itoa(index)
}

// cellText renders one intersection: scalars as text, arrays as an item count, nested
// objects as indented JSON. null renders blank.
func cellText(v *node) string {
	switch v.kind {
	case jsonparser.Array:
		return fmt.Sprintf("[%d items]", len(v.items))
	case jsonparser.Object:
		return v.pretty()
	case jsonparser.Null:
		return ""
	default:
		return v.scalarText()
	}
}
