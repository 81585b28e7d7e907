package mockgen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/pb33f/gqlific/gql"
)

const typenameField = "__typename"

// object is a JSON object that keeps its members in selection order.
type object []member

type member struct {
	key   string
	value any
}

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(m.value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// values for fields that read better with something other than a random word
var commonFieldValues = map[string][]string{
	"status":   {"ACTIVE", "INACTIVE", "PENDING"},
	"role":     {"ADMIN", "EDITOR", "VIEWER"},
	"country":  {"US", "UK", "CA", "DE", "FR", "JP"},
	"currency": {"USD", "EUR", "GBP", "JPY"},
	"phone":    {"+1234567890", "555-1234", "+44 20 7946 0958"},
	"locale":   {"en-US", "en-GB", "de-DE", "fr-FR", "ja-JP"},
}

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// dataGenerator fills a selection with random values drawn from a dictionary.
type dataGenerator struct {
	dict     *Dictionary
	rng      *rand.Rand
	maxItems int
	nextID   int
}

func newDataGenerator(dict *Dictionary, rng *rand.Rand, maxItems int) *dataGenerator {
	if maxItems <= 0 {
		maxItems = 5
	}
	return &dataGenerator{dict: dict, rng: rng, maxItems: maxItems}
}

// data builds the data member for an operation. Composite root fields become lists
// of records so every response can be tabulated.
func (g *dataGenerator) data(op *gql.Operation) object {
	out := make(object, 0, len(op.Selections))
	for _, sel := range op.Selections {
		if sel.Leaf() {
			out = append(out, member{sel.Key, g.scalar(sel.Name, op.Type)})
			continue
		}
		out = append(out, member{sel.Key, g.records(sel, g.rng.Intn(g.maxItems)+1)})
	}
	return out
}

func (g *dataGenerator) records(sel gql.Selection, n int) []object {
	list := make([]object, n)
	for i := range list {
		list[i] = g.record(sel.Children, sel.Name)
	}
	return list
}

func (g *dataGenerator) record(children []gql.Selection, parent string) object {
	out := make(object, 0, len(children))
	for _, child := range children {
		out = append(out, member{child.Key, g.value(child, parent)})
	}
	return out
}

func (g *dataGenerator) value(sel gql.Selection, parent string) any {
	if sel.Leaf() {
		return g.scalar(sel.Name, parent)
	}
	if plural(sel.Name) {
		return g.records(sel, g.rng.Intn(g.maxItems))
	}
	return g.record(sel.Children, sel.Name)
}

func (g *dataGenerator) scalar(name, parent string) any {
	lower := strings.ToLower(name)

	if values, ok := commonFieldValues[lower]; ok {
		return values[g.rng.Intn(len(values))]
	}

	switch {
	case name == typenameField:
		return typeName(parent)
	case lower == "id" || strings.HasSuffix(name, "Id") || strings.HasSuffix(lower, "_id"):
		g.nextID++
		return strconv.Itoa(g.nextID)
	case strings.Contains(lower, "email"):
		return g.dict.Word(g.rng) + "@example.com"
	case strings.HasSuffix(lower, "url") || strings.Contains(lower, "avatar") || strings.Contains(lower, "link"):
		return "https://example.com/" + g.dict.Word(g.rng)
	case lower == "name" || strings.HasSuffix(lower, "name"):
		return g.dict.Title(2, g.rng)
	case lower == "title" || lower == "subject" || lower == "headline":
		return g.dict.Title(g.rng.Intn(3)+2, g.rng)
	case lower == "content" || lower == "body" || lower == "description" || lower == "text" || lower == "bio":
		return capitalize(strings.Join(g.dict.Words(g.rng.Intn(8)+4, g.rng), " ")) + "."
	case strings.HasPrefix(name, "is") || strings.HasPrefix(name, "has") || strings.HasPrefix(name, "can"):
		return g.rng.Intn(2) == 0
	case strings.HasSuffix(name, "At") || strings.Contains(lower, "date") || strings.Contains(lower, "time"):
		return epoch.Add(time.Duration(g.rng.Intn(365*24)) * time.Hour).Format(time.RFC3339)
	case strings.Contains(lower, "count") || strings.HasPrefix(lower, "total") || lower == "age" || lower == "size" || lower == "quantity":
		return g.rng.Intn(100)
	case strings.Contains(lower, "price") || strings.Contains(lower, "amount") || strings.Contains(lower, "score") || lower == "rating":
		return math.Round(g.rng.Float64()*10000) / 100
	default:
		return g.dict.Word(g.rng)
	}
}

// plural guesses whether a field returns a list from its name.
func plural(name string) bool {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, "ss") || strings.HasSuffix(lower, "status") {
		return false
	}
	return strings.HasSuffix(lower, "s") || strings.HasSuffix(lower, "list") || lower == "edges" || lower == "nodes"
}

// typeName derives a type name from the field that selected it, users becomes User.
func typeName(field string) string {
	name := field
	switch {
	case strings.HasSuffix(name, "ies"):
		name = strings.TrimSuffix(name, "ies") + "y"
	case plural(name) && strings.HasSuffix(name, "s"):
		name = strings.TrimSuffix(name, "s")
	}
	if name == "" {
		return "Object"
	}
	return capitalize(name)
}

func errorBody(message string, line, column int) []byte {
	var b strings.Builder
	b.WriteString(`{"errors":[{"message":`)
	msg, _ := json.Marshal(message)
	b.Write(msg)
	if line > 0 {
		fmt.Fprintf(&b, `,"locations":[{"line":%d,"column":%d}]`, line, column)
	}
	b.WriteString(`}]}`)
	return []byte(b.String())
}
